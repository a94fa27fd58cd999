// Package notify schedules "mission ready" alerts. Alerts are keyed per
// user, and scheduling an existing key replaces the prior alert.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Alert is a scheduled notification
type Alert struct {
	Key    string    `json:"key"`
	UserID uuid.UUID `json:"user_id"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	FireAt time.Time `json:"fire_at"`
}

// Scheduler arms and cancels alerts
type Scheduler interface {
	ScheduleAlert(ctx context.Context, alert Alert) error
	CancelAlert(ctx context.Context, userID uuid.UUID, key string) error
}

// Dispatcher delivers alerts that have come due. Driven by the tick loop.
type Dispatcher interface {
	DispatchDue(ctx context.Context, now time.Time) (int, error)
}

// Store is a Scheduler that can also deliver its own alerts
type Store interface {
	Scheduler
	Dispatcher
}

// storeKey scopes an alert key to its user
func storeKey(userID uuid.UUID, key string) string {
	return userID.String() + "/" + key
}
