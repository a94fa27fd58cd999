package notify

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/NexusMissions_Go/internal/event"
	"github.com/osse101/NexusMissions_Go/internal/logger"
)

// MemoryStore keeps alerts in process memory. Alerts are lost on restart,
// but engines re-arm every active mission on their next load.
type MemoryStore struct {
	mu        sync.Mutex
	alerts    map[string]Alert
	publisher event.Publisher
}

// NewMemoryStore creates an empty in-memory alert store
func NewMemoryStore(publisher event.Publisher) *MemoryStore {
	return &MemoryStore{
		alerts:    make(map[string]Alert),
		publisher: publisher,
	}
}

// ScheduleAlert arms an alert, replacing any prior alert with the same key
func (s *MemoryStore) ScheduleAlert(ctx context.Context, alert Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.alerts[storeKey(alert.UserID, alert.Key)] = alert
	logger.FromContext(ctx).Debug(LogMsgAlertScheduled, "key", alert.Key, "user_id", alert.UserID, "fire_at", alert.FireAt)
	return nil
}

// CancelAlert disarms an alert. Unknown keys are ignored.
func (s *MemoryStore) CancelAlert(ctx context.Context, userID uuid.UUID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := storeKey(userID, key)
	if _, ok := s.alerts[id]; ok {
		delete(s.alerts, id)
		logger.FromContext(ctx).Debug(LogMsgAlertCancelled, "key", key, "user_id", userID)
	}
	return nil
}

// DispatchDue removes every alert due at now and publishes it
func (s *MemoryStore) DispatchDue(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	var due []Alert
	for id, a := range s.alerts {
		if !a.FireAt.After(now) {
			due = append(due, a)
			delete(s.alerts, id)
		}
	}
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].FireAt.Before(due[j].FireAt) })

	for _, a := range due {
		fire(ctx, s.publisher, a)
	}
	return len(due), nil
}

// Pending returns the number of armed alerts
func (s *MemoryStore) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.alerts)
}

// Get returns the armed alert for a key, if any
func (s *MemoryStore) Get(userID uuid.UUID, key string) (Alert, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.alerts[storeKey(userID, key)]
	return a, ok
}

func fire(ctx context.Context, publisher event.Publisher, a Alert) {
	logger.FromContext(ctx).Info(LogMsgAlertFired, "key", a.Key, "user_id", a.UserID)
	if publisher != nil {
		publisher.PublishWithRetry(ctx, event.NewAlertFiredEvent(a.UserID, a.Key, a.Title, a.Body, a.FireAt))
	}
}
