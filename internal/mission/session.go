package mission

import (
	"context"

	"github.com/google/uuid"

	"github.com/osse101/NexusMissions_Go/internal/domain"
)

type ctxKey string

const userIDKey ctxKey = "missionUserID"

// SessionProvider resolves the authenticated user for a request
type SessionProvider interface {
	CurrentUserID(ctx context.Context) (uuid.UUID, error)
}

// WithUserID returns a context carrying the authenticated user
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// ContextSession reads the user placed on the context by WithUserID
type ContextSession struct{}

// CurrentUserID returns domain.ErrNotAuthenticated when no user is present
func (ContextSession) CurrentUserID(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, domain.ErrNotAuthenticated
	}
	return id, nil
}
