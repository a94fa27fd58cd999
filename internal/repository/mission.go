package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/osse101/NexusMissions_Go/internal/domain"
)

// Mission is the remote gateway the mission engine reads and mutates
// through. Implementations must be safe for concurrent use.
type Mission interface {
	// FetchCatalog returns every mission definition, ordered by level then title
	FetchCatalog(ctx context.Context) ([]domain.MissionDefinition, error)

	// FetchAssignments returns every assignment row for the user
	FetchAssignments(ctx context.Context, userID uuid.UUID) ([]domain.MissionAssignment, error)

	// InsertAssignment persists a new active assignment. Returns
	// domain.ErrMissionAlreadyActive if the user already holds a row.
	InsertAssignment(ctx context.Context, assignment domain.MissionAssignment) error

	// DeleteAssignment removes the user's assignment so the mission becomes unclaimed
	DeleteAssignment(ctx context.Context, userID, missionID uuid.UUID) error

	// CompleteWithReward marks the active assignment complete and credits
	// the reward in one transaction. Returns domain.ErrAssignmentNotFound
	// when no active row exists. Replaying the same key is a no-op.
	CompleteWithReward(ctx context.Context, userID, missionID uuid.UUID, amount int, idempotencyKey uuid.UUID) error

	// GetProfile returns the user's level and balance
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
}

// MissionCatalog is the write side used by catalog sync
type MissionCatalog interface {
	// UpsertMissionDefinitions inserts or updates definitions by id
	UpsertMissionDefinitions(ctx context.Context, defs []domain.MissionDefinition) (inserted, updated int, err error)
}
