package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/NexusMissions_Go/internal/domain"
	"github.com/osse101/NexusMissions_Go/internal/logger"
)

const catalogCacheKey = "catalog"

// MissionRepository implements repository.Mission and
// repository.MissionCatalog for PostgreSQL
type MissionRepository struct {
	db      *pgxpool.Pool
	catalog *expirable.LRU[string, []domain.MissionDefinition]
}

// NewMissionRepository creates a repository. The catalog is cached for
// catalogTTL; zero disables caching.
func NewMissionRepository(db *pgxpool.Pool, catalogTTL time.Duration) *MissionRepository {
	r := &MissionRepository{db: db}
	if catalogTTL > 0 {
		r.catalog = expirable.NewLRU[string, []domain.MissionDefinition](1, nil, catalogTTL)
	}
	return r
}

// FetchCatalog returns every mission ordered by level requirement then title
func (r *MissionRepository) FetchCatalog(ctx context.Context) ([]domain.MissionDefinition, error) {
	if r.catalog != nil {
		if cached, ok := r.catalog.Get(catalogCacheKey); ok {
			return append([]domain.MissionDefinition(nil), cached...), nil
		}
	}

	rows, err := r.db.Query(ctx, `
		SELECT mission_id, title, description, level_requirement, duration_hours,
		       reward, success_chance, success_message, fail_message
		FROM missions
		ORDER BY level_requirement, title
	`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToFetchCatalog, err)
	}

	catalog, err := pgx.CollectRows(rows, scanMissionDefinition)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToFetchCatalog, err)
	}

	if r.catalog != nil {
		r.catalog.Add(catalogCacheKey, catalog)
	}
	return append([]domain.MissionDefinition(nil), catalog...), nil
}

func scanMissionDefinition(row pgx.CollectableRow) (domain.MissionDefinition, error) {
	var (
		m       domain.MissionDefinition
		chance  *int32
		failMsg *string
		level   int32
		hours   int32
		reward  int32
	)
	err := row.Scan(&m.ID, &m.Title, &m.Description, &level, &hours, &reward, &chance, &m.SuccessMessage, &failMsg)
	if err != nil {
		return m, err
	}
	m.LevelRequirement = int(level)
	m.DurationHours = int(hours)
	m.Reward = int(reward)
	if chance != nil {
		v := int(*chance)
		m.SuccessChance = &v
	}
	m.FailMessage = failMsg
	return m, nil
}

// FetchAssignments returns every assignment row for the user
func (r *MissionRepository) FetchAssignments(ctx context.Context, userID uuid.UUID) ([]domain.MissionAssignment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, mission_id, started_at, finish_at, completed
		FROM user_missions
		WHERE user_id = $1
		ORDER BY started_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToFetchAssignments, err)
	}

	assignments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.MissionAssignment, error) {
		var a domain.MissionAssignment
		err := row.Scan(&a.UserID, &a.MissionID, &a.StartedAt, &a.FinishAt, &a.Completed)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToFetchAssignments, err)
	}
	return assignments, nil
}

// InsertAssignment persists a new active assignment
func (r *MissionRepository) InsertAssignment(ctx context.Context, a domain.MissionAssignment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO user_missions (user_id, mission_id, started_at, finish_at, completed)
		VALUES ($1, $2, $3, $4, FALSE)
	`, a.UserID, a.MissionID, a.StartedAt, a.FinishAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case PgErrorCodeUniqueViolation:
				return domain.ErrMissionAlreadyActive
			case PgErrorCodeForeignKeyViolation:
				return domain.ErrMissionNotFound
			}
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertAssignment, err)
	}
	return nil
}

func markComplete(ctx context.Context, tx pgx.Tx, userID, missionID uuid.UUID) error {
	tag, err := tx.Exec(ctx, `
		UPDATE user_missions
		SET completed = TRUE, completed_at = NOW()
		WHERE user_id = $1 AND mission_id = $2 AND NOT completed
	`, userID, missionID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCompleteAssignment, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAssignmentNotFound
	}
	return nil
}

// DeleteAssignment removes an active assignment
func (r *MissionRepository) DeleteAssignment(ctx context.Context, userID, missionID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM user_missions
		WHERE user_id = $1 AND mission_id = $2 AND NOT completed
	`, userID, missionID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeleteAssignment, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAssignmentNotFound
	}
	return nil
}

// CompleteWithReward marks the assignment complete and credits the reward
// in one transaction. A replayed idempotency key commits nothing.
func (r *MissionRepository) CompleteWithReward(ctx context.Context, userID, missionID uuid.UUID, amount int, idempotencyKey uuid.UUID) error {
	log := logger.FromContext(ctx)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	applied, err := credit(ctx, tx, userID, &missionID, amount, idempotencyKey)
	if err != nil {
		return err
	}
	if !applied {
		log.Info(LogMsgCreditReplayed, "user_id", userID, "mission_id", missionID, "key", idempotencyKey)
		return nil
	}

	if err := markComplete(ctx, tx, userID, missionID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// credit records the ledger entry and bumps the balance. Returns false when
// the key was already used.
func credit(ctx context.Context, tx pgx.Tx, userID uuid.UUID, missionID *uuid.UUID, amount int, key uuid.UUID) (bool, error) {
	tag, err := tx.Exec(ctx, `
		INSERT INTO currency_credits (idempotency_key, user_id, mission_id, amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (idempotency_key) DO NOTHING
	`, key, userID, missionID, amount)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToCreditCurrency, err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO profiles (user_id, currency)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET currency = profiles.currency + EXCLUDED.currency, updated_at = NOW()
	`, userID, amount)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToCreditCurrency, err)
	}
	return true, nil
}

// GetProfile returns the user's level and balance. Users without a
// profile row get DefaultProfileLevel and an empty balance.
func (r *MissionRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var (
		level    int32
		currency int64
	)
	err := r.db.QueryRow(ctx, `
		SELECT level, currency FROM profiles WHERE user_id = $1
	`, userID).Scan(&level, &currency)
	if errors.Is(err, pgx.ErrNoRows) {
		return &domain.Profile{UserID: userID, Level: DefaultProfileLevel}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetProfile, err)
	}
	return &domain.Profile{UserID: userID, Level: int(level), Currency: int(currency)}, nil
}

// UpsertMissionDefinitions inserts or updates definitions by id and
// invalidates the catalog cache
func (r *MissionRepository) UpsertMissionDefinitions(ctx context.Context, defs []domain.MissionDefinition) (int, int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	inserted, updated := 0, 0
	for _, m := range defs {
		var wasInsert bool
		err := tx.QueryRow(ctx, `
			INSERT INTO missions (mission_id, title, description, level_requirement, duration_hours,
			                      reward, success_chance, success_message, fail_message)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (mission_id) DO UPDATE SET
				title = EXCLUDED.title,
				description = EXCLUDED.description,
				level_requirement = EXCLUDED.level_requirement,
				duration_hours = EXCLUDED.duration_hours,
				reward = EXCLUDED.reward,
				success_chance = EXCLUDED.success_chance,
				success_message = EXCLUDED.success_message,
				fail_message = EXCLUDED.fail_message,
				updated_at = NOW()
			RETURNING (xmax = 0)
		`, m.ID, m.Title, m.Description, m.LevelRequirement, m.DurationHours,
			m.Reward, m.SuccessChance, m.SuccessMessage, m.FailMessage).Scan(&wasInsert)
		if err != nil {
			return 0, 0, fmt.Errorf("%s %q: %w", ErrMsgFailedToUpsertMission, m.Title, err)
		}
		if wasInsert {
			inserted++
		} else {
			updated++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}

	r.InvalidateCatalog()
	return inserted, updated, nil
}

// InvalidateCatalog drops the cached catalog
func (r *MissionRepository) InvalidateCatalog() {
	if r.catalog != nil {
		r.catalog.Purge()
	}
}

// SetProfileLevel sets the user's level, creating the profile if needed
func (r *MissionRepository) SetProfileLevel(ctx context.Context, userID uuid.UUID, level int) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO profiles (user_id, level)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET level = EXCLUDED.level, updated_at = NOW()
	`, userID, level)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateProfile, err)
	}
	return nil
}
