package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/osse101/NexusMissions_Go/internal/catalog/schema"
	"github.com/osse101/NexusMissions_Go/internal/domain"
	"github.com/osse101/NexusMissions_Go/internal/logger"
	"github.com/osse101/NexusMissions_Go/internal/repository"
	"github.com/osse101/NexusMissions_Go/internal/validation"
)

// Sentinel errors for the catalog loader
var (
	ErrDuplicateID    = errors.New("duplicate mission id")
	ErrDuplicateTitle = errors.New("duplicate mission title")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Config is the JSON mission catalog file
type Config struct {
	Version     string `json:"version"`
	Description string `json:"description"`
	Missions    []Def  `json:"missions"`
}

// Def is a single mission definition in the JSON
type Def struct {
	ID               uuid.UUID `json:"id" validate:"required"`
	Title            string    `json:"title" validate:"required,max=120"`
	Description      string    `json:"description"`
	LevelRequirement int       `json:"level_requirement" validate:"min=1"`
	DurationHours    int       `json:"duration_hours" validate:"min=1"`
	Reward           int       `json:"reward" validate:"min=0"`
	SuccessChance    *int      `json:"success_chance,omitempty" validate:"omitempty,min=0,max=100"`
	SuccessMessage   string    `json:"success_message"`
	FailMessage      *string   `json:"fail_message,omitempty"`
}

// ToDomain converts the JSON definition into a catalog entry
func (d Def) ToDomain() domain.MissionDefinition {
	return domain.MissionDefinition{
		ID:               d.ID,
		Title:            d.Title,
		Description:      d.Description,
		LevelRequirement: d.LevelRequirement,
		DurationHours:    d.DurationHours,
		Reward:           d.Reward,
		SuccessChance:    d.SuccessChance,
		SuccessMessage:   d.SuccessMessage,
		FailMessage:      d.FailMessage,
	}
}

// Loader handles loading, validating and syncing the mission catalog
type Loader interface {
	Load(path string) (*Config, error)
	Validate(config *Config) error
	SyncToDatabase(ctx context.Context, config *Config, repo repository.MissionCatalog) (*SyncResult, error)
}

// SyncResult contains the result of syncing missions to the database
type SyncResult struct {
	MissionsInserted int
	MissionsUpdated  int
}

type missionLoader struct {
	schemaValidator validation.SchemaValidator
	validate        *validator.Validate
}

// NewLoader creates a new Loader instance
func NewLoader() Loader {
	return &missionLoader{
		schemaValidator: validation.NewSchemaValidator(schema.FS),
		validate:        validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Load reads a catalog file, checks it against the schema and parses it
func (l *missionLoader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReadConfigFileFailed, err)
	}

	if err := l.schemaValidator.ValidateBytes(data, SchemaName); err != nil {
		return nil, fmt.Errorf(ErrMsgSchemaFailed, path, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(ErrMsgParseConfigFailed, err)
	}

	return &config, nil
}

// Validate checks field ranges, uniqueness and that both bootstrap
// missions are present
func (l *missionLoader) Validate(config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, ErrMsgConfigNil)
	}
	if len(config.Missions) == 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, ErrMsgNoMissionsDefined)
	}

	ids := make(map[uuid.UUID]bool, len(config.Missions))
	titles := make(map[string]bool, len(config.Missions))

	for i := range config.Missions {
		m := &config.Missions[i]

		if err := l.validate.Struct(m); err != nil {
			if m.Title == "" {
				return fmt.Errorf(ErrFmtMissionAtIndex, ErrInvalidConfig, i, describe(err))
			}
			return fmt.Errorf(ErrFmtMissionInvalid, ErrInvalidConfig, m.Title, describe(err))
		}

		if ids[m.ID] {
			return fmt.Errorf(ErrFmtDuplicateID, ErrDuplicateID, m.ID)
		}
		ids[m.ID] = true

		if titles[m.Title] {
			return fmt.Errorf(ErrFmtDuplicateTitle, ErrDuplicateTitle, m.Title)
		}
		titles[m.Title] = true
	}

	for _, title := range []string{domain.MissionTitleWelcome, domain.MissionTitleBehindWalls} {
		if !titles[title] {
			return fmt.Errorf("%w: "+ErrMsgMissingBootstrap, ErrInvalidConfig, title)
		}
	}

	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}

// SyncToDatabase upserts every definition. Upserts are idempotent, so
// running it on every start is safe.
func (l *missionLoader) SyncToDatabase(ctx context.Context, config *Config, repo repository.MissionCatalog) (*SyncResult, error) {
	defs := make([]domain.MissionDefinition, 0, len(config.Missions))
	for _, m := range config.Missions {
		defs = append(defs, m.ToDomain())
	}

	inserted, updated, err := repo.UpsertMissionDefinitions(ctx, defs)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgUpsertMissionsFail, err)
	}

	result := &SyncResult{MissionsInserted: inserted, MissionsUpdated: updated}
	logger.FromContext(ctx).Info(LogMsgSyncCompleted,
		"inserted", result.MissionsInserted,
		"updated", result.MissionsUpdated,
		"version", config.Version)

	return result, nil
}

// LoadAndSync loads, validates and syncs the catalog at path
func LoadAndSync(ctx context.Context, path string, repo repository.MissionCatalog) (*SyncResult, error) {
	l := NewLoader()

	config, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	if err := l.Validate(config); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgLoadedCatalog, "path", path, "missions", len(config.Missions))
	return l.SyncToDatabase(ctx, config, repo)
}
