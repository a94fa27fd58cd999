package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/NexusMissions_Go/internal/domain"
)

type MockCatalogRepo struct {
	mock.Mock
}

func (m *MockCatalogRepo) UpsertMissionDefinitions(ctx context.Context, defs []domain.MissionDefinition) (int, int, error) {
	args := m.Called(ctx, defs)
	return args.Int(0), args.Int(1), args.Error(2)
}

func createTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func intPtr(v int) *int { return &v }

func validConfig() *Config {
	return &Config{
		Version: "1.0",
		Missions: []Def{
			{ID: uuid.New(), Title: domain.MissionTitleWelcome, LevelRequirement: 1, DurationHours: 1, Reward: 10},
			{ID: uuid.New(), Title: domain.MissionTitleBehindWalls, LevelRequirement: 1, DurationHours: 2, Reward: 20, SuccessChance: intPtr(80)},
			{ID: uuid.New(), Title: "Scout", LevelRequirement: 3, DurationHours: 4, Reward: 30},
		},
	}
}

func TestLoader_Load(t *testing.T) {
	loader := NewLoader()

	t.Run("valid JSON file", func(t *testing.T) {
		path := createTempFile(t, `{
			"version": "1.0",
			"missions": [
				{
					"id": "11111111-1111-1111-1111-111111111111",
					"title": "Welcome to the Nexus",
					"level_requirement": 1,
					"duration_hours": 1,
					"reward": 5,
					"success_message": "ok",
					"fail_message": null
				}
			]
		}`)

		config, err := loader.Load(path)
		require.NoError(t, err)
		require.Len(t, config.Missions, 1)
		assert.Equal(t, "Welcome to the Nexus", config.Missions[0].Title)
		assert.Equal(t, uuid.MustParse("11111111-1111-1111-1111-111111111111"), config.Missions[0].ID)
		assert.Nil(t, config.Missions[0].SuccessChance)
		assert.Nil(t, config.Missions[0].FailMessage)
	})

	t.Run("file not found", func(t *testing.T) {
		_, err := loader.Load("/nonexistent/catalog.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read mission catalog file")
	})

	t.Run("schema violation", func(t *testing.T) {
		path := createTempFile(t, `{"version": "1.0", "missions": [{"title": "x", "duration_hours": 0}]}`)

		_, err := loader.Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema validation failed")
	})

	t.Run("invalid JSON", func(t *testing.T) {
		path := createTempFile(t, `{invalid json}`)

		_, err := loader.Load(path)
		assert.Error(t, err)
	})
}

func TestLoader_Validate(t *testing.T) {
	loader := NewLoader()

	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, loader.Validate(validConfig()))
	})

	t.Run("nil config", func(t *testing.T) {
		assert.ErrorIs(t, loader.Validate(nil), ErrInvalidConfig)
	})

	t.Run("no missions", func(t *testing.T) {
		assert.ErrorIs(t, loader.Validate(&Config{}), ErrInvalidConfig)
	})

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
		msg     string
	}{
		{"zero duration", func(c *Config) { c.Missions[2].DurationHours = 0 }, ErrInvalidConfig, "DurationHours"},
		{"level below one", func(c *Config) { c.Missions[2].LevelRequirement = 0 }, ErrInvalidConfig, "LevelRequirement"},
		{"chance above 100", func(c *Config) { c.Missions[2].SuccessChance = intPtr(101) }, ErrInvalidConfig, "SuccessChance"},
		{"negative reward", func(c *Config) { c.Missions[2].Reward = -1 }, ErrInvalidConfig, "Reward"},
		{"missing id", func(c *Config) { c.Missions[2].ID = uuid.Nil }, ErrInvalidConfig, "ID"},
		{"empty title", func(c *Config) { c.Missions[2].Title = "" }, ErrInvalidConfig, "index 2"},
		{"duplicate id", func(c *Config) { c.Missions[2].ID = c.Missions[1].ID }, ErrDuplicateID, ""},
		{"duplicate title", func(c *Config) { c.Missions[2].Title = domain.MissionTitleWelcome }, ErrDuplicateTitle, ""},
		{"missing welcome", func(c *Config) { c.Missions[0].Title = "Other" }, ErrInvalidConfig, domain.MissionTitleWelcome},
		{"missing behind the walls", func(c *Config) { c.Missions = c.Missions[:1] }, ErrInvalidConfig, domain.MissionTitleBehindWalls},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(config)

			err := loader.Validate(config)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestLoader_SyncToDatabase(t *testing.T) {
	loader := NewLoader()
	config := validConfig()

	t.Run("upserts every definition", func(t *testing.T) {
		repo := new(MockCatalogRepo)
		repo.On("UpsertMissionDefinitions", mock.Anything, mock.MatchedBy(func(defs []domain.MissionDefinition) bool {
			return len(defs) == 3 && defs[1].Title == domain.MissionTitleBehindWalls && *defs[1].SuccessChance == 80
		})).Return(2, 1, nil)

		result, err := loader.SyncToDatabase(context.Background(), config, repo)
		require.NoError(t, err)
		assert.Equal(t, 2, result.MissionsInserted)
		assert.Equal(t, 1, result.MissionsUpdated)
		repo.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(MockCatalogRepo)
		repo.On("UpsertMissionDefinitions", mock.Anything, mock.Anything).Return(0, 0, errors.New("db down"))

		_, err := loader.SyncToDatabase(context.Background(), config, repo)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db down")
	})
}

func TestShippedCatalogIsValid(t *testing.T) {
	loader := NewLoader()

	config, err := loader.Load(filepath.Join("..", "..", DefaultCatalogPath))
	require.NoError(t, err)
	require.NoError(t, loader.Validate(config))

	repo := new(MockCatalogRepo)
	repo.On("UpsertMissionDefinitions", mock.Anything, mock.Anything).Return(len(config.Missions), 0, nil)

	result, err := LoadAndSync(context.Background(), filepath.Join("..", "..", DefaultCatalogPath), repo)
	require.NoError(t, err)
	assert.Equal(t, len(config.Missions), result.MissionsInserted)
}
