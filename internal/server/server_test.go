package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/NexusMissions_Go/internal/domain"
	"github.com/osse101/NexusMissions_Go/internal/mission"
)

type okPool struct{}

func (okPool) Ping(context.Context) error { return nil }
func (okPool) Close()                     {}

// stubEngines serves engines with empty state
type stubEngines struct{}

func (stubEngines) Engine(_ context.Context, userID uuid.UUID) (*mission.Engine, error) {
	return mission.NewEngine(userID, mission.Deps{}), nil
}

func newTestRouter() http.Handler {
	return NewRouter(Options{
		APIKey:      "test-key",
		ServiceName: "nexus-missions",
		DBPool:      okPool{},
		Missions:    stubEngines{},
	})
}

func TestRouter_PublicEndpoints(t *testing.T) {
	r := newTestRouter()

	for _, path := range []string{"/healthz", "/readyz", "/version", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentType))
		})
	}
}

func TestRouter_MissionsRequireAPIKey(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/missions", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_MissionsRequireUser(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/missions", nil)
	req.Header.Set(HeaderAPIKey, "test-key")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ListMissions(t *testing.T) {
	r := newTestRouter()
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/missions", nil)
	req.Header.Set(HeaderAPIKey, "test-key")
	req.Header.Set(HeaderUserID, userID.String())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var snap domain.MissionSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, userID, snap.UserID)
	assert.Empty(t, snap.AvailableMissions)
}
