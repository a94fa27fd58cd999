package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/NexusMissions_Go/internal/clock"
	"github.com/osse101/NexusMissions_Go/internal/domain"
	"github.com/osse101/NexusMissions_Go/internal/mission"
	"github.com/osse101/NexusMissions_Go/internal/notify"
)

// memGateway is a minimal in-memory gateway
type memGateway struct {
	mu          sync.Mutex
	catalog     []domain.MissionDefinition
	rows        map[uuid.UUID]domain.MissionAssignment
	balance     int
	level       int
	completeErr error
}

func (g *memGateway) FetchCatalog(context.Context) ([]domain.MissionDefinition, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]domain.MissionDefinition(nil), g.catalog...), nil
}

func (g *memGateway) FetchAssignments(context.Context, uuid.UUID) ([]domain.MissionAssignment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]domain.MissionAssignment, 0, len(g.rows))
	for _, a := range g.rows {
		out = append(out, a)
	}
	return out, nil
}

func (g *memGateway) InsertAssignment(_ context.Context, a domain.MissionAssignment) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.rows[a.MissionID]; ok {
		return domain.ErrMissionAlreadyActive
	}
	g.rows[a.MissionID] = a
	return nil
}

func (g *memGateway) DeleteAssignment(_ context.Context, _, missionID uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if a, ok := g.rows[missionID]; !ok || a.Completed {
		return domain.ErrAssignmentNotFound
	}
	delete(g.rows, missionID)
	return nil
}

func (g *memGateway) CompleteWithReward(_ context.Context, _, missionID uuid.UUID, amount int, _ uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.completeErr != nil {
		return g.completeErr
	}
	a, ok := g.rows[missionID]
	if !ok || a.Completed {
		return domain.ErrAssignmentNotFound
	}
	a.Completed = true
	g.rows[missionID] = a
	g.balance += amount
	return nil
}

func (g *memGateway) GetProfile(_ context.Context, userID uuid.UUID) (*domain.Profile, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return &domain.Profile{UserID: userID, Level: g.level, Currency: g.balance}, nil
}

type missionFixture struct {
	router  http.Handler
	gateway *memGateway
	clock   *clock.SimulatedClock
	userID  uuid.UUID
	welcome domain.MissionDefinition
	behind  domain.MissionDefinition
}

func newMissionFixture(t *testing.T, roll int) *missionFixture {
	t.Helper()
	return newMissionFixtureWithDebug(t, roll, true)
}

func newMissionFixtureWithDebug(t *testing.T, roll int, allowDebug bool) *missionFixture {
	t.Helper()

	welcome := domain.MissionDefinition{ID: uuid.New(), Title: domain.MissionTitleWelcome, LevelRequirement: 1, DurationHours: 1, Reward: 10, SuccessMessage: "Welcome aboard"}
	behind := domain.MissionDefinition{ID: uuid.New(), Title: domain.MissionTitleBehindWalls, LevelRequirement: 1, DurationHours: 2, Reward: 20, SuccessMessage: "You made it"}

	gw := &memGateway{
		catalog: []domain.MissionDefinition{welcome, behind},
		rows:    make(map[uuid.UUID]domain.MissionAssignment),
		level:   1,
	}
	clk := clock.NewSimulatedClock(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	mgr := mission.NewManager(mission.Deps{
		Gateway: gw,
		Alerts:  notify.NewMemoryStore(nil),
		Clock:   clk,
		Roller:  mission.FixedRoller(roll),
	}, mission.ManagerConfig{})

	h := NewMissionHandler(mgr, allowDebug)
	r := chi.NewRouter()
	r.Get("/missions", h.HandleList)
	r.Post("/missions/start", h.HandleStart)
	r.Post("/missions/complete", h.HandleComplete)
	r.Post("/missions/reload", h.HandleReload)
	r.Get("/missions/{missionID}/timer", h.HandleTimer)
	r.Delete("/missions/result", h.HandleDismissResult)

	return &missionFixture{router: r, gateway: gw, clock: clk, userID: uuid.New(), welcome: welcome, behind: behind}
}

func (f *missionFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	req = req.WithContext(mission.WithUserID(req.Context(), f.userID))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func startBody(id uuid.UUID) string {
	return `{"mission_id":"` + id.String() + `"}`
}

func TestMissionHandler_List(t *testing.T) {
	f := newMissionFixture(t, 1)

	w := f.do(t, http.MethodGet, "/missions", "")
	require.Equal(t, http.StatusOK, w.Code)

	var snap domain.MissionSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, f.userID, snap.UserID)
	require.Len(t, snap.AvailableMissions, 1)
	assert.Equal(t, domain.MissionTitleWelcome, snap.AvailableMissions[0].Title)
}

func TestMissionHandler_List_InvalidLevel(t *testing.T) {
	f := newMissionFixture(t, 1)
	w := f.do(t, http.MethodGet, "/missions?level=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMissionHandler_Unauthenticated(t *testing.T) {
	f := newMissionFixture(t, 1)
	req := httptest.NewRequest(http.MethodGet, "/missions", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgAuthRequiredError)
}

func TestMissionHandler_Start(t *testing.T) {
	f := newMissionFixture(t, 1)

	w := f.do(t, http.MethodPost, "/missions/start", startBody(f.welcome.ID))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), MsgMissionStarted)

	t.Run("again is a conflict", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/missions/start", startBody(f.welcome.ID))
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("gated mission is forbidden", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/missions/start", startBody(f.behind.ID))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown mission", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/missions/start", startBody(uuid.New()))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMissionHandler_Start_Validation(t *testing.T) {
	f := newMissionFixture(t, 1)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"missing id", `{}`},
		{"not a uuid", `{"mission_id":"abc"}`},
		{"unknown field", `{"mission_id":"` + uuid.NewString() + `","extra":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodPost, "/missions/start", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestMissionHandler_Complete(t *testing.T) {
	f := newMissionFixture(t, 1)
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/missions/start", startBody(f.welcome.ID)).Code)

	w := f.do(t, http.MethodPost, "/missions/complete", startBody(f.welcome.ID))
	assert.Equal(t, http.StatusConflict, w.Code, "not ready before the timer elapses")

	f.clock.Advance(time.Hour)
	w = f.do(t, http.MethodPost, "/missions/complete", startBody(f.welcome.ID))
	require.Equal(t, http.StatusOK, w.Code)

	var resp CompleteMissionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, MsgMissionSucceeded, resp.Message)
	require.NotNil(t, resp.Result)
	assert.True(t, resp.Result.IsSuccess)
	assert.Equal(t, "Welcome aboard", resp.Result.Message)
	assert.Equal(t, 10, f.gateway.balance)
}

func TestMissionHandler_Complete_RemoteFailure(t *testing.T) {
	f := newMissionFixture(t, 1)
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/missions/start", startBody(f.welcome.ID)).Code)
	f.clock.Advance(time.Hour)
	f.gateway.completeErr = errors.New("connection reset")

	w := f.do(t, http.MethodPost, "/missions/complete", startBody(f.welcome.ID))
	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp CompleteMissionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Result)
	assert.True(t, resp.Result.IsSuccess)
	assert.Equal(t, ErrMsgGenericServerError, resp.Error)
	assert.Equal(t, 0, f.gateway.balance)
}

func TestMissionHandler_Complete_DebugFailure(t *testing.T) {
	f := newMissionFixture(t, 100)
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/missions/start", startBody(f.welcome.ID)).Code)

	w := f.do(t, http.MethodPost, "/missions/complete", `{"mission_id":"`+f.welcome.ID.String()+`","debug":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp CompleteMissionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, MsgMissionFailed, resp.Message)
	assert.False(t, resp.Result.IsSuccess)
	assert.Len(t, f.gateway.rows, 1, "debug resolution makes no remote write")
}

func TestMissionHandler_Complete_DebugDisabled(t *testing.T) {
	f := newMissionFixtureWithDebug(t, 1, false)
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/missions/start", startBody(f.welcome.ID)).Code)

	w := f.do(t, http.MethodPost, "/missions/complete", `{"mission_id":"`+f.welcome.ID.String()+`","debug":true}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgDebugDisabled)

	row := f.gateway.rows[f.welcome.ID]
	assert.False(t, row.Completed)

	// Normal completion is unaffected
	f.clock.Advance(time.Hour)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/missions/complete", startBody(f.welcome.ID)).Code)
}

func TestMissionHandler_Timer(t *testing.T) {
	f := newMissionFixture(t, 1)
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/missions/start", startBody(f.welcome.ID)).Code)

	f.clock.Advance(30 * time.Minute)
	w := f.do(t, http.MethodGet, "/missions/"+f.welcome.ID.String()+"/timer", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp MissionTimerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "30:00", resp.FormattedRemaining)
	assert.False(t, resp.Ready)

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/missions/nope/timer", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/missions/"+f.behind.ID.String()+"/timer", "").Code)
}

func TestMissionHandler_ReloadAndDismiss(t *testing.T) {
	f := newMissionFixture(t, 1)

	w := f.do(t, http.MethodPost, "/missions/reload", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), MsgMissionsReloaded)

	w = f.do(t, http.MethodPost, "/missions/reload", `{"level":4}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_level":4`)

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/missions/reload", `{"level":0}`).Code)

	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/missions/start", startBody(f.welcome.ID)).Code)
	f.clock.Advance(time.Hour)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/missions/complete", startBody(f.welcome.ID)).Code)

	w = f.do(t, http.MethodDelete, "/missions/result", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/missions", "")
	assert.NotContains(t, w.Body.String(), "last_result")
}

func TestMapServiceErrorToUserMessage(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{nil, http.StatusInternalServerError},
		{domain.ErrNotAuthenticated, http.StatusUnauthorized},
		{domain.ErrInvalidInput, http.StatusBadRequest},
		{domain.ErrMissionNotFound, http.StatusNotFound},
		{domain.ErrAssignmentNotFound, http.StatusNotFound},
		{domain.ErrMissionAlreadyActive, http.StatusConflict},
		{domain.ErrMissionNotReady, http.StatusConflict},
		{domain.ErrMissionNotAvailable, http.StatusForbidden},
		{domain.ErrConnectionTimeout, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		status, msg := mapServiceErrorToUserMessage(tt.err)
		assert.Equal(t, tt.status, status, "%v", tt.err)
		assert.NotEmpty(t, msg)
	}
}
