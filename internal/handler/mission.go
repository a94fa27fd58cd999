package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/osse101/NexusMissions_Go/internal/domain"
	"github.com/osse101/NexusMissions_Go/internal/logger"
	"github.com/osse101/NexusMissions_Go/internal/mission"
)

// MissionEngines hands out the per-user engine
type MissionEngines interface {
	Engine(ctx context.Context, userID uuid.UUID) (*mission.Engine, error)
}

// MissionHandler exposes the mission engine over HTTP. Every route acts
// on the authenticated user placed on the context by the auth middleware.
type MissionHandler struct {
	engines    MissionEngines
	session    mission.SessionProvider
	allowDebug bool
}

// NewMissionHandler creates a handler backed by engines. Debug
// resolutions are refused unless allowDebug is set.
func NewMissionHandler(engines MissionEngines, allowDebug bool) *MissionHandler {
	return &MissionHandler{engines: engines, session: mission.ContextSession{}, allowDebug: allowDebug}
}

// StartMissionRequest is the body of POST /missions/start
type StartMissionRequest struct {
	MissionID string `json:"mission_id" validate:"required,uuid"`
}

// CompleteMissionRequest is the body of POST /missions/complete
type CompleteMissionRequest struct {
	MissionID string `json:"mission_id" validate:"required,uuid"`
	Debug     bool   `json:"debug"`
}

// ReloadMissionsRequest is the body of POST /missions/reload. Level is
// optional; when absent the level is read from the user's profile.
type ReloadMissionsRequest struct {
	Level *int `json:"level,omitempty" validate:"omitempty,min=1"`
}

// MissionTimerResponse is the countdown for one mission
type MissionTimerResponse struct {
	MissionID          uuid.UUID `json:"mission_id"`
	FormattedRemaining string    `json:"formatted_remaining"`
	Ready              bool      `json:"ready"`
}

// CompleteMissionResponse carries the resolution result. Error is set when
// the roll happened but recording it failed.
type CompleteMissionResponse struct {
	Message string                `json:"message"`
	Result  *domain.MissionResult `json:"result"`
	Error   string                `json:"error,omitempty"`
}

// engineFor resolves the caller's engine, writing the error response on failure
func (h *MissionHandler) engineFor(w http.ResponseWriter, r *http.Request, opName string) (*mission.Engine, bool) {
	userID, err := h.session.CurrentUserID(r.Context())
	if err != nil {
		respondServiceError(w, r, opName, err)
		return nil, false
	}
	e, err := h.engines.Engine(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, opName, err)
		return nil, false
	}
	return e, true
}

// HandleList returns the caller's mission snapshot. An optional level
// query parameter triggers a fresh load at that level first.
func (h *MissionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	level, present, ok := GetOptionalIntQueryParam(r, w, "level")
	if !ok {
		return
	}
	e, ok := h.engineFor(w, r, "list missions")
	if !ok {
		return
	}
	if present {
		if err := e.LoadAllMissions(r.Context(), level); err != nil {
			respondServiceError(w, r, "list missions", err)
			return
		}
	}
	respondJSON(w, http.StatusOK, e.Snapshot())
}

// HandleStart starts an available mission
func (h *MissionHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	var req StartMissionRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Start mission"); err != nil {
		return
	}
	e, ok := h.engineFor(w, r, "start mission")
	if !ok {
		return
	}

	assignment, err := e.StartMission(r.Context(), uuid.MustParse(req.MissionID))
	if err != nil {
		respondServiceError(w, r, "start mission", err)
		return
	}
	respondJSON(w, http.StatusCreated, DataResponse{Message: MsgMissionStarted, Data: assignment})
}

// HandleComplete resolves an active mission. A failed remote write still
// returns the rolled result, with 502.
func (h *MissionHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	var req CompleteMissionRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Complete mission"); err != nil {
		return
	}
	if req.Debug && !h.allowDebug {
		logger.FromContext(r.Context()).Warn(LogMsgDebugRefused, "mission_id", req.MissionID)
		respondError(w, http.StatusForbidden, ErrMsgDebugDisabled)
		return
	}
	e, ok := h.engineFor(w, r, "complete mission")
	if !ok {
		return
	}

	result, err := e.CompleteMission(r.Context(), uuid.MustParse(req.MissionID), req.Debug)
	if err != nil && result == nil {
		respondServiceError(w, r, "complete mission", err)
		return
	}

	resp := CompleteMissionResponse{Message: MsgMissionFailed, Result: result}
	if result.IsSuccess {
		resp.Message = MsgMissionSucceeded
	}
	status := http.StatusOK
	if err != nil {
		_, resp.Error = logServiceError(r, "complete mission", err)
		status = http.StatusBadGateway
	}
	respondJSON(w, status, resp)
}

// HandleReload refetches the catalog and the caller's assignments
func (h *MissionHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	var req ReloadMissionsRequest
	if r.ContentLength != 0 {
		if err := DecodeAndValidateRequest(r, w, &req, "Reload missions"); err != nil {
			return
		}
	}
	e, ok := h.engineFor(w, r, "reload missions")
	if !ok {
		return
	}

	var err error
	if req.Level != nil {
		err = e.LoadAllMissions(r.Context(), *req.Level)
	} else {
		err = e.Reload(r.Context())
	}
	if err != nil {
		respondServiceError(w, r, "reload missions", err)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Message: MsgMissionsReloaded, Data: e.Snapshot()})
}

// HandleTimer returns the countdown for one mission
func (h *MissionHandler) HandleTimer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "missionID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidInputError)
		return
	}
	e, ok := h.engineFor(w, r, "mission timer")
	if !ok {
		return
	}
	if _, active := e.RemainingTime(id); !active {
		respondServiceError(w, r, "mission timer", domain.ErrAssignmentNotFound)
		return
	}
	respondJSON(w, http.StatusOK, MissionTimerResponse{
		MissionID:          id,
		FormattedRemaining: e.FormattedRemainingTime(id),
		Ready:              e.IsReadyToComplete(id),
	})
}

// HandleDismissResult clears the last resolution result
func (h *MissionHandler) HandleDismissResult(w http.ResponseWriter, r *http.Request) {
	e, ok := h.engineFor(w, r, "dismiss result")
	if !ok {
		return
	}
	e.DismissResult()
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgResultDismissed})
}
