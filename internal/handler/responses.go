package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/osse101/NexusMissions_Go/internal/domain"
	"github.com/osse101/NexusMissions_Go/internal/logger"
)

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 1024))
	},
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	// Encode before writing headers so a failure can still become a 500
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error(LogMsgEncodeFailed, "error", err)
		http.Error(w, ErrMsgGenericServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteFailed, "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs err and writes its mapped status and message
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, msg := logServiceError(r, opName, err)
	respondError(w, status, msg)
}

// logServiceError logs err at a level matching its mapped status
func logServiceError(r *http.Request, opName string, err error) (int, string) {
	status, msg := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(LogMsgRequestFailed, "operation", opName, "error", err)
	} else {
		log.Warn(LogMsgRequestFailed, "operation", opName, "error", err)
	}
	return status, msg
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"
	ErrMsgAuthRequiredError  = "Please sign in to continue"
	ErrMsgInvalidInputError  = "Invalid request. Please check your inputs."
	ErrMsgUnavailableError   = "Server is temporarily unavailable. Please try again later."

	ErrMsgUserNotFoundError         = "User not found"
	ErrMsgMissionNotFoundError      = "Mission not found"
	ErrMsgAssignmentNotFoundError   = "You are not on that mission"
	ErrMsgMissionAlreadyActiveError = "You are already on that mission"
	ErrMsgMissionNotReadyError      = "That mission is not ready to complete yet"
	ErrMsgMissionNotAvailableError  = "That mission is not available to you"
	ErrMsgResolutionInProgressError = "That mission is already being resolved"
)

// mapServiceErrorToUserMessage maps domain errors to HTTP status codes and
// messages that users can act on. Unrecognized errors become a generic 500.
func mapServiceErrorToUserMessage(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, ErrMsgUnknownError
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, ErrMsgAuthRequiredError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidInputError
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrMsgUserNotFoundError
	case errors.Is(err, domain.ErrMissionNotFound):
		return http.StatusNotFound, ErrMsgMissionNotFoundError
	case errors.Is(err, domain.ErrAssignmentNotFound):
		return http.StatusNotFound, ErrMsgAssignmentNotFoundError
	case errors.Is(err, domain.ErrMissionAlreadyActive):
		return http.StatusConflict, ErrMsgMissionAlreadyActiveError
	case errors.Is(err, domain.ErrMissionNotReady):
		return http.StatusConflict, ErrMsgMissionNotReadyError
	case errors.Is(err, domain.ErrResolutionInProgress):
		return http.StatusConflict, ErrMsgResolutionInProgressError
	case errors.Is(err, domain.ErrMissionNotAvailable):
		return http.StatusForbidden, ErrMsgMissionNotAvailableError
	case errors.Is(err, domain.ErrConnectionTimeout):
		return http.StatusServiceUnavailable, ErrMsgUnavailableError
	}
	return http.StatusInternalServerError, ErrMsgGenericServerError
}
