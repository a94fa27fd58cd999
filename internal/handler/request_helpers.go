package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/osse101/NexusMissions_Go/internal/logger"
)

// maxRequestBody caps JSON request bodies
const maxRequestBody = 1 << 16

// DecodeAndValidateRequest decodes a JSON request body into req and
// validates its tags. On error the response has already been written and
// the handler should return.
//
//	var req StartMissionRequest
//	if err := DecodeAndValidateRequest(r, w, &req, "Start mission"); err != nil {
//	    return
//	}
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	log := logger.FromContext(r.Context())

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		log.Warn(fmt.Sprintf("Failed to decode %s request", actionName), "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return err
	}

	if err := GetValidator().ValidateStruct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: FormatValidationError(err),
		})
		return err
	}

	return nil
}

// ValidationErrorResponse defines the response structure for validation errors
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// GetOptionalIntQueryParam parses an optional integer query parameter.
// Returns ok=false after writing a 400 when the value is present but malformed.
func GetOptionalIntQueryParam(r *http.Request, w http.ResponseWriter, paramName string) (value int, present bool, ok bool) {
	raw := r.URL.Query().Get(paramName)
	if raw == "" {
		return 0, false, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgInvalidQueryParam, paramName))
		return 0, true, false
	}
	return v, true, true
}
