package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/osse101/NexusMissions_Go/internal/eventlog"
	"github.com/osse101/NexusMissions_Go/internal/mission"
)

// HistoryReader serves a user's persisted mission events
type HistoryReader interface {
	History(ctx context.Context, userID uuid.UUID, limit int) ([]eventlog.Entry, error)
}

// HandleHistory returns the caller's newest mission events.
// Query: limit (optional)
func HandleHistory(history HistoryReader) http.HandlerFunc {
	session := mission.ContextSession{}
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := session.CurrentUserID(r.Context())
		if err != nil {
			respondServiceError(w, r, "mission history", err)
			return
		}

		limit, _, ok := GetOptionalIntQueryParam(r, w, "limit")
		if !ok {
			return
		}

		entries, err := history.History(r.Context(), userID, limit)
		if err != nil {
			respondServiceError(w, r, "mission history", err)
			return
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: entries})
	}
}
