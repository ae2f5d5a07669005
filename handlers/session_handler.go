package handlers

import (
	"net/http"

	"github.com/matchpoint-app/tournament-config/services"
)

// SessionHandler covers the session lifecycle: snapshot, submit, restore
// and discard.
type SessionHandler struct {
	sessions services.SessionService
}

func NewSessionHandler(sessions services.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	snapshot := h.sessions.Snapshot(tournamentID)
	if err := writeJSON(w, http.StatusOK, jsonResponse{"session": snapshot}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Submit validates the full configuration and persists it. A blocking
// validation issue yields 422 with the message the UI shows verbatim.
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	payload, issue, err := h.sessions.Submit(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if issue != nil {
		failedValidationResponse(w, r, issue.Message)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"submission": payload}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Restore replaces the in-memory session with the persisted configuration.
func (h *SessionHandler) Restore(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	payload, err := h.sessions.Restore(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"session": payload}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SessionHandler) Discard(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.sessions.Discard(tournamentID)
	w.WriteHeader(http.StatusNoContent)
}
