package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matchpoint-app/tournament-config/brackets"
	"github.com/matchpoint-app/tournament-config/models"
	"github.com/matchpoint-app/tournament-config/services"
)

// FormatHandler exposes match-format configuration, validation, the
// numeric derivation plans and the read-only preview projection.
type FormatHandler struct {
	sessions  services.SessionService
	formats   services.FormatService
	projector *brackets.Projector
	hub       *brackets.Hub
}

func NewFormatHandler(sessions services.SessionService, formats services.FormatService, projector *brackets.Projector, hub *brackets.Hub) *FormatHandler {
	return &FormatHandler{
		sessions:  sessions,
		formats:   formats,
		projector: projector,
		hub:       hub,
	}
}

type setFormatTypeInput struct {
	Type models.FormatType `json:"type"`
}

func (h *FormatHandler) SetType(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	categoryID := chi.URLParam(r, "categoryID")

	var input setFormatTypeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var format *models.MatchFormat
	_, err = h.sessions.Update(tournamentID, func(s *models.ConfigSession) error {
		f, setErr := h.formats.SetType(s, categoryID, input.Type)
		if setErr != nil {
			return setErr
		}
		format = f.Clone()
		return nil
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.broadcastPreview(tournamentID, categoryID)
	if err := writeJSON(w, http.StatusOK, jsonResponse{"format": format}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FormatHandler) UpdateFormat(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	categoryID := chi.URLParam(r, "categoryID")

	var patch services.FormatPatch
	if err := readJSON(w, r, &patch); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var format *models.MatchFormat
	_, err = h.sessions.Update(tournamentID, func(s *models.ConfigSession) error {
		f, updateErr := h.formats.Update(s, categoryID, patch)
		if updateErr != nil {
			return updateErr
		}
		format = f.Clone()
		return nil
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.broadcastPreview(tournamentID, categoryID)
	if err := writeJSON(w, http.StatusOK, jsonResponse{"format": format}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FormatHandler) Validate(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	categoryID := chi.URLParam(r, "categoryID")

	var issue *models.ValidationIssue
	viewErr := h.sessions.View(tournamentID, func(s *models.ConfigSession) error {
		f, ensureErr := h.formats.Ensure(s, categoryID)
		if ensureErr != nil {
			return ensureErr
		}
		issue = h.formats.Validate(f)
		if issue == nil {
			c := s.Categories[categoryID]
			if plan := h.formats.RoundRobinPlan(c, f); plan != nil && plan.Issue != nil {
				issue = plan.Issue
			}
			if issue == nil {
				if plan := h.formats.KnockoutPlan(c, f); plan != nil && plan.Issue != nil {
					issue = plan.Issue
				}
			}
		}
		return nil
	})
	if viewErr != nil {
		mapServiceErrorToHTTP(w, r, viewErr)
		return
	}

	resp := jsonResponse{"valid": issue == nil}
	if issue != nil {
		resp["error"] = issue
	}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Plan returns the derived round-robin and knockout numbers for the
// category's current format and registration count.
func (h *FormatHandler) Plan(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	categoryID := chi.URLParam(r, "categoryID")

	resp := jsonResponse{}
	viewErr := h.sessions.View(tournamentID, func(s *models.ConfigSession) error {
		f, ensureErr := h.formats.Ensure(s, categoryID)
		if ensureErr != nil {
			return ensureErr
		}
		c := s.Categories[categoryID]
		if plan := h.formats.RoundRobinPlan(c, f); plan != nil {
			resp["round_robin"] = plan
		}
		if plan := h.formats.KnockoutPlan(c, f); plan != nil {
			resp["knockout"] = plan
		}
		return nil
	})
	if viewErr != nil {
		mapServiceErrorToHTTP(w, r, viewErr)
		return
	}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Preview projects the category's format over its registered count.
func (h *FormatHandler) Preview(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	categoryID := chi.URLParam(r, "categoryID")

	preview, viewErr := h.projectCategory(tournamentID, categoryID)
	if viewErr != nil {
		mapServiceErrorToHTTP(w, r, viewErr)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"preview": preview}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FormatHandler) projectCategory(tournamentID int, categoryID string) (*models.PreviewStructure, error) {
	var preview *models.PreviewStructure
	err := h.sessions.View(tournamentID, func(s *models.ConfigSession) error {
		f, ensureErr := h.formats.Ensure(s, categoryID)
		if ensureErr != nil {
			return ensureErr
		}
		preview = h.projector.Project(s.Categories[categoryID], f)
		return nil
	})
	return preview, err
}

func (h *FormatHandler) broadcastPreview(tournamentID int, categoryID string) {
	preview, err := h.projectCategory(tournamentID, categoryID)
	if err != nil {
		return
	}
	h.hub.BroadcastToRoom(sessionRoom(tournamentID), brackets.PushMessage{
		Type:    brackets.MessagePreviewUpdated,
		Payload: preview,
	})
}
