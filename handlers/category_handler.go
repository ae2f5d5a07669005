package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matchpoint-app/tournament-config/brackets"
	"github.com/matchpoint-app/tournament-config/models"
	"github.com/matchpoint-app/tournament-config/services"
)

// CategoryHandler exposes the category-registry command API. Every
// successful mutation answers with the fresh session snapshot and pushes
// the same snapshot to the session's preview room.
type CategoryHandler struct {
	sessions   services.SessionService
	categories services.CategoryService
	validator  *services.CategoryValidator
	hub        *brackets.Hub
}

func NewCategoryHandler(sessions services.SessionService, categories services.CategoryService, validator *services.CategoryValidator, hub *brackets.Hub) *CategoryHandler {
	return &CategoryHandler{
		sessions:   sessions,
		categories: categories,
		validator:  validator,
		hub:        hub,
	}
}

func sessionRoom(tournamentID int) string {
	return fmt.Sprintf("session_%d", tournamentID)
}

func (h *CategoryHandler) respondWithSnapshot(w http.ResponseWriter, r *http.Request, tournamentID int, snapshot *models.SubmissionPayload) {
	h.hub.BroadcastToRoom(sessionRoom(tournamentID), brackets.PushMessage{
		Type:    brackets.MessageSessionUpdated,
		Payload: snapshot,
	})
	if err := writeJSON(w, http.StatusOK, jsonResponse{"session": snapshot}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type toggleCategoryInput struct {
	PresetID string `json:"preset_id"`
}

func (h *CategoryHandler) ToggleCategory(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input toggleCategoryInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	snapshot, err := h.sessions.Update(tournamentID, func(s *models.ConfigSession) error {
		return h.categories.ToggleCategory(s, input.PresetID)
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respondWithSnapshot(w, r, tournamentID, snapshot)
}

func (h *CategoryHandler) ToggleTeamEvent(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	snapshot, err := h.sessions.Update(tournamentID, func(s *models.ConfigSession) error {
		h.categories.ToggleTeamEvent(s)
		return nil
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respondWithSnapshot(w, r, tournamentID, snapshot)
}

type addCustomCategoryInput struct {
	Label string `json:"label"`
}

func (h *CategoryHandler) AddCustomCategory(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input addCustomCategoryInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	snapshot, err := h.sessions.Update(tournamentID, func(s *models.ConfigSession) error {
		h.categories.AddCustomCategory(s, input.Label)
		return nil
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respondWithSnapshot(w, r, tournamentID, snapshot)
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	categoryID := chi.URLParam(r, "categoryID")

	var patch services.CategoryPatch
	if err := readJSON(w, r, &patch); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	snapshot, err := h.sessions.Update(tournamentID, func(s *models.ConfigSession) error {
		_, updateErr := h.categories.UpdateCategoryMeta(s, categoryID, patch)
		return updateErr
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respondWithSnapshot(w, r, tournamentID, snapshot)
}

func (h *CategoryHandler) ToggleTeamSubcategory(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID := chi.URLParam(r, "teamID")
	subcategoryID := chi.URLParam(r, "subcategoryID")

	snapshot, err := h.sessions.Update(tournamentID, func(s *models.ConfigSession) error {
		return h.categories.ToggleTeamSubcategory(s, teamID, subcategoryID)
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respondWithSnapshot(w, r, tournamentID, snapshot)
}

func (h *CategoryHandler) UpdateRules(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var patch services.RulesPatch
	if err := readJSON(w, r, &patch); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	snapshot, err := h.sessions.Update(tournamentID, func(s *models.ConfigSession) error {
		h.categories.UpdateRules(s, patch)
		return nil
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respondWithSnapshot(w, r, tournamentID, snapshot)
}

// Validate runs the category completeness gate. The outcome is data for
// the UI, not an HTTP failure: 200 either way, with the blocking message
// when the configuration is not ready.
func (h *CategoryHandler) Validate(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var issue *models.ValidationIssue
	viewErr := h.sessions.View(tournamentID, func(s *models.ConfigSession) error {
		issue = h.validator.Validate(s)
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

// Presets lists the standard category catalog for the selection UI.
func (h *CategoryHandler) Presets(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"presets": models.CategoryPresets}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
