package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/matchpoint-app/tournament-config/models"
	"github.com/matchpoint-app/tournament-config/repositories"
)

// SessionService owns the live configuration sessions, one per tournament.
// The core registry and format logic is lock-free by design; this service
// provides the single-writer serialization the core assumes, plus the
// bridge to the persistence collaborator.
type SessionService interface {
	// Update runs fn against the session under the session lock and
	// returns the resulting snapshot. The session is created on first use.
	Update(tournamentID int, fn func(*models.ConfigSession) error) (*models.SubmissionPayload, error)

	// View runs fn read-only under the same lock.
	View(tournamentID int, fn func(*models.ConfigSession) error) error

	Snapshot(tournamentID int) *models.SubmissionPayload
	Discard(tournamentID int)

	// Submit validates the whole configuration and persists it. A non-nil
	// issue means the configuration is not ready; the session is left
	// untouched for further editing.
	Submit(ctx context.Context, tournamentID int) (*models.SubmissionPayload, *models.ValidationIssue, error)

	// Restore replaces the in-memory session with the persisted
	// configuration.
	Restore(ctx context.Context, tournamentID int) (*models.SubmissionPayload, error)
}

type sessionService struct {
	mu       sync.Mutex
	sessions map[int]*models.ConfigSession

	repo      repositories.SessionRepository
	validator *CategoryValidator
	formats   FormatService
	logger    *slog.Logger
}

func NewSessionService(repo repositories.SessionRepository, validator *CategoryValidator, formats FormatService, logger *slog.Logger) SessionService {
	return &sessionService{
		sessions:  make(map[int]*models.ConfigSession),
		repo:      repo,
		validator: validator,
		formats:   formats,
		logger:    logger,
	}
}

func (ss *sessionService) session(tournamentID int) *models.ConfigSession {
	s, ok := ss.sessions[tournamentID]
	if !ok {
		s = models.NewConfigSession(tournamentID)
		ss.sessions[tournamentID] = s
	}
	return s
}

func (ss *sessionService) Update(tournamentID int, fn func(*models.ConfigSession) error) (*models.SubmissionPayload, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	s := ss.session(tournamentID)
	if err := fn(s); err != nil {
		return nil, err
	}
	return models.BuildSubmission(s), nil
}

func (ss *sessionService) View(tournamentID int, fn func(*models.ConfigSession) error) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return fn(ss.session(tournamentID))
}

func (ss *sessionService) Snapshot(tournamentID int) *models.SubmissionPayload {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return models.BuildSubmission(ss.session(tournamentID))
}

func (ss *sessionService) Discard(tournamentID int) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, tournamentID)
}

func (ss *sessionService) Submit(ctx context.Context, tournamentID int) (*models.SubmissionPayload, *models.ValidationIssue, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	s := ss.session(tournamentID)
	if issue := ss.validateAll(s); issue != nil {
		return nil, issue, nil
	}

	payload := models.BuildSubmission(s)
	if err := ss.repo.Save(ctx, payload); err != nil {
		ss.logger.Error("failed to persist configuration",
			slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return nil, nil, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}
	ss.logger.Info("configuration submitted",
		slog.Int("tournament_id", tournamentID),
		slog.Int("categories", len(payload.Categories)))
	return payload, nil, nil
}

func (ss *sessionService) Restore(ctx context.Context, tournamentID int) (*models.SubmissionPayload, error) {
	payload, err := ss.repo.Load(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrConfigNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrRestoreFailed, err)
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[tournamentID] = models.RestoreSession(payload)
	return payload, nil
}

// validateAll runs the category gate first, then injects any missing
// format defaults and validates every format including its derivation
// plans. First failure wins, mirroring the step order of the
// configuration flow.
func (ss *sessionService) validateAll(s *models.ConfigSession) *models.ValidationIssue {
	if issue := ss.validator.Validate(s); issue != nil {
		return issue
	}
	for _, c := range s.OrderedCategories() {
		if issue := ss.validateFormatFor(s, c); issue != nil {
			return issue
		}
		if !c.IsTeam() {
			continue
		}
		for _, subID := range c.TeamSubcategories {
			if sub := s.Categories[subID]; sub != nil {
				if issue := ss.validateFormatFor(s, sub); issue != nil {
					return issue
				}
			}
		}
	}
	return nil
}

func (ss *sessionService) validateFormatFor(s *models.ConfigSession, c *models.Category) *models.ValidationIssue {
	f, err := ss.formats.Ensure(s, c.ID)
	if err != nil {
		return models.NewIssue("format", "category %q has no match format", c.Label)
	}
	if issue := ss.formats.Validate(f); issue != nil {
		return issue
	}
	if plan := ss.formats.RoundRobinPlan(c, f); plan != nil && plan.Issue != nil {
		return plan.Issue
	}
	if plan := ss.formats.KnockoutPlan(c, f); plan != nil && plan.Issue != nil {
		return plan.Issue
	}
	return nil
}
