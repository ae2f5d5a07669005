package services

import "errors"

// Host-level failures. User-correctable validation outcomes are not
// errors; they travel as *models.ValidationIssue return values instead.
var (
	ErrSessionNotFound   = errors.New("configuration session not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrFormatNotFound    = errors.New("match format not found")
	ErrUnknownPreset     = errors.New("unknown category preset")
	ErrNotTeamCategory   = errors.New("category is not a team event")
	ErrInvalidFormatType = errors.New("invalid match format type")

	ErrSubmissionBlocked = errors.New("configuration is not ready for submission")
	ErrSubmissionFailed  = errors.New("failed to persist tournament configuration")
	ErrRestoreFailed     = errors.New("failed to restore tournament configuration")
)
