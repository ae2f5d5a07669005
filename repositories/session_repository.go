package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/matchpoint-app/tournament-config/models"
)

var (
	ErrConfigNotFound = errors.New("tournament configuration not found")
)

// SessionRepository is the persistence collaborator for configuration
// sessions. The core never calls it; only the host wiring does, on
// explicit submit and restore.
type SessionRepository interface {
	Save(ctx context.Context, payload *models.SubmissionPayload) error
	Load(ctx context.Context, tournamentID int) (*models.SubmissionPayload, error)
	Delete(ctx context.Context, tournamentID int) error
}

// postgresSessionRepository stores the category step and the format step
// in separate tables, matching the two stages of the configuration flow.
//
//	CREATE TABLE category_configs (
//	    tournament_id INT PRIMARY KEY,
//	    categories    JSONB NOT NULL,
//	    rules         JSONB NOT NULL,
//	    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
//	CREATE TABLE format_configs (
//	    tournament_id INT PRIMARY KEY,
//	    formats       JSONB NOT NULL,
//	    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type postgresSessionRepository struct {
	db *sql.DB
}

func NewPostgresSessionRepository(db *sql.DB) SessionRepository {
	return &postgresSessionRepository{db: db}
}

func (r *postgresSessionRepository) Save(ctx context.Context, payload *models.SubmissionPayload) error {
	categoriesJSON, err := json.Marshal(payload.Categories)
	if err != nil {
		return fmt.Errorf("marshal categories: %w", err)
	}
	rulesJSON, err := json.Marshal(payload.Rules)
	if err != nil {
		return fmt.Errorf("marshal rules: %w", err)
	}
	formats := payload.Formats
	if formats == nil {
		formats = []models.MatchFormat{}
	}
	formatsJSON, err := json.Marshal(formats)
	if err != nil {
		return fmt.Errorf("marshal formats: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}
	defer tx.Rollback()

	categoryQuery := `
		INSERT INTO category_configs (tournament_id, categories, rules, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (tournament_id)
		DO UPDATE SET categories = EXCLUDED.categories, rules = EXCLUDED.rules, updated_at = now()`
	if _, err := tx.ExecContext(ctx, categoryQuery, payload.TournamentID, categoriesJSON, rulesJSON); err != nil {
		return fmt.Errorf("save category config: %w", err)
	}

	formatQuery := `
		INSERT INTO format_configs (tournament_id, formats, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (tournament_id)
		DO UPDATE SET formats = EXCLUDED.formats, updated_at = now()`
	if _, err := tx.ExecContext(ctx, formatQuery, payload.TournamentID, formatsJSON); err != nil {
		return fmt.Errorf("save format config: %w", err)
	}

	return tx.Commit()
}

func (r *postgresSessionRepository) Load(ctx context.Context, tournamentID int) (*models.SubmissionPayload, error) {
	payload := &models.SubmissionPayload{TournamentID: tournamentID}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var categoriesJSON, rulesJSON []byte
		query := `SELECT categories, rules FROM category_configs WHERE tournament_id = $1`
		err := r.db.QueryRowContext(gCtx, query, tournamentID).Scan(&categoriesJSON, &rulesJSON)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrConfigNotFound
			}
			return fmt.Errorf("load category config: %w", err)
		}
		if err := json.Unmarshal(categoriesJSON, &payload.Categories); err != nil {
			return fmt.Errorf("unmarshal categories: %w", err)
		}
		if err := json.Unmarshal(rulesJSON, &payload.Rules); err != nil {
			return fmt.Errorf("unmarshal rules: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var formatsJSON []byte
		query := `SELECT formats FROM format_configs WHERE tournament_id = $1`
		err := r.db.QueryRowContext(gCtx, query, tournamentID).Scan(&formatsJSON)
		if err != nil {
			// The format step may not have been reached yet; formats are
			// optional in the payload.
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("load format config: %w", err)
		}
		return json.Unmarshal(formatsJSON, &payload.Formats)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return payload, nil
}

func (r *postgresSessionRepository) Delete(ctx context.Context, tournamentID int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM category_configs WHERE tournament_id = $1`, tournamentID)
	if err != nil {
		return fmt.Errorf("delete category config: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM format_configs WHERE tournament_id = $1`, tournamentID); err != nil {
		return fmt.Errorf("delete format config: %w", err)
	}
	if err := checkAffectedRows(result, ErrConfigNotFound); err != nil {
		return err
	}
	return tx.Commit()
}
