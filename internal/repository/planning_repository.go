package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/plbureau/labplanner-api/internal/models"
)

// PlanningRepository manages persisted daily plannings and their entries.
type PlanningRepository struct {
	db *sqlx.DB
}

// NewPlanningRepository constructs a PlanningRepository.
func NewPlanningRepository(db *sqlx.DB) *PlanningRepository {
	return &PlanningRepository{db: db}
}

// Save replaces the planning for its date: any previous run for the same
// day is removed and the new planning plus entries are inserted in one
// transaction.
func (r *PlanningRepository) Save(ctx context.Context, planning *models.Planning, entries []models.PlanningEntry) error {
	if planning.ID == "" {
		planning.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if planning.CreatedAt.IsZero() {
		planning.CreatedAt = now
	}
	if planning.GeneratedAt.IsZero() {
		planning.GeneratedAt = now
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save planning: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM plannings WHERE date = $1`, planning.Date.Format("2006-01-02")); err != nil {
		return fmt.Errorf("clear previous planning: %w", err)
	}

	const planningQuery = `INSERT INTO plannings (id, date, outcome, solver_status, generated_at, created_at)
		VALUES (:id, :date, :outcome, :solver_status, :generated_at, :created_at)`
	if _, err = sqlx.NamedExecContext(ctx, tx, planningQuery, planning); err != nil {
		return fmt.Errorf("insert planning: %w", err)
	}

	const entryQuery = `INSERT INTO planning_entries (id, planning_id, request_id, teacher_name, level, title, subject, room_name, start_minutes, duration_minutes, assigned, created_at)
		VALUES (:id, :planning_id, :request_id, :teacher_name, :level, :title, :subject, :room_name, :start_minutes, :duration_minutes, :assigned, :created_at)`
	for i := range entries {
		payload := entries[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		payload.PlanningID = planning.ID
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}
		if _, err = sqlx.NamedExecContext(ctx, tx, entryQuery, &payload); err != nil {
			return fmt.Errorf("insert planning entry: %w", err)
		}
		entries[i] = payload
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save planning: %w", err)
	}
	return nil
}

// FindByDate fetches the planning for a day, without entries.
func (r *PlanningRepository) FindByDate(ctx context.Context, date time.Time) (*models.Planning, error) {
	const query = `SELECT id, date, outcome, solver_status, generated_at, created_at FROM plannings WHERE date = $1`
	var planning models.Planning
	if err := r.db.GetContext(ctx, &planning, query, date.Format("2006-01-02")); err != nil {
		return nil, err
	}
	return &planning, nil
}

// ListEntries returns the entries of a planning, chronologically.
func (r *PlanningRepository) ListEntries(ctx context.Context, planningID string) ([]models.PlanningEntry, error) {
	const query = `SELECT id, planning_id, request_id, teacher_name, level, title, subject, room_name, start_minutes, duration_minutes, assigned, created_at
		FROM planning_entries WHERE planning_id = $1 ORDER BY start_minutes, teacher_name`
	var entries []models.PlanningEntry
	if err := r.db.SelectContext(ctx, &entries, query, planningID); err != nil {
		return nil, fmt.Errorf("list planning entries: %w", err)
	}
	return entries, nil
}

// Delete removes a planning and its entries.
func (r *PlanningRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM plannings WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete planning: %w", err)
	}
	return nil
}
