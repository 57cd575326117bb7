package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/plbureau/labplanner-api/internal/models"
)

const requestColumns = `r.id, r.teacher_id, t.full_name AS teacher_name, r.level, r.title, r.date, r.start_token, r.selected_materials, r.description, r.computers_needed, r.room_type_hint, r.exam, r.status, r.created_at, r.updated_at`

// MaterialRequestRepository manages persistence for classroom-resource
// requests.
type MaterialRequestRepository struct {
	db *sqlx.DB
}

// NewMaterialRequestRepository constructs a MaterialRequestRepository.
func NewMaterialRequestRepository(db *sqlx.DB) *MaterialRequestRepository {
	return &MaterialRequestRepository{db: db}
}

// List returns requests matching filters along with total count.
func (r *MaterialRequestRepository) List(ctx context.Context, filter models.MaterialRequestFilter) ([]models.MaterialRequest, int, error) {
	base := "FROM material_requests r JOIN teachers t ON t.id = r.teacher_id WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("r.teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.Date != nil {
		conditions = append(conditions, fmt.Sprintf("r.date = $%d", len(args)+1))
		args = append(args, filter.Date.Format("2006-01-02"))
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"date":        "r.date",
		"start_token": "r.start_token",
		"created_at":  "r.created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "r.date"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", requestColumns, base, column, order, size, offset)
	var requests []models.MaterialRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list material requests: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count material requests: %w", err)
	}

	return requests, total, nil
}

// ListByDate returns every request for the given day, ordered by start
// token. This is the intake view a planning run consumes.
func (r *MaterialRequestRepository) ListByDate(ctx context.Context, date time.Time) ([]models.MaterialRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM material_requests r JOIN teachers t ON t.id = r.teacher_id WHERE r.date = $1 ORDER BY r.start_token, t.full_name", requestColumns)
	var requests []models.MaterialRequest
	if err := r.db.SelectContext(ctx, &requests, query, date.Format("2006-01-02")); err != nil {
		return nil, fmt.Errorf("list material requests by date: %w", err)
	}
	return requests, nil
}

// FindByID fetches a request by ID.
func (r *MaterialRequestRepository) FindByID(ctx context.Context, id string) (*models.MaterialRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM material_requests r JOIN teachers t ON t.id = r.teacher_id WHERE r.id = $1", requestColumns)
	var request models.MaterialRequest
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		return nil, err
	}
	return &request, nil
}

// Create inserts a new request record.
func (r *MaterialRequestRepository) Create(ctx context.Context, request *models.MaterialRequest) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	if request.Status == "" {
		request.Status = models.RequestStatusPending
	}
	now := time.Now().UTC()
	if request.CreatedAt.IsZero() {
		request.CreatedAt = now
	}
	request.UpdatedAt = now

	const query = `INSERT INTO material_requests (id, teacher_id, level, title, date, start_token, selected_materials, description, computers_needed, room_type_hint, exam, status, created_at, updated_at)
		VALUES (:id, :teacher_id, :level, :title, :date, :start_token, :selected_materials, :description, :computers_needed, :room_type_hint, :exam, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, request); err != nil {
		return fmt.Errorf("create material request: %w", err)
	}
	return nil
}

// Update modifies an existing request record.
func (r *MaterialRequestRepository) Update(ctx context.Context, request *models.MaterialRequest) error {
	request.UpdatedAt = time.Now().UTC()
	const query = `UPDATE material_requests SET level = :level, title = :title, start_token = :start_token, selected_materials = :selected_materials, description = :description, computers_needed = :computers_needed, room_type_hint = :room_type_hint, exam = :exam, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, request); err != nil {
		return fmt.Errorf("update material request: %w", err)
	}
	return nil
}

// MarkPlanned flips every request of the given day to PLANNED after a
// successful run.
func (r *MaterialRequestRepository) MarkPlanned(ctx context.Context, date time.Time) error {
	const query = `UPDATE material_requests SET status = $1, updated_at = $2 WHERE date = $3 AND status = $4`
	if _, err := r.db.ExecContext(ctx, query, models.RequestStatusPlanned, time.Now().UTC(), date.Format("2006-01-02"), models.RequestStatusPending); err != nil {
		return fmt.Errorf("mark requests planned: %w", err)
	}
	return nil
}

// Delete removes a request.
func (r *MaterialRequestRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM material_requests WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete material request: %w", err)
	}
	return nil
}
