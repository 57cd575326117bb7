package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/plbureau/labplanner-api/internal/models"
)

const roomColumns = "id, name, type, capacity, computers, sinks, fume_hoods, optical_benches, oscilloscopes, electric_burners, filtration_supports, printers, exam_capable, active, created_at, updated_at"

// RoomRepository manages persistence for the room catalog.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs a RoomRepository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// List returns rooms matching filters along with total count.
func (r *RoomRepository) List(ctx context.Context, filter models.RoomFilter) ([]models.Room, int, error) {
	base := "FROM rooms WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)+1))
		args = append(args, filter.Type)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"name":     "name",
		"capacity": "capacity",
		"type":     "type",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "name"
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
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", roomColumns, base, column, order, size, offset)
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list rooms: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count rooms: %w", err)
	}

	return rooms, total, nil
}

// ListActive returns every active room, ordered by name. This is the
// catalog view the planning run consumes.
func (r *RoomRepository) ListActive(ctx context.Context) ([]models.Room, error) {
	query := fmt.Sprintf("SELECT %s FROM rooms WHERE active = TRUE ORDER BY name", roomColumns)
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list active rooms: %w", err)
	}
	return rooms, nil
}

// FindByID fetches a room by ID.
func (r *RoomRepository) FindByID(ctx context.Context, id string) (*models.Room, error) {
	query := fmt.Sprintf("SELECT %s FROM rooms WHERE id = $1", roomColumns)
	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		return nil, err
	}
	return &room, nil
}

// FindByName fetches a room by its unique name.
func (r *RoomRepository) FindByName(ctx context.Context, name string) (*models.Room, error) {
	query := fmt.Sprintf("SELECT %s FROM rooms WHERE LOWER(name) = LOWER($1)", roomColumns)
	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, name); err != nil {
		return nil, err
	}
	return &room, nil
}

// ExistsByName checks if another room uses the same name.
func (r *RoomRepository) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM rooms WHERE LOWER(name) = LOWER($1)"
	args := []interface{}{name}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check room name: %w", err)
	}
	return true, nil
}

// Create inserts a new room record.
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if room.CreatedAt.IsZero() {
		room.CreatedAt = now
	}
	room.UpdatedAt = now

	const query = `INSERT INTO rooms (id, name, type, capacity, computers, sinks, fume_hoods, optical_benches, oscilloscopes, electric_burners, filtration_supports, printers, exam_capable, active, created_at, updated_at)
		VALUES (:id, :name, :type, :capacity, :computers, :sinks, :fume_hoods, :optical_benches, :oscilloscopes, :electric_burners, :filtration_supports, :printers, :exam_capable, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

// Update modifies an existing room record.
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	room.UpdatedAt = time.Now().UTC()
	const query = `UPDATE rooms SET type = :type, capacity = :capacity, computers = :computers, sinks = :sinks, fume_hoods = :fume_hoods, optical_benches = :optical_benches, oscilloscopes = :oscilloscopes, electric_burners = :electric_burners, filtration_supports = :filtration_supports, printers = :printers, exam_capable = :exam_capable, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	return nil
}

// Deactivate sets a room's active flag to false so it stops being offered
// to the planner.
func (r *RoomRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE rooms SET active = FALSE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate room: %w", err)
	}
	return nil
}
