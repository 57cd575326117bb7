package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/plbureau/labplanner-api/internal/models"
)

// RoomWindowRepository manages the weekly availability windows of gated
// rooms.
type RoomWindowRepository struct {
	db *sqlx.DB
}

// NewRoomWindowRepository constructs a RoomWindowRepository.
func NewRoomWindowRepository(db *sqlx.DB) *RoomWindowRepository {
	return &RoomWindowRepository{db: db}
}

// ListByRoom returns every window for a room, ordered by weekday and
// start.
func (r *RoomWindowRepository) ListByRoom(ctx context.Context, roomName string) ([]models.RoomWindow, error) {
	const query = `SELECT id, room_name, weekday, start_minutes, end_minutes, created_at, updated_at
		FROM room_windows WHERE LOWER(room_name) = LOWER($1) ORDER BY weekday, start_minutes`
	var windows []models.RoomWindow
	if err := r.db.SelectContext(ctx, &windows, query, roomName); err != nil {
		return nil, fmt.Errorf("list room windows: %w", err)
	}
	return windows, nil
}

// FindByID fetches a window by ID.
func (r *RoomWindowRepository) FindByID(ctx context.Context, id string) (*models.RoomWindow, error) {
	const query = `SELECT id, room_name, weekday, start_minutes, end_minutes, created_at, updated_at FROM room_windows WHERE id = $1`
	var window models.RoomWindow
	if err := r.db.GetContext(ctx, &window, query, id); err != nil {
		return nil, err
	}
	return &window, nil
}

// Create inserts a new window.
func (r *RoomWindowRepository) Create(ctx context.Context, window *models.RoomWindow) error {
	if window.ID == "" {
		window.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if window.CreatedAt.IsZero() {
		window.CreatedAt = now
	}
	window.UpdatedAt = now

	const query = `INSERT INTO room_windows (id, room_name, weekday, start_minutes, end_minutes, created_at, updated_at)
		VALUES (:id, :room_name, :weekday, :start_minutes, :end_minutes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, window); err != nil {
		return fmt.Errorf("create room window: %w", err)
	}
	return nil
}

// Delete removes a window.
func (r *RoomWindowRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM room_windows WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete room window: %w", err)
	}
	return nil
}
