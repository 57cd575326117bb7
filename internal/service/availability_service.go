package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/plbureau/labplanner-api/internal/dto"
	"github.com/plbureau/labplanner-api/internal/models"
	"github.com/plbureau/labplanner-api/internal/planner"
	appErrors "github.com/plbureau/labplanner-api/pkg/errors"
)

type roomWindowRepository interface {
	ListByRoom(ctx context.Context, roomName string) ([]models.RoomWindow, error)
	FindByID(ctx context.Context, id string) (*models.RoomWindow, error)
	Create(ctx context.Context, window *models.RoomWindow) error
	Delete(ctx context.Context, id string) error
}

type windowRoomLookup interface {
	FindByName(ctx context.Context, name string) (*models.Room, error)
}

// AvailabilityService manages the weekly windows of gated rooms.
type AvailabilityService struct {
	repo      roomWindowRepository
	rooms     windowRoomLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(repo roomWindowRepository, rooms windowRoomLookup, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{repo: repo, rooms: rooms, validator: validate, logger: logger}
}

// List returns the windows of a room as API responses.
func (s *AvailabilityService) List(ctx context.Context, roomName string) ([]dto.RoomWindowResponse, error) {
	windows, err := s.repo.ListByRoom(ctx, roomName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list room windows")
	}
	out := make([]dto.RoomWindowResponse, 0, len(windows))
	for _, w := range windows {
		out = append(out, dto.RoomWindowResponse{
			ID:       w.ID,
			RoomName: w.RoomName,
			Weekday:  w.Weekday,
			Start:    planner.FormatClock(w.StartMinutes),
			End:      planner.FormatClock(w.EndMinutes),
		})
	}
	return out, nil
}

// Create adds a window after validating room existence, token syntax and
// range ordering.
func (s *AvailabilityService) Create(ctx context.Context, req dto.CreateRoomWindowRequest) (*models.RoomWindow, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid window payload")
	}

	if _, err := s.rooms.FindByName(ctx, req.RoomName); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}

	start, err := planner.ParseClock(req.Start)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid window start time")
	}
	end, err := planner.ParseClock(req.End)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid window end time")
	}
	if end <= start {
		return nil, appErrors.Clone(appErrors.ErrValidation, "window must end after it starts")
	}

	window := &models.RoomWindow{
		RoomName:     req.RoomName,
		Weekday:      req.Weekday,
		StartMinutes: start,
		EndMinutes:   end,
	}
	if err := s.repo.Create(ctx, window); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create window")
	}
	return window, nil
}

// Delete removes a window.
func (s *AvailabilityService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "window not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load window")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete window")
	}
	return nil
}

// PlannerWindows converts stored windows into the engine representation.
func (s *AvailabilityService) PlannerWindows(ctx context.Context, roomName string) ([]planner.Window, error) {
	if roomName == "" {
		return nil, nil
	}
	windows, err := s.repo.ListByRoom(ctx, roomName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room windows")
	}
	out := make([]planner.Window, 0, len(windows))
	for _, w := range windows {
		out = append(out, planner.Window{
			Weekday: time.Weekday(w.Weekday),
			Start:   w.StartMinutes,
			End:     w.EndMinutes,
		})
	}
	return out, nil
}
