package service

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/plbureau/labplanner-api/internal/dto"
	"github.com/plbureau/labplanner-api/internal/models"
	appErrors "github.com/plbureau/labplanner-api/pkg/errors"
)

type roomRepository interface {
	List(ctx context.Context, filter models.RoomFilter) ([]models.Room, int, error)
	ListActive(ctx context.Context) ([]models.Room, error)
	FindByID(ctx context.Context, id string) (*models.Room, error)
	FindByName(ctx context.Context, name string) (*models.Room, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, room *models.Room) error
	Update(ctx context.Context, room *models.Room) error
	Deactivate(ctx context.Context, id string) error
}

// RoomService orchestrates the room catalog.
type RoomService struct {
	repo      roomRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoomService constructs a RoomService.
func NewRoomService(repo roomRepository, validate *validator.Validate, logger *zap.Logger) *RoomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{repo: repo, validator: validate, logger: logger}
}

// List returns rooms plus pagination data.
func (s *RoomService) List(ctx context.Context, filter models.RoomFilter) ([]models.Room, *models.Pagination, error) {
	rooms, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 50
	}
	return rooms, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a room by id.
func (s *RoomService) Get(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	return room, nil
}

// Create registers a new room.
func (s *RoomService) Create(ctx context.Context, req dto.CreateRoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	exists, err := s.repo.ExistsByName(ctx, req.Name, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check room name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "room name already used")
	}

	room := roomFromCreate(req)
	if err := s.repo.Create(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create room")
	}
	return room, nil
}

// Update modifies an existing room.
func (s *RoomService) Update(ctx context.Context, id string, req dto.UpdateRoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}

	applyRoomUpdate(room, req)

	if err := s.repo.Update(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update room")
	}
	return room, nil
}

// Deactivate withdraws a room from the catalog offered to the planner.
func (s *RoomService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate room")
	}
	return nil
}

// ImportCSV upserts rooms from a catalog CSV. Rows that fail to parse are
// reported but do not abort the import.
func (s *RoomService) ImportCSV(ctx context.Context, r io.Reader) (*dto.ImportRoomsResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "empty or unreadable csv")
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["name"]; !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "csv must carry a name column")
	}

	result := &dto.ImportRoomsResult{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		room, err := roomFromCSV(record, columns)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		existing, err := s.repo.FindByName(ctx, room.Name)
		switch {
		case err == sql.ErrNoRows:
			room.Active = true
			if err := s.repo.Create(ctx, room); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
				continue
			}
			result.Created++
		case err != nil:
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
		default:
			room.ID = existing.ID
			room.Active = existing.Active
			room.CreatedAt = existing.CreatedAt
			if err := s.repo.Update(ctx, room); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
				continue
			}
			result.Updated++
		}
	}

	s.logger.Info("room catalog imported",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

func roomFromCreate(req dto.CreateRoomRequest) *models.Room {
	return &models.Room{
		Name:               strings.TrimSpace(req.Name),
		Type:               strings.TrimSpace(req.Type),
		Capacity:           req.Capacity,
		Computers:          req.Computers,
		Sinks:              req.Sinks,
		FumeHoods:          req.FumeHoods,
		OpticalBenches:     req.OpticalBenches,
		Oscilloscopes:      req.Oscilloscopes,
		ElectricBurners:    req.ElectricBurners,
		FiltrationSupports: req.FiltrationSupports,
		Printers:           req.Printers,
		ExamCapable:        req.ExamCapable,
		Active:             true,
	}
}

func applyRoomUpdate(room *models.Room, req dto.UpdateRoomRequest) {
	if req.Type != nil {
		room.Type = strings.TrimSpace(*req.Type)
	}
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}
	if req.Computers != nil {
		room.Computers = *req.Computers
	}
	if req.Sinks != nil {
		room.Sinks = *req.Sinks
	}
	if req.FumeHoods != nil {
		room.FumeHoods = *req.FumeHoods
	}
	if req.OpticalBenches != nil {
		room.OpticalBenches = *req.OpticalBenches
	}
	if req.Oscilloscopes != nil {
		room.Oscilloscopes = *req.Oscilloscopes
	}
	if req.ElectricBurners != nil {
		room.ElectricBurners = *req.ElectricBurners
	}
	if req.FiltrationSupports != nil {
		room.FiltrationSupports = *req.FiltrationSupports
	}
	if req.Printers != nil {
		room.Printers = *req.Printers
	}
	if req.ExamCapable != nil {
		room.ExamCapable = *req.ExamCapable
	}
	if req.Active != nil {
		room.Active = *req.Active
	}
}

func roomFromCSV(record []string, columns map[string]int) (*models.Room, error) {
	value := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	number := func(name string) (int, error) {
		raw := value(name)
		if raw == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("bad %s value %q", name, raw)
		}
		return n, nil
	}

	name := value("name")
	if name == "" {
		return nil, fmt.Errorf("missing room name")
	}

	room := &models.Room{Name: name, Type: value("type")}
	var err error
	if room.Capacity, err = number("capacity"); err != nil {
		return nil, err
	}
	if room.Capacity == 0 {
		return nil, fmt.Errorf("room %s needs a capacity", name)
	}
	if room.Computers, err = number("computers"); err != nil {
		return nil, err
	}
	if room.Sinks, err = number("sinks"); err != nil {
		return nil, err
	}
	if room.FumeHoods, err = number("fume_hoods"); err != nil {
		return nil, err
	}
	if room.OpticalBenches, err = number("optical_benches"); err != nil {
		return nil, err
	}
	if room.Oscilloscopes, err = number("oscilloscopes"); err != nil {
		return nil, err
	}
	if room.ElectricBurners, err = number("electric_burners"); err != nil {
		return nil, err
	}
	if room.FiltrationSupports, err = number("filtration_supports"); err != nil {
		return nil, err
	}
	if room.Printers, err = number("printers"); err != nil {
		return nil, err
	}

	switch strings.ToLower(value("exam_capable")) {
	case "1", "true", "yes", "oui":
		room.ExamCapable = true
	}
	return room, nil
}
