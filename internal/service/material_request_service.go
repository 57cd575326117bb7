package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/plbureau/labplanner-api/internal/dto"
	"github.com/plbureau/labplanner-api/internal/models"
	"github.com/plbureau/labplanner-api/internal/planner"
	appErrors "github.com/plbureau/labplanner-api/pkg/errors"
)

type materialRequestRepository interface {
	List(ctx context.Context, filter models.MaterialRequestFilter) ([]models.MaterialRequest, int, error)
	FindByID(ctx context.Context, id string) (*models.MaterialRequest, error)
	Create(ctx context.Context, request *models.MaterialRequest) error
	Update(ctx context.Context, request *models.MaterialRequest) error
	Delete(ctx context.Context, id string) error
}

type requestTeacherLookup interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

// MaterialRequestService orchestrates classroom-resource request intake.
type MaterialRequestService struct {
	repo      materialRequestRepository
	teachers  requestTeacherLookup
	deadline  DeadlinePolicy
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewMaterialRequestService constructs a MaterialRequestService.
func NewMaterialRequestService(repo materialRequestRepository, teachers requestTeacherLookup, deadline DeadlinePolicy, validate *validator.Validate, logger *zap.Logger) *MaterialRequestService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if deadline.NoticeDays <= 0 {
		deadline = DefaultDeadlinePolicy()
	}
	return &MaterialRequestService{
		repo:      repo,
		teachers:  teachers,
		deadline:  deadline,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns requests plus pagination data.
func (s *MaterialRequestService) List(ctx context.Context, query dto.ListMaterialRequestsQuery) ([]models.MaterialRequest, *models.Pagination, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request filters")
	}

	filter := models.MaterialRequestFilter{
		TeacherID: query.TeacherID,
		Status:    query.Status,
		Page:      query.Page,
		PageSize:  query.PageSize,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	}
	if query.Date != "" {
		date, err := parseDate(query.Date)
		if err != nil {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "invalid date filter")
		}
		filter.Date = &date
	}

	requests, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list requests")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return requests, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a request by id.
func (s *MaterialRequestService) Get(ctx context.Context, id string) (*models.MaterialRequest, error) {
	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load request")
	}
	return request, nil
}

// Create validates and stores a new request. The submission must respect
// the working-day notice before the course date.
func (s *MaterialRequestService) Create(ctx context.Context, req dto.CreateMaterialRequest) (*models.MaterialRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request payload")
	}
	if !planner.IsAllowedStart(req.StartToken) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start time is not on the allowed grid")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid course date")
	}

	if _, err := s.teachers.FindByID(ctx, req.TeacherID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	startMinutes, _ := planner.ParseClock(req.StartToken)
	if !s.deadline.Allows(s.now(), courseStartTime(date, startMinutes)) {
		return nil, appErrors.Clone(appErrors.ErrDeadlinePassed, "requests need two full working days of notice")
	}

	request := &models.MaterialRequest{
		TeacherID:         req.TeacherID,
		Level:             strings.TrimSpace(req.Level),
		Title:             strings.TrimSpace(req.Title),
		Date:              date,
		StartToken:        req.StartToken,
		SelectedMaterials: req.SelectedMaterials,
		Description:       req.Description,
		ComputersNeeded:   req.ComputersNeeded,
		RoomTypeHint:      req.RoomTypeHint,
		Exam:              req.Exam,
		Status:            models.RequestStatusPending,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create request")
	}
	return request, nil
}

// Update modifies a pending request. Planned requests are frozen, and a
// modification must respect the same notice as a new submission.
func (s *MaterialRequestService) Update(ctx context.Context, id string, req dto.UpdateMaterialRequest) (*models.MaterialRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request payload")
	}

	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load request")
	}
	if request.Status != models.RequestStatusPending {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "only pending requests can be changed")
	}

	if req.StartToken != nil {
		if !planner.IsAllowedStart(*req.StartToken) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "start time is not on the allowed grid")
		}
		request.StartToken = *req.StartToken
	}
	if req.Level != nil {
		request.Level = strings.TrimSpace(*req.Level)
	}
	if req.Title != nil {
		request.Title = strings.TrimSpace(*req.Title)
	}
	if req.SelectedMaterials != nil {
		request.SelectedMaterials = *req.SelectedMaterials
	}
	if req.Description != nil {
		request.Description = *req.Description
	}
	if req.ComputersNeeded != nil {
		request.ComputersNeeded = *req.ComputersNeeded
	}
	if req.RoomTypeHint != nil {
		request.RoomTypeHint = *req.RoomTypeHint
	}
	if req.Exam != nil {
		request.Exam = *req.Exam
	}

	startMinutes, _ := planner.ParseClock(request.StartToken)
	if !s.deadline.Allows(s.now(), courseStartTime(request.Date, startMinutes)) {
		return nil, appErrors.Clone(appErrors.ErrDeadlinePassed, "changes need two full working days of notice")
	}

	if err := s.repo.Update(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update request")
	}
	return request, nil
}

// Delete removes a pending request.
func (s *MaterialRequestService) Delete(ctx context.Context, id string) error {
	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load request")
	}
	if request.Status != models.RequestStatusPending {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "only pending requests can be removed")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete request")
	}
	return nil
}
