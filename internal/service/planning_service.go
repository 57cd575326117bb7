package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/plbureau/labplanner-api/internal/dto"
	"github.com/plbureau/labplanner-api/internal/models"
	"github.com/plbureau/labplanner-api/internal/planner"
	appErrors "github.com/plbureau/labplanner-api/pkg/errors"
)

type planningRequestSource interface {
	ListByDate(ctx context.Context, date time.Time) ([]models.MaterialRequest, error)
	MarkPlanned(ctx context.Context, date time.Time) error
}

type planningRoomSource interface {
	ListActive(ctx context.Context) ([]models.Room, error)
}

type planningStore interface {
	Save(ctx context.Context, planning *models.Planning, entries []models.PlanningEntry) error
	FindByDate(ctx context.Context, date time.Time) (*models.Planning, error)
	ListEntries(ctx context.Context, planningID string) ([]models.PlanningEntry, error)
}

type planningWindowSource interface {
	PlannerWindows(ctx context.Context, roomName string) ([]planner.Window, error)
}

type planningCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type assignmentEngine interface {
	Plan(ctx context.Context, input planner.Input) (*planner.Plan, error)
}

type planningMetrics interface {
	ObservePlanningRun(outcome string, duration time.Duration)
	RecordCacheOperation(hit bool, duration time.Duration)
	ObserveDBQuery(label string, duration time.Duration)
}

// PlanningServiceConfig tunes the planning orchestration.
type PlanningServiceConfig struct {
	SpecialRoom string
	CacheTTL    time.Duration
}

// PlanningService runs the daily room assignment end to end: intake,
// engine, persistence and the cached read path.
type PlanningService struct {
	requests planningRequestSource
	rooms    planningRoomSource
	windows  planningWindowSource
	store    planningStore
	cache    planningCache
	engine   assignmentEngine
	metrics  planningMetrics
	logger   *zap.Logger
	cfg      PlanningServiceConfig
}

// NewPlanningService constructs a PlanningService.
func NewPlanningService(requests planningRequestSource, rooms planningRoomSource, windows planningWindowSource, store planningStore, cache planningCache, engine assignmentEngine, metrics planningMetrics, cfg PlanningServiceConfig, logger *zap.Logger) *PlanningService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return &PlanningService{
		requests: requests,
		rooms:    rooms,
		windows:  windows,
		store:    store,
		cache:    cache,
		engine:   engine,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
	}
}

// Generate runs the engine for one day and persists the result, replacing
// any earlier planning for the same date.
func (s *PlanningService) Generate(ctx context.Context, req dto.GeneratePlanningRequest) (*dto.PlanningResponse, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid planning date")
	}

	requests, err := s.requests.ListByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load requests")
	}
	rooms, err := s.rooms.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	windows, err := s.windows.PlannerWindows(ctx, s.cfg.SpecialRoom)
	if err != nil {
		return nil, err
	}

	input := planner.Input{
		Weekday:            date.Weekday(),
		Requests:           toPlannerRequests(requests),
		Rooms:              toPlannerRooms(rooms),
		SpecialRoomWindows: windows,
	}

	started := time.Now()
	plan, err := s.engine.Plan(ctx, input)
	if err != nil {
		switch {
		case errors.Is(err, planner.ErrNoRequests):
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no requests for that date")
		case errors.Is(err, planner.ErrNoRooms):
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no active rooms configured")
		case errors.Is(err, planner.ErrNoPlacement):
			return nil, appErrors.Clone(appErrors.ErrNoCapacity, "no room can host any course that day")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "planning run failed")
	}
	if s.metrics != nil {
		s.metrics.ObservePlanningRun(string(plan.Outcome), time.Since(started))
	}

	planning := &models.Planning{
		Date:         date,
		Outcome:      string(plan.Outcome),
		SolverStatus: plan.SolverStatus,
		GeneratedAt:  time.Now().UTC(),
	}
	entries := buildEntries(plan)
	saveStart := time.Now()
	if err := s.store.Save(ctx, planning, entries); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist planning")
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("planning_save", time.Since(saveStart))
	}
	if err := s.requests.MarkPlanned(ctx, date); err != nil {
		s.logger.Warn("failed to flip request statuses", zap.String("date", req.Date), zap.Error(err))
	}
	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, planningCachePattern); err != nil {
			s.logger.Warn("failed to invalidate planning cache", zap.Error(err))
		}
	}

	s.logger.Info("planning generated",
		zap.String("date", req.Date),
		zap.String("outcome", string(plan.Outcome)),
		zap.Int("assigned", plan.AssignedCount()),
		zap.Int("unassigned", len(plan.Unassigned)),
	)
	return s.buildResponse(planning, entries), nil
}

const planningCachePattern = "planning:*"

func planningCacheKey(date time.Time) string {
	return fmt.Sprintf("planning:%s", formatDate(date))
}

// Get returns the persisted planning for a day, served from cache when
// warm.
func (s *PlanningService) Get(ctx context.Context, rawDate string) (*dto.PlanningResponse, error) {
	date, err := parseDate(rawDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid planning date")
	}

	key := planningCacheKey(date)
	if s.cache != nil {
		var cached dto.PlanningResponse
		lookupStart := time.Now()
		err := s.cache.Get(ctx, key, &cached)
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(err == nil, time.Since(lookupStart))
		}
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("planning cache read failed", zap.Error(err))
		}
	}

	queryStart := time.Now()
	planning, err := s.store.FindByDate(ctx, date)
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("planning_find_by_date", time.Since(queryStart))
	}
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no planning for that date")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load planning")
	}
	entries, err := s.store.ListEntries(ctx, planning.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load planning entries")
	}

	resp := s.buildResponse(planning, entries)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("planning cache write failed", zap.Error(err))
		}
	}
	return resp, nil
}

func (s *PlanningService) buildResponse(planning *models.Planning, entries []models.PlanningEntry) *dto.PlanningResponse {
	resp := &dto.PlanningResponse{
		ID:           planning.ID,
		Date:         formatDate(planning.Date),
		Outcome:      planning.Outcome,
		SolverStatus: planning.SolverStatus,
		GeneratedAt:  planning.GeneratedAt.UTC().Format(time.RFC3339),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, dto.PlanningEntryResponse{
			RequestID:       e.RequestID,
			Teacher:         e.TeacherName,
			Level:           e.Level,
			Title:           e.Title,
			Subject:         e.Subject,
			Room:            e.RoomName,
			Start:           planner.FormatClock(e.StartMinutes),
			DurationMinutes: e.DurationMinutes,
			Assigned:        e.Assigned,
		})
		if !e.Assigned {
			resp.Unassigned = append(resp.Unassigned, fmt.Sprintf("%s - %s à %s", e.TeacherName, e.Level, planner.FormatClock(e.StartMinutes)))
		}
	}
	return resp
}

func toPlannerRequests(requests []models.MaterialRequest) []planner.Request {
	out := make([]planner.Request, 0, len(requests))
	for _, r := range requests {
		out = append(out, planner.Request{
			Ref:               r.ID,
			Teacher:           r.TeacherName,
			Level:             r.Level,
			StartToken:        r.StartToken,
			SelectedMaterials: r.SelectedMaterials,
			Description:       r.Description,
			ComputersNeeded:   r.ComputersNeeded,
			RoomTypeHint:      r.RoomTypeHint,
			Exam:              r.Exam,
			Title:             r.Title,
		})
	}
	return out
}

func toPlannerRooms(rooms []models.Room) []planner.RoomRecord {
	out := make([]planner.RoomRecord, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, planner.RoomRecord{
			Name:               r.Name,
			Type:               r.Type,
			Capacity:           r.Capacity,
			Computers:          r.Computers,
			Sinks:              r.Sinks,
			FumeHoods:          r.FumeHoods,
			OpticalBenches:     r.OpticalBenches,
			Oscilloscopes:      r.Oscilloscopes,
			ElectricBurners:    r.ElectricBurners,
			FiltrationSupports: r.FiltrationSupports,
			Printers:           r.Printers,
			ExamCapable:        r.ExamCapable,
		})
	}
	return out
}

func buildEntries(plan *planner.Plan) []models.PlanningEntry {
	entries := make([]models.PlanningEntry, 0, len(plan.Assignments)+len(plan.Unassigned))
	for _, a := range plan.Assignments {
		entries = append(entries, models.PlanningEntry{
			RequestID:       a.Course.Ref,
			TeacherName:     a.Course.Teacher,
			Level:           a.Course.Level,
			Title:           a.Course.Title,
			Subject:         string(a.Course.Subject),
			RoomName:        a.Room,
			StartMinutes:    a.Course.Start,
			DurationMinutes: a.Course.Duration,
			Assigned:        true,
		})
	}
	for _, c := range plan.Unassigned {
		entries = append(entries, models.PlanningEntry{
			RequestID:       c.Ref,
			TeacherName:     c.Teacher,
			Level:           c.Level,
			Title:           c.Title,
			Subject:         string(c.Subject),
			StartMinutes:    c.Start,
			DurationMinutes: c.Duration,
		})
	}
	return entries
}
