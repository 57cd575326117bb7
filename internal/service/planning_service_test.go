package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/plbureau/labplanner-api/internal/dto"
	"github.com/plbureau/labplanner-api/internal/models"
	"github.com/plbureau/labplanner-api/internal/planner"
	appErrors "github.com/plbureau/labplanner-api/pkg/errors"
)

type stubRequestSource struct {
	requests    []models.MaterialRequest
	markedDates []time.Time
	markErr     error
}

func (s *stubRequestSource) ListByDate(ctx context.Context, date time.Time) ([]models.MaterialRequest, error) {
	return s.requests, nil
}

func (s *stubRequestSource) MarkPlanned(ctx context.Context, date time.Time) error {
	s.markedDates = append(s.markedDates, date)
	return s.markErr
}

type stubRoomSource struct {
	rooms []models.Room
}

func (s *stubRoomSource) ListActive(ctx context.Context) ([]models.Room, error) {
	return s.rooms, nil
}

// The availability service is what production wires as the window source.
var _ planningWindowSource = (*AvailabilityService)(nil)

type stubWindowSource struct {
	windows []planner.Window
}

func (s *stubWindowSource) PlannerWindows(ctx context.Context, roomName string) ([]planner.Window, error) {
	return s.windows, nil
}

type stubPlanningStore struct {
	saved        *models.Planning
	savedEntries []models.PlanningEntry
	byDate       *models.Planning
	entries      []models.PlanningEntry
}

func (s *stubPlanningStore) Save(ctx context.Context, planning *models.Planning, entries []models.PlanningEntry) error {
	planning.ID = "pl-1"
	s.saved = planning
	s.savedEntries = entries
	return nil
}

func (s *stubPlanningStore) FindByDate(ctx context.Context, date time.Time) (*models.Planning, error) {
	if s.byDate == nil {
		return nil, sql.ErrNoRows
	}
	return s.byDate, nil
}

func (s *stubPlanningStore) ListEntries(ctx context.Context, planningID string) ([]models.PlanningEntry, error) {
	return s.entries, nil
}

type stubPlanningCache struct {
	stored          *dto.PlanningResponse
	setKeys         []string
	deletedPatterns []string
}

func (c *stubPlanningCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.stored == nil {
		return appErrors.ErrCacheMiss
	}
	if resp, ok := dest.(*dto.PlanningResponse); ok {
		*resp = *c.stored
		return nil
	}
	return appErrors.ErrCacheMiss
}

func (c *stubPlanningCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.setKeys = append(c.setKeys, key)
	return nil
}

func (c *stubPlanningCache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.deletedPatterns = append(c.deletedPatterns, pattern)
	return nil
}

type stubEngine struct {
	plan  *planner.Plan
	err   error
	input planner.Input
}

func (e *stubEngine) Plan(ctx context.Context, input planner.Input) (*planner.Plan, error) {
	e.input = input
	if e.err != nil {
		return nil, e.err
	}
	return e.plan, nil
}

type stubPlanningMetrics struct {
	outcomes     []string
	cacheLookups []bool
	queryLabels  []string
}

func (m *stubPlanningMetrics) ObservePlanningRun(outcome string, duration time.Duration) {
	m.outcomes = append(m.outcomes, outcome)
}

func (m *stubPlanningMetrics) RecordCacheOperation(hit bool, duration time.Duration) {
	m.cacheLookups = append(m.cacheLookups, hit)
}

func (m *stubPlanningMetrics) ObserveDBQuery(label string, duration time.Duration) {
	m.queryLabels = append(m.queryLabels, label)
}

func samplePlan() *planner.Plan {
	return &planner.Plan{
		Outcome:      planner.OutcomeOptimal,
		SolverStatus: "OPTIMAL",
		Assignments: []planner.Assignment{
			{
				Course: planner.Course{
					Ref:      "req-1",
					Teacher:  "Durand",
					Level:    "1ère ES",
					Title:    "Titrage",
					Subject:  planner.SubjectChemistry,
					Start:    570,
					Duration: 110,
				},
				Room: "C12",
			},
		},
	}
}

func newPlanningFixture(engine *stubEngine) (*PlanningService, *stubRequestSource, *stubPlanningStore, *stubPlanningCache, *stubPlanningMetrics) {
	requests := &stubRequestSource{requests: []models.MaterialRequest{{ID: "req-1", TeacherName: "Durand", Level: "1ère ES", StartToken: "9h30"}}}
	rooms := &stubRoomSource{rooms: []models.Room{{Name: "C12", Type: "Chimie", Capacity: 24, Active: true}}}
	store := &stubPlanningStore{}
	cache := &stubPlanningCache{}
	metrics := &stubPlanningMetrics{}
	svc := NewPlanningService(requests, rooms, &stubWindowSource{}, store, cache, engine, metrics, PlanningServiceConfig{SpecialRoom: "C21"}, zap.NewNop())
	return svc, requests, store, cache, metrics
}

func TestPlanningGenerate(t *testing.T) {
	engine := &stubEngine{plan: samplePlan()}
	svc, requests, store, cache, metrics := newPlanningFixture(engine)

	resp, err := svc.Generate(context.Background(), dto.GeneratePlanningRequest{Date: "2026-09-14"})
	require.NoError(t, err)

	assert.Equal(t, "optimal", resp.Outcome)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "C12", resp.Entries[0].Room)
	assert.Equal(t, "9h30", resp.Entries[0].Start)
	assert.Empty(t, resp.Unassigned)

	require.NotNil(t, store.saved)
	assert.Equal(t, "pl-1", store.saved.ID)
	require.Len(t, store.savedEntries, 1)
	assert.Equal(t, "req-1", store.savedEntries[0].RequestID)

	assert.Len(t, requests.markedDates, 1)
	assert.Equal(t, []string{"planning:*"}, cache.deletedPatterns)
	assert.Equal(t, []string{"optimal"}, metrics.outcomes)
	assert.Equal(t, []string{"planning_save"}, metrics.queryLabels)
	assert.Equal(t, time.Monday, engine.input.Weekday)
}

func TestPlanningGenerateSurfacesUnassigned(t *testing.T) {
	plan := samplePlan()
	plan.Outcome = planner.OutcomeFallback
	plan.Unassigned = []planner.Course{{
		Ref:     "req-2",
		Teacher: "Martin",
		Level:   "2nde",
		Start:   600,
	}}
	engine := &stubEngine{plan: plan}
	svc, _, store, _, _ := newPlanningFixture(engine)

	resp, err := svc.Generate(context.Background(), dto.GeneratePlanningRequest{Date: "2026-09-14"})
	require.NoError(t, err)
	assert.Equal(t, "fallback", resp.Outcome)
	assert.Equal(t, []string{"Martin - 2nde à 10h00"}, resp.Unassigned)
	assert.Len(t, store.savedEntries, 2)
}

func TestPlanningGenerateMapsEngineErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"no requests", planner.ErrNoRequests, appErrors.ErrPreconditionFailed.Code},
		{"no rooms", planner.ErrNoRooms, appErrors.ErrPreconditionFailed.Code},
		{"no placement", planner.ErrNoPlacement, appErrors.ErrNoCapacity.Code},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := &stubEngine{err: tc.err}
			svc, _, store, _, _ := newPlanningFixture(engine)

			_, err := svc.Generate(context.Background(), dto.GeneratePlanningRequest{Date: "2026-09-14"})
			require.Error(t, err)
			var appErr *appErrors.Error
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tc.wantCode, appErr.Code)
			assert.Nil(t, store.saved)
		})
	}
}

func TestPlanningGenerateRejectsBadDate(t *testing.T) {
	svc, _, _, _, _ := newPlanningFixture(&stubEngine{plan: samplePlan()})

	_, err := svc.Generate(context.Background(), dto.GeneratePlanningRequest{Date: "14/09/2026"})
	require.Error(t, err)
}

func TestPlanningGetCacheHit(t *testing.T) {
	engine := &stubEngine{plan: samplePlan()}
	svc, _, store, cache, metrics := newPlanningFixture(engine)
	cache.stored = &dto.PlanningResponse{ID: "cached", Date: "2026-09-14", Outcome: "optimal"}

	resp, err := svc.Get(context.Background(), "2026-09-14")
	require.NoError(t, err)
	assert.Equal(t, "cached", resp.ID)
	assert.Nil(t, store.saved)
	assert.Empty(t, cache.setKeys)
	assert.Equal(t, []bool{true}, metrics.cacheLookups)
	assert.Empty(t, metrics.queryLabels)
}

func TestPlanningGetCacheMiss(t *testing.T) {
	engine := &stubEngine{plan: samplePlan()}
	svc, _, store, cache, metrics := newPlanningFixture(engine)
	store.byDate = &models.Planning{
		ID:           "pl-9",
		Date:         time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		Outcome:      "optimal",
		SolverStatus: "OPTIMAL",
		GeneratedAt:  time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC),
	}
	store.entries = []models.PlanningEntry{{
		RequestID:       "req-1",
		TeacherName:     "Durand",
		Level:           "1ère ES",
		RoomName:        "C12",
		StartMinutes:    570,
		DurationMinutes: 110,
		Assigned:        true,
	}}

	resp, err := svc.Get(context.Background(), "2026-09-14")
	require.NoError(t, err)
	assert.Equal(t, "pl-9", resp.ID)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "9h30", resp.Entries[0].Start)
	assert.Equal(t, []string{"planning:2026-09-14"}, cache.setKeys)
	assert.Equal(t, []bool{false}, metrics.cacheLookups)
	assert.Equal(t, []string{"planning_find_by_date"}, metrics.queryLabels)
}

func TestPlanningGetNotFound(t *testing.T) {
	svc, _, _, _, _ := newPlanningFixture(&stubEngine{plan: samplePlan()})

	_, err := svc.Get(context.Background(), "2026-09-14")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
