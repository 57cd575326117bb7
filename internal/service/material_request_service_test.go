package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/plbureau/labplanner-api/internal/dto"
	"github.com/plbureau/labplanner-api/internal/models"
	appErrors "github.com/plbureau/labplanner-api/pkg/errors"
)

type mockRequestRepo struct {
	items   map[string]*models.MaterialRequest
	created []*models.MaterialRequest
	deleted []string
}

func (m *mockRequestRepo) List(ctx context.Context, filter models.MaterialRequestFilter) ([]models.MaterialRequest, int, error) {
	out := make([]models.MaterialRequest, 0, len(m.items))
	for _, r := range m.items {
		out = append(out, *r)
	}
	return out, len(out), nil
}

func (m *mockRequestRepo) FindByID(ctx context.Context, id string) (*models.MaterialRequest, error) {
	if r, ok := m.items[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockRequestRepo) Create(ctx context.Context, request *models.MaterialRequest) error {
	if m.items == nil {
		m.items = make(map[string]*models.MaterialRequest)
	}
	if request.ID == "" {
		request.ID = "generated"
	}
	cp := *request
	m.items[request.ID] = &cp
	m.created = append(m.created, &cp)
	return nil
}

func (m *mockRequestRepo) Update(ctx context.Context, request *models.MaterialRequest) error {
	cp := *request
	m.items[request.ID] = &cp
	return nil
}

func (m *mockRequestRepo) Delete(ctx context.Context, id string) error {
	delete(m.items, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockTeacherLookup struct {
	known map[string]bool
}

func (m *mockTeacherLookup) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	if m.known[id] {
		return &models.Teacher{ID: id, FullName: "Durand", Active: true}, nil
	}
	return nil, sql.ErrNoRows
}

const testTeacherID = "6fa459ea-ee8a-3ca4-894e-db77e160355e"

func newRequestService(repo *mockRequestRepo, teachers *mockTeacherLookup, now time.Time) *MaterialRequestService {
	svc := NewMaterialRequestService(repo, teachers, DefaultDeadlinePolicy(), validator.New(), zap.NewNop())
	svc.now = func() time.Time { return now }
	return svc
}

func validCreatePayload() dto.CreateMaterialRequest {
	return dto.CreateMaterialRequest{
		TeacherID:         testTeacherID,
		Level:             "1ère ES",
		Title:             "Titrage acide-base",
		Date:              "2026-09-14",
		StartToken:        "9h30",
		SelectedMaterials: "hotte, évier",
	}
}

func TestMaterialRequestCreate(t *testing.T) {
	repo := &mockRequestRepo{}
	teachers := &mockTeacherLookup{known: map[string]bool{testTeacherID: true}}
	// Monday the week before leaves four full working days.
	svc := newRequestService(repo, teachers, time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC))

	request, err := svc.Create(context.Background(), validCreatePayload())
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, request.Status)
	assert.Equal(t, "9h30", request.StartToken)
	assert.Len(t, repo.created, 1)
}

func TestMaterialRequestCreateRejectsShortNotice(t *testing.T) {
	repo := &mockRequestRepo{}
	teachers := &mockTeacherLookup{known: map[string]bool{testTeacherID: true}}
	// Submitting the Friday before leaves no full working day ahead of
	// Monday's course.
	svc := newRequestService(repo, teachers, time.Date(2026, 9, 11, 8, 0, 0, 0, time.UTC))

	_, err := svc.Create(context.Background(), validCreatePayload())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrDeadlinePassed.Code, appErr.Code)
	assert.Empty(t, repo.created)
}

func TestMaterialRequestCreateRejectsOffGridStart(t *testing.T) {
	repo := &mockRequestRepo{}
	teachers := &mockTeacherLookup{known: map[string]bool{testTeacherID: true}}
	svc := newRequestService(repo, teachers, time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC))

	payload := validCreatePayload()
	payload.StartToken = "9h20"
	_, err := svc.Create(context.Background(), payload)
	require.Error(t, err)
	assert.Empty(t, repo.created)
}

func TestMaterialRequestCreateUnknownTeacher(t *testing.T) {
	repo := &mockRequestRepo{}
	teachers := &mockTeacherLookup{}
	svc := newRequestService(repo, teachers, time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC))

	_, err := svc.Create(context.Background(), validCreatePayload())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestMaterialRequestUpdatePendingOnly(t *testing.T) {
	repo := &mockRequestRepo{
		items: map[string]*models.MaterialRequest{
			"r1": {ID: "r1", Status: models.RequestStatusPlanned, StartToken: "9h00"},
		},
	}
	svc := newRequestService(repo, &mockTeacherLookup{}, time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC))

	token := "10h00"
	_, err := svc.Update(context.Background(), "r1", dto.UpdateMaterialRequest{StartToken: &token})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
}

func TestMaterialRequestUpdateMergesFields(t *testing.T) {
	repo := &mockRequestRepo{
		items: map[string]*models.MaterialRequest{
			"r1": {ID: "r1", Status: models.RequestStatusPending, StartToken: "9h00", Title: "TP optique", Date: time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)},
		},
	}
	svc := newRequestService(repo, &mockTeacherLookup{}, time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC))

	token := "10h30"
	updated, err := svc.Update(context.Background(), "r1", dto.UpdateMaterialRequest{StartToken: &token})
	require.NoError(t, err)
	assert.Equal(t, "10h30", updated.StartToken)
	assert.Equal(t, "TP optique", updated.Title)
}

func TestMaterialRequestUpdateRejectsShortNotice(t *testing.T) {
	repo := &mockRequestRepo{
		items: map[string]*models.MaterialRequest{
			"r1": {ID: "r1", Status: models.RequestStatusPending, StartToken: "9h00", Date: time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)},
		},
	}
	// The course is next Monday; by Friday a pending request can no
	// longer be reworked.
	svc := newRequestService(repo, &mockTeacherLookup{}, time.Date(2026, 9, 11, 8, 0, 0, 0, time.UTC))

	token := "10h30"
	_, err := svc.Update(context.Background(), "r1", dto.UpdateMaterialRequest{StartToken: &token})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrDeadlinePassed.Code, appErr.Code)
	assert.Equal(t, "9h00", repo.items["r1"].StartToken)
}

func TestMaterialRequestDelete(t *testing.T) {
	repo := &mockRequestRepo{
		items: map[string]*models.MaterialRequest{
			"r1": {ID: "r1", Status: models.RequestStatusPending},
		},
	}
	svc := newRequestService(repo, &mockTeacherLookup{}, time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC))

	require.NoError(t, svc.Delete(context.Background(), "r1"))
	assert.Equal(t, []string{"r1"}, repo.deleted)

	err := svc.Delete(context.Background(), "r1")
	require.Error(t, err)
}
