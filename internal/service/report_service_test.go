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
	"github.com/plbureau/labplanner-api/internal/repository"
	"github.com/plbureau/labplanner-api/pkg/jobs"
)

type memoryReportStore struct {
	items map[string]*models.ReportJob
}

func newMemoryReportStore() *memoryReportStore {
	return &memoryReportStore{items: make(map[string]*models.ReportJob)}
}

func (m *memoryReportStore) Create(ctx context.Context, job *models.ReportJob) error {
	if job.ID == "" {
		job.ID = "job-gen"
	}
	cp := *job
	m.items[job.ID] = &cp
	return nil
}

func (m *memoryReportStore) GetByID(ctx context.Context, id string) (*models.ReportJob, error) {
	if job, ok := m.items[id]; ok {
		cp := *job
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *memoryReportStore) Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error {
	job, ok := m.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Progress != nil {
		job.Progress = *params.Progress
	}
	if params.ResultURL != nil {
		job.ResultURL = params.ResultURL
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	if params.FinishedAt != nil {
		job.FinishedAt = params.FinishedAt
	}
	return nil
}

func (m *memoryReportStore) ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error) {
	var out []models.ReportJob
	for _, job := range m.items {
		if job.Status == models.ReportStatusQueued {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (m *memoryReportStore) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error) {
	return nil, nil
}

type recordingDispatcher struct {
	enqueued []jobs.Job
	err      error
}

func (d *recordingDispatcher) Enqueue(job jobs.Job) error {
	if d.err != nil {
		return d.err
	}
	d.enqueued = append(d.enqueued, job)
	return nil
}

type exportGeneratorStub struct {
	result *ExportResult
	err    error
}

func (g *exportGeneratorStub) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

func TestReportServiceCreateJob(t *testing.T) {
	store := newMemoryReportStore()
	dispatcher := &recordingDispatcher{}
	svc := NewReportService(store, dispatcher, nil, zap.NewNop(), ReportServiceConfig{})

	resp, err := svc.CreateJob(context.Background(), dto.ReportRequest{
		Type:   models.ReportTypePlanning,
		Date:   "2026-09-14",
		Format: models.ReportFormatCSV,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusQueued, resp.Status)
	require.Len(t, dispatcher.enqueued, 1)
	assert.Equal(t, resp.ID, dispatcher.enqueued[0].ID)
}

func TestReportServiceCreateJobValidation(t *testing.T) {
	svc := NewReportService(newMemoryReportStore(), &recordingDispatcher{}, nil, zap.NewNop(), ReportServiceConfig{})

	cases := []struct {
		name string
		req  dto.ReportRequest
	}{
		{"bad type", dto.ReportRequest{Type: "grades", Format: models.ReportFormatCSV, Date: "2026-09-14"}},
		{"bad format", dto.ReportRequest{Type: models.ReportTypePlanning, Format: "xlsx", Date: "2026-09-14"}},
		{"missing date", dto.ReportRequest{Type: models.ReportTypePlanning, Format: models.ReportFormatCSV}},
		{"bad date", dto.ReportRequest{Type: models.ReportTypeRequests, Format: models.ReportFormatPDF, Date: "14/09/2026"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateJob(context.Background(), tc.req)
			require.Error(t, err)
		})
	}
}

func TestReportServiceCreateJobRoomsNeedsNoDate(t *testing.T) {
	store := newMemoryReportStore()
	svc := NewReportService(store, &recordingDispatcher{}, nil, zap.NewNop(), ReportServiceConfig{})

	_, err := svc.CreateJob(context.Background(), dto.ReportRequest{
		Type:   models.ReportTypeRooms,
		Format: models.ReportFormatPDF,
	})
	require.NoError(t, err)
}

func TestReportServiceCreateJobEnqueueFailure(t *testing.T) {
	store := newMemoryReportStore()
	dispatcher := &recordingDispatcher{err: errors.New("queue closed")}
	svc := NewReportService(store, dispatcher, nil, zap.NewNop(), ReportServiceConfig{})

	_, err := svc.CreateJob(context.Background(), dto.ReportRequest{
		Type:   models.ReportTypePlanning,
		Date:   "2026-09-14",
		Format: models.ReportFormatCSV,
	})
	require.Error(t, err)

	stored, err := store.GetByID(context.Background(), "job-gen")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusFailed, stored.Status)
}

func TestReportServiceGetStatusNotFound(t *testing.T) {
	svc := NewReportService(newMemoryReportStore(), &recordingDispatcher{}, nil, zap.NewNop(), ReportServiceConfig{})

	_, err := svc.GetStatus(context.Background(), "missing")
	require.Error(t, err)
}

func TestReportWorkerHandleSuccess(t *testing.T) {
	store := newMemoryReportStore()
	job := &models.ReportJob{ID: "job-1", Type: models.ReportTypePlanning, Status: models.ReportStatusQueued}
	require.NoError(t, store.Create(context.Background(), job))

	worker := NewReportWorker(store, &exportGeneratorStub{result: &ExportResult{URL: "/api/v1/export/token"}}, 3, zap.NewNop())
	require.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: "job-1"}))

	updated, err := store.GetByID(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusFinished, updated.Status)
	assert.Equal(t, 100, updated.Progress)
	require.NotNil(t, updated.ResultURL)
	assert.Equal(t, "/api/v1/export/token", *updated.ResultURL)
}

func TestReportWorkerHandleRetryThenFail(t *testing.T) {
	store := newMemoryReportStore()
	require.NoError(t, store.Create(context.Background(), &models.ReportJob{ID: "job-1", Type: models.ReportTypePlanning}))

	worker := NewReportWorker(store, &exportGeneratorStub{err: errors.New("render failed")}, 2, zap.NewNop())

	// Early attempts park the job back in the queue.
	require.Error(t, worker.Handle(context.Background(), jobs.Job{ID: "job-1", Attempt: 0}))
	job, err := store.GetByID(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusQueued, job.Status)

	// The final attempt marks it failed.
	require.Error(t, worker.Handle(context.Background(), jobs.Job{ID: "job-1", Attempt: 2}))
	job, err = store.GetByID(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusFailed, job.Status)
	require.NotNil(t, job.ErrorMessage)
}
