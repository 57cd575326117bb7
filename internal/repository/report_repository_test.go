package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plbureau/labplanner-api/internal/models"
)

func TestReportRepositoryCreateFillsDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectExec("INSERT INTO report_jobs").
		WillReturnResult(sqlmock.NewResult(1, 1))

	job := &models.ReportJob{
		Type:   models.ReportTypePlanning,
		Params: models.ReportJobParams{Date: "2026-09-14", Format: models.ReportFormatCSV},
	}
	require.NoError(t, repo.Create(context.Background(), job))
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, models.ReportStatusQueued, job.Status)
	assert.False(t, job.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{"id", "type", "params", "status", "progress", "result_url", "created_at", "finished_at", "error_message"}).
		AddRow("job-1", "planning", []byte(`{"date":"2026-09-14","format":"csv"}`), "FINISHED", 100, "/api/v1/export/token", time.Now(), time.Now(), nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM report_jobs WHERE id = $1")).
		WithArgs("job-1").
		WillReturnRows(rows)

	job, err := repo.GetByID(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusFinished, job.Status)
	assert.Equal(t, "2026-09-14", job.Params.Date)
	assert.Equal(t, models.ReportFormatCSV, job.Params.Format)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryUpdatePartial(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	status := models.ReportStatusProcessing
	progress := 10
	mock.ExpectExec(regexp.QuoteMeta("UPDATE report_jobs SET status = $1, progress = $2 WHERE id = $3")).
		WithArgs(status, progress, "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), "job-1", UpdateReportJobParams{Status: &status, Progress: &progress})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryUpdateNoFieldsIsNoop(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	require.NoError(t, repo.Update(context.Background(), "job-1", UpdateReportJobParams{}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryListQueued(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{"id", "type", "params", "status", "progress", "result_url", "created_at", "finished_at", "error_message"}).
		AddRow("job-1", "planning", []byte(`{"format":"csv"}`), "QUEUED", 0, nil, time.Now(), nil, nil).
		AddRow("job-2", "rooms", []byte(`{"format":"pdf"}`), "QUEUED", 0, nil, time.Now(), nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'QUEUED' ORDER BY created_at ASC LIMIT $1")).
		WithArgs(50).
		WillReturnRows(rows)

	jobs, err := repo.ListQueued(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, models.ReportTypeRooms, jobs[1].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryListFinishedBefore(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	cutoff := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	finished := cutoff.Add(-2 * time.Hour)
	rows := sqlmock.NewRows([]string{"id", "type", "params", "status", "progress", "result_url", "created_at", "finished_at", "error_message"}).
		AddRow("job-1", "planning", []byte(`{"format":"csv"}`), "FINISHED", 100, "/api/v1/export/token", finished.Add(-time.Hour), finished, nil)
	mock.ExpectQuery(regexp.QuoteMeta("finished_at < $1 ORDER BY finished_at ASC LIMIT $2")).
		WithArgs(cutoff, 100).
		WillReturnRows(rows)

	jobs, err := repo.ListFinishedBefore(context.Background(), cutoff, 100)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.NotNil(t, jobs[0].FinishedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
