package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/plbureau/labplanner-api/internal/models"
	"github.com/plbureau/labplanner-api/pkg/export"
	"github.com/plbureau/labplanner-api/pkg/storage"
)

type planningSourceStub struct{}

func (planningSourceStub) FindByDate(ctx context.Context, date time.Time) (*models.Planning, error) {
	return &models.Planning{ID: "pl-1", Date: date, Outcome: "optimal", SolverStatus: "OPTIMAL"}, nil
}

func (planningSourceStub) ListEntries(ctx context.Context, planningID string) ([]models.PlanningEntry, error) {
	return []models.PlanningEntry{
		{TeacherName: "Durand", Level: "1ère ES", Title: "Titrage", RoomName: "C12", StartMinutes: 570, DurationMinutes: 110, Assigned: true},
		{TeacherName: "Martin", Level: "2nde", Title: "Optique", StartMinutes: 600, DurationMinutes: 55},
	}, nil
}

type roomSourceStub struct{}

func (roomSourceStub) ListActive(ctx context.Context) ([]models.Room, error) {
	return []models.Room{
		{Name: "C12", Type: "Chimie", Capacity: 24, Sinks: 8, FumeHoods: 4, ExamCapable: true},
	}, nil
}

type requestSourceStub struct{}

func (requestSourceStub) ListByDate(ctx context.Context, date time.Time) ([]models.MaterialRequest, error) {
	return []models.MaterialRequest{
		{TeacherName: "Durand", Level: "1ère ES", StartToken: "9h30", SelectedMaterials: "hotte, évier", Status: models.RequestStatusPending},
	}, nil
}

func newExportServiceForTest(t *testing.T) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	cfg := ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}
	svc := NewExportService(planningSourceStub{}, roomSourceStub{}, requestSourceStub{}, store, signer, cfg, zap.NewNop(), export.NewCSVExporter(), export.NewPDFExporter())
	return svc, store
}

func TestExportServiceGeneratePlanningCSV(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:     "job-1",
		Type:   models.ReportTypePlanning,
		Params: models.ReportJobParams{Date: "2026-09-14", Format: models.ReportFormatCSV},
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	require.NotEmpty(t, result.RelativePath)
	require.Contains(t, result.URL, "/export/")

	path := store.Path(result.RelativePath)
	payload, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(payload), "Durand")
	require.Contains(t, string(payload), "non placé")
}

func TestExportServiceGenerateRoomsPDF(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:     "job-2",
		Type:   models.ReportTypeRooms,
		Params: models.ReportJobParams{Format: models.ReportFormatPDF},
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	require.Equal(t, models.ReportFormatPDF, result.Format)

	path := filepath.Clean(store.Path(result.RelativePath))
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestExportServiceGenerateRequestsCSV(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:     "job-3",
		Type:   models.ReportTypeRequests,
		Params: models.ReportJobParams{Date: "2026-09-14", Format: models.ReportFormatCSV},
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)

	path := store.Path(result.RelativePath)
	payload, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(payload), "9h30")
}
