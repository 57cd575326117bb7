package service

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/plbureau/labplanner-api/internal/dto"
	"github.com/plbureau/labplanner-api/internal/models"
	"github.com/plbureau/labplanner-api/internal/repository"
	appErrors "github.com/plbureau/labplanner-api/pkg/errors"
	"github.com/plbureau/labplanner-api/pkg/jobs"
)

type reportJobStore interface {
	Create(ctx context.Context, job *models.ReportJob) error
	GetByID(ctx context.Context, id string) (*models.ReportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error
	ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error)
	ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type exportGenerator interface {
	Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error)
}

// ReportService orchestrates report job lifecycle management.
type ReportService struct {
	repo     reportJobStore
	queue    jobDispatcher
	exporter *ExportService
	logger   *zap.Logger
	cfg      ReportServiceConfig
}

// ReportServiceConfig governs queue recovery and cleanup.
type ReportServiceConfig struct {
	ResultTTL       time.Duration
	CleanupInterval time.Duration
	MaxRetries      int
}

// ReportDownload aggregates resolved download data.
type ReportDownload struct {
	File      *os.File
	Filename  string
	Format    models.ReportFormat
	ExpiresAt time.Time
}

// NewReportService constructs the report service.
func NewReportService(repo reportJobStore, queue jobDispatcher, exporter *ExportService, logger *zap.Logger, cfg ReportServiceConfig) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	return &ReportService{
		repo:     repo,
		queue:    queue,
		exporter: exporter,
		logger:   logger,
		cfg:      cfg,
	}
}

// CreateJob validates request, persists job, and enqueues processing.
func (s *ReportService) CreateJob(ctx context.Context, req dto.ReportRequest) (*dto.ReportJobResponse, error) {
	if err := validateReportRequest(req); err != nil {
		return nil, err
	}
	job := &models.ReportJob{
		Type:     req.Type,
		Params:   models.ReportJobParams{Date: req.Date, Format: req.Format},
		Status:   models.ReportStatusQueued,
		Progress: 0,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create report job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(job.Type)}); err != nil {
		status := models.ReportStatusFailed
		msg := "failed to enqueue job"
		now := time.Now().UTC()
		progress := 100
		_ = s.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
			Status:       &status,
			Progress:     &progress,
			ErrorMessage: &msg,
			FinishedAt:   &now,
		})
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue report job")
	}
	return &dto.ReportJobResponse{ID: job.ID, Status: job.Status, Progress: job.Progress}, nil
}

// GetStatus exposes job metadata to clients.
func (s *ReportService) GetStatus(ctx context.Context, id string) (*dto.ReportStatusResponse, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report job")
	}
	resp := &dto.ReportStatusResponse{
		ID:       job.ID,
		Status:   job.Status,
		Progress: job.Progress,
	}
	if job.ResultURL != nil {
		resp.ResultURL = job.ResultURL
	}
	if job.ErrorMessage != nil && *job.ErrorMessage != "" {
		resp.Error = job.ErrorMessage
	}
	return resp, nil
}

// ResolveDownload validates token and opens the stored export file.
func (s *ReportService) ResolveDownload(ctx context.Context, token string) (*ReportDownload, error) {
	jobID, relPath, expiresAt, err := s.exporter.ParseToken(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "invalid or expired download token")
	}
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report job")
	}
	if job.ResultURL == nil || !strings.HasSuffix(*job.ResultURL, token) {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "token mismatch")
	}
	if job.Status != models.ReportStatusFinished {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "report not ready")
	}
	file, err := s.exporter.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export file")
	}
	filename := filepath.Base(relPath)
	return &ReportDownload{
		File:      file,
		Filename:  filename,
		Format:    job.Params.Format,
		ExpiresAt: expiresAt,
	}, nil
}

// RecoverPendingJobs replays queued jobs (e.g. after process restart).
func (s *ReportService) RecoverPendingJobs(ctx context.Context) {
	pending, err := s.repo.ListQueued(ctx, 50)
	if err != nil {
		s.logger.Sugar().Warnw("failed to recover queued report jobs", "error", err)
		return
	}
	for _, job := range pending {
		if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(job.Type)}); err != nil {
			s.logger.Sugar().Warnw("failed to requeue pending job", "job_id", job.ID, "error", err)
		}
	}
}

// StartCleanup boots a goroutine that purges expired exports periodically.
func (s *ReportService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.cleanupExpired(ctx)
			}
		}
	}()
}

func (s *ReportService) cleanupExpired(ctx context.Context) {
	cutoff := time.Now().Add(-s.cfg.ResultTTL)
	expired, err := s.repo.ListFinishedBefore(ctx, cutoff, 100)
	if err != nil {
		s.logger.Sugar().Warnw("cleanup list failed", "error", err)
		return
	}
	for _, job := range expired {
		if job.ResultURL == nil {
			continue
		}
		token := extractToken(*job.ResultURL)
		if token == "" {
			continue
		}
		_, relPath, _, err := s.exporter.ParseToken(token, true)
		if err != nil {
			continue
		}
		if err := s.exporter.Delete(relPath); err != nil {
			s.logger.Sugar().Warnw("cleanup delete failed", "job_id", job.ID, "error", err)
		}
	}
	if _, err := s.exporter.Cleanup(s.cfg.ResultTTL); err != nil {
		s.logger.Sugar().Warnw("filesystem cleanup failed", "error", err)
	}
}

func validateReportRequest(req dto.ReportRequest) error {
	if !isValidReportType(req.Type) {
		return appErrors.Clone(appErrors.ErrValidation, "unsupported report type")
	}
	if !isValidFormat(req.Format) {
		return appErrors.Clone(appErrors.ErrValidation, "unsupported report format")
	}
	if req.Type != models.ReportTypeRooms {
		if req.Date == "" {
			return appErrors.Clone(appErrors.ErrValidation, "date is required")
		}
		if _, err := parseDate(req.Date); err != nil {
			return appErrors.Clone(appErrors.ErrValidation, "invalid date")
		}
	}
	return nil
}

func isValidReportType(t models.ReportType) bool {
	switch t {
	case models.ReportTypePlanning, models.ReportTypeRooms, models.ReportTypeRequests:
		return true
	default:
		return false
	}
}

func isValidFormat(f models.ReportFormat) bool {
	return f == models.ReportFormatCSV || f == models.ReportFormatPDF
}

func extractToken(url string) string {
	if url == "" {
		return ""
	}
	parts := strings.Split(url, "/")
	return parts[len(parts)-1]
}

// ReportWorker bridges queue jobs to ExportService.
type ReportWorker struct {
	repo       reportJobStore
	exporter   exportGenerator
	logger     *zap.Logger
	maxRetries int
}

// NewReportWorker constructs a worker.
func NewReportWorker(repo reportJobStore, exporter exportGenerator, maxRetries int, logger *zap.Logger) *ReportWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &ReportWorker{
		repo:       repo,
		exporter:   exporter,
		logger:     logger,
		maxRetries: maxRetries,
	}
}

// Handle processes a queue job.
func (w *ReportWorker) Handle(ctx context.Context, job jobs.Job) error {
	record, err := w.repo.GetByID(ctx, job.ID)
	if err != nil {
		return err
	}
	processing := models.ReportStatusProcessing
	progress := 10
	if err := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
		Status:   &processing,
		Progress: &progress,
	}); err != nil {
		return err
	}
	result, err := w.exporter.Generate(ctx, record)
	if err != nil {
		msg := err.Error()
		if job.Attempt >= w.maxRetries {
			failed := models.ReportStatusFailed
			progress = 100
			now := time.Now().UTC()
			if updateErr := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
				Status:       &failed,
				Progress:     &progress,
				ErrorMessage: &msg,
				FinishedAt:   &now,
			}); updateErr != nil {
				w.logger.Sugar().Warnw("failed to mark job failed", "job_id", job.ID, "error", updateErr)
			}
		} else {
			queued := models.ReportStatusQueued
			reset := 0
			if updateErr := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
				Status:       &queued,
				Progress:     &reset,
				ErrorMessage: &msg,
			}); updateErr != nil {
				w.logger.Sugar().Warnw("failed to mark job queued", "job_id", job.ID, "error", updateErr)
			}
		}
		return err
	}
	finished := models.ReportStatusFinished
	progress = 100
	now := time.Now().UTC()
	url := result.URL
	clear := ""
	if err := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
		Status:       &finished,
		Progress:     &progress,
		ResultURL:    &url,
		ErrorMessage: &clear,
		FinishedAt:   &now,
	}); err != nil {
		w.logger.Sugar().Warnw("failed to mark job finished", "job_id", job.ID, "error", err)
		return err
	}
	return nil
}
