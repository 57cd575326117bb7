package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/plbureau/labplanner-api/internal/models"
	"github.com/plbureau/labplanner-api/internal/planner"
	"github.com/plbureau/labplanner-api/pkg/export"
	"github.com/plbureau/labplanner-api/pkg/storage"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type exportPlanningSource interface {
	FindByDate(ctx context.Context, date time.Time) (*models.Planning, error)
	ListEntries(ctx context.Context, planningID string) ([]models.PlanningEntry, error)
}

type exportRoomSource interface {
	ListActive(ctx context.Context) ([]models.Room, error)
}

type exportRequestSource interface {
	ListByDate(ctx context.Context, date time.Time) ([]models.MaterialRequest, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// ExportService builds report datasets and persists rendered files.
type ExportService struct {
	plannings exportPlanningSource
	rooms     exportRoomSource
	requests  exportRequestSource
	storage   fileStorage
	csv       csvRenderer
	pdf       pdfRenderer
	signer    *storage.SignedURLSigner
	logger    *zap.Logger
	cfg       ExportConfig
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// NewExportService constructs an ExportService.
func NewExportService(plannings exportPlanningSource, rooms exportRoomSource, requests exportRequestSource, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		plannings: plannings,
		rooms:     rooms,
		requests:  requests,
		storage:   store,
		csv:       csv,
		pdf:       pdf,
		signer:    signer,
		logger:    logger,
		cfg:       cfg,
	}
}

// Generate builds a dataset according to the job definition and stores the
// rendered export.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, title, err := s.buildDataset(ctx, job)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	signedURL := strings.TrimRight(s.cfg.APIPrefix, "/")
	if signedURL == "" {
		signedURL = "/api/v1"
	}
	signedURL = fmt.Sprintf("%s/export/%s", signedURL, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ReportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	datePart := sanitizeFilename(job.Params.Date)
	return fmt.Sprintf("%s_%s_%s.%s", strings.ToLower(string(job.Type)), datePart, timestamp, job.Params.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ReportJob) (export.Dataset, string, error) {
	switch job.Type {
	case models.ReportTypePlanning:
		return s.buildPlanningDataset(ctx, job.Params)
	case models.ReportTypeRooms:
		return s.buildRoomsDataset(ctx)
	case models.ReportTypeRequests:
		return s.buildRequestsDataset(ctx, job.Params)
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported report type %s", job.Type)
	}
}

func (s *ExportService) buildPlanningDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	date, err := parseDate(params.Date)
	if err != nil {
		return export.Dataset{}, "", err
	}
	planning, err := s.plannings.FindByDate(ctx, date)
	if err != nil {
		return export.Dataset{}, "", fmt.Errorf("load planning: %w", err)
	}
	entries, err := s.plannings.ListEntries(ctx, planning.ID)
	if err != nil {
		return export.Dataset{}, "", err
	}

	rows := make([]map[string]string, 0, len(entries))
	for _, e := range entries {
		room := e.RoomName
		if !e.Assigned {
			room = "non placé"
		}
		rows = append(rows, map[string]string{
			"Début":      planner.FormatClock(e.StartMinutes),
			"Fin":        planner.FormatClock(e.StartMinutes + e.DurationMinutes),
			"Enseignant": e.TeacherName,
			"Classe":     e.Level,
			"Intitulé":   e.Title,
			"Salle":      room,
		})
	}
	dataset := export.Dataset{
		Headers:   []string{"Début", "Fin", "Enseignant", "Classe", "Intitulé", "Salle"},
		Rows:      rows,
		Landscape: true,
	}
	title := fmt.Sprintf("Planning du %s", params.Date)
	return dataset, title, nil
}

func (s *ExportService) buildRoomsDataset(ctx context.Context) (export.Dataset, string, error) {
	rooms, err := s.rooms.ListActive(ctx)
	if err != nil {
		return export.Dataset{}, "", err
	}
	rows := make([]map[string]string, 0, len(rooms))
	for _, r := range rooms {
		rows = append(rows, map[string]string{
			"Salle":        r.Name,
			"Type":         r.Type,
			"Capacité":     fmt.Sprintf("%d", r.Capacity),
			"Ordinateurs":  fmt.Sprintf("%d", r.Computers),
			"Éviers":       fmt.Sprintf("%d", r.Sinks),
			"Hottes":       fmt.Sprintf("%d", r.FumeHoods),
			"Bancs opt.":   fmt.Sprintf("%d", r.OpticalBenches),
			"Oscillo.":     fmt.Sprintf("%d", r.Oscilloscopes),
			"Becs élec.":   fmt.Sprintf("%d", r.ElectricBurners),
			"Filtration":   fmt.Sprintf("%d", r.FiltrationSupports),
			"Imprimantes":  fmt.Sprintf("%d", r.Printers),
			"Examen":       boolFR(r.ExamCapable),
		})
	}
	dataset := export.Dataset{
		Headers:   []string{"Salle", "Type", "Capacité", "Ordinateurs", "Éviers", "Hottes", "Bancs opt.", "Oscillo.", "Becs élec.", "Filtration", "Imprimantes", "Examen"},
		Rows:      rows,
		Landscape: true,
	}
	return dataset, "Catalogue des salles", nil
}

func (s *ExportService) buildRequestsDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	date, err := parseDate(params.Date)
	if err != nil {
		return export.Dataset{}, "", err
	}
	requests, err := s.requests.ListByDate(ctx, date)
	if err != nil {
		return export.Dataset{}, "", err
	}
	rows := make([]map[string]string, 0, len(requests))
	for _, r := range requests {
		rows = append(rows, map[string]string{
			"Enseignant": r.TeacherName,
			"Classe":     r.Level,
			"Début":      r.StartToken,
			"Matériel":   r.SelectedMaterials,
			"Statut":     r.Status,
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Enseignant", "Classe", "Début", "Matériel", "Statut"},
		Rows:    rows,
	}
	title := fmt.Sprintf("Demandes du %s", params.Date)
	return dataset, title, nil
}

func boolFR(b bool) string {
	if b {
		return "oui"
	}
	return "non"
}
