package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/od-portal-api/internal/models"
	appErrors "github.com/noah-isme/od-portal-api/pkg/errors"
	"github.com/noah-isme/od-portal-api/pkg/export"
)

type odReportRepository interface {
	ListDetailed(ctx context.Context, department string) ([]models.ODRequestDetail, error)
}

// ExportFormat selects the report export renderer.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportResult carries a rendered report attachment.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ReportService builds admin-only aggregates and exports over OD requests.
// Summaries are a single pass over the matching rows; the result set is
// unbounded by design.
type ReportService struct {
	repo     odReportRepository
	cache    *CacheService
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewReportService constructs the report service.
func NewReportService(repo odReportRepository, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		repo:     repo,
		cache:    cache,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Summary aggregates counts by status, department and category, scoped to
// the admin's department unless the whitelist entry spans all departments.
// The aggregate is cached under a short TTL and invalidated whenever an OD
// request is created or reviewed.
func (s *ReportService) Summary(ctx context.Context, scope *models.WhitelistEntry) (*models.ODSummary, error) {
	department := scopedDepartment(scope)

	cacheKey := summaryCacheKey(department)
	var cached models.ODSummary
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	rows, err := s.repo.ListDetailed(ctx, department)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load od requests for summary")
	}

	summary := models.NewODSummary()
	for _, row := range rows {
		summary.Total++
		summary.ByStatus[string(row.Status)]++
		summary.ByDepartment[row.Department]++
		summary.ByCategory[row.Category]++
	}

	if err := s.cache.Set(ctx, cacheKey, summary, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache report summary", zap.Error(err))
	}

	return summary, nil
}

// Export renders all matching OD requests as a CSV or PDF attachment.
func (s *ReportService) Export(ctx context.Context, scope *models.WhitelistEntry, format ExportFormat) (*ExportResult, error) {
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}

	department := scopedDepartment(scope)
	rows, err := s.repo.ListDetailed(ctx, department)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load od requests for export")
	}

	dataset := buildODDataset(rows)
	stamp := time.Now().UTC().Format("20060102")

	switch format {
	case ExportFormatPDF:
		payload, err := s.pdf.Render(dataset, "OD Requests")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("od-requests-%s.pdf", stamp),
			ContentType: "application/pdf",
			Payload:     payload,
		}, nil
	default:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("od-requests-%s.csv", stamp),
			ContentType: "text/csv",
			Payload:     payload,
		}, nil
	}
}

func scopedDepartment(scope *models.WhitelistEntry) string {
	if scope == nil || scope.AllDepartments() {
		return ""
	}
	return scope.Department
}

func summaryCacheKey(department string) string {
	if department == "" {
		return "reports:summary:all"
	}
	return "reports:summary:" + department
}

func buildODDataset(rows []models.ODRequestDetail) export.Dataset {
	dataset := export.Dataset{
		Headers: []string{"ID", "Name", "Email", "Department", "Year", "Date", "Periods", "Category", "Status", "Remarks", "Reviewed By", "Reviewed At", "Submitted At"},
	}
	for _, row := range rows {
		reviewedBy := ""
		if row.ReviewedBy != nil {
			reviewedBy = *row.ReviewedBy
		}
		reviewedAt := ""
		if row.ReviewedAt != nil {
			reviewedAt = row.ReviewedAt.UTC().Format(time.RFC3339)
		}
		dataset.Rows = append(dataset.Rows, []string{
			row.ID,
			row.UserName,
			row.UserEmail,
			row.Department,
			strconv.Itoa(row.Year),
			row.Date.Format("2006-01-02"),
			formatPeriods(row.Periods),
			row.Category,
			string(row.Status),
			row.Remarks,
			reviewedBy,
			reviewedAt,
			row.SubmittedAt.UTC().Format(time.RFC3339),
		})
	}
	return dataset
}

func formatPeriods(periods []int64) string {
	parts := make([]string, 0, len(periods))
	for _, p := range periods {
		parts = append(parts, strconv.FormatInt(p, 10))
	}
	return strings.Join(parts, ",")
}
