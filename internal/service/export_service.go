package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/study-planner-api/internal/dto"
	"github.com/noah-isme/study-planner-api/internal/models"
	"github.com/noah-isme/study-planner-api/pkg/clock"
	appErrors "github.com/noah-isme/study-planner-api/pkg/errors"
	"github.com/noah-isme/study-planner-api/pkg/export"
)

// Supported export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

var timetableHeaders = []string{"Date", "Day", "Start", "End", "Type", "Title", "Subject", "Priority", "Completed"}

type tableRenderer interface {
	Render(table export.Table) ([]byte, error)
}

// ExportFile is a rendered timetable ready to be sent as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders a student's timetable as CSV or PDF.
type ExportService struct {
	entries entryRangeReader
	csv     tableRenderer
	pdf     tableRenderer
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers use the defaults.
func NewExportService(entries entryRangeReader, csv, pdf tableRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter(1.2, 1.2, 0.8, 0.8, 0.9, 2.5, 1.5, 1, 1)
	}
	return &ExportService{entries: entries, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// Export renders the entries of the query range. Blank dates select the current week.
func (s *ExportService) Export(ctx context.Context, query dto.ExportQuery) (*ExportFile, error) {
	if query.StudentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student_id is required")
	}
	format := strings.ToLower(strings.TrimSpace(query.Format))
	if format == "" {
		format = ExportFormatCSV
	}

	var (
		renderer    tableRenderer
		contentType string
	)
	switch format {
	case ExportFormatCSV:
		renderer, contentType = s.csv, export.CSVContentType
	case ExportFormatPDF:
		renderer, contentType = s.pdf, export.PDFContentType
	default:
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported export format %q", query.Format))
	}

	start, end := resolveRange(query.StartDate, query.EndDate, s.now())
	entries, err := s.entries.ListByStudentRange(ctx, query.StudentID, start, end)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entries")
	}

	table := timetable(start, end, entries)
	data, err := renderer.Render(table)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	s.logger.Debug("timetable exported",
		zap.String("student_id", query.StudentID),
		zap.String("format", format),
		zap.Int("rows", len(table.Rows)),
	)

	return &ExportFile{
		Filename:    fmt.Sprintf("timetable_%s_%s.%s", clock.FormatDate(start), clock.FormatDate(end), format),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func timetable(start, end time.Time, entries []models.ScheduleEntry) export.Table {
	table := export.Table{
		Title:   fmt.Sprintf("Study timetable %s to %s", clock.FormatDate(start), clock.FormatDate(end)),
		Headers: timetableHeaders,
		Rows:    make([][]string, 0, len(entries)),
	}
	for _, entry := range entries {
		subject := ""
		if entry.Subject != nil {
			subject = *entry.Subject
		}
		completed := "no"
		if entry.Completed {
			completed = "yes"
		}
		table.Rows = append(table.Rows, []string{
			clock.FormatDate(entry.Date),
			clock.WeekdayName(entry.Date),
			clock.FormatTime(entry.StartTime),
			clock.FormatTime(entry.EndTime),
			string(entry.Kind),
			entry.Title,
			subject,
			entry.Priority.String(),
			completed,
		})
	}
	return table
}
