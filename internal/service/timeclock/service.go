package timeclock

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/service/file"
)

// SSE topic and event names published by the service
const (
	EventTopic          = "timeclock"
	EventProcessed      = "timeclock.processed"
	EventUploadFailed   = "timeclock.upload_failed"
	EventFilterApplied  = "timeclock.filter_applied"
	EventFilterCleared  = "timeclock.filter_cleared"
	EventResultRestored = "timeclock.restored"
)

type TimeclockServiceImpl struct {
	state       *State
	repo        timeclock.ResultSetRepository
	roster      timeclock.RosterProvider
	fileService file.FileService
	hub         *sse.Hub
	engine      *Engine
	exporter    *Exporter
	now         func() time.Time
}

func NewTimeclockService(
	state *State,
	repo timeclock.ResultSetRepository,
	roster timeclock.RosterProvider,
	fileService file.FileService,
	hub *sse.Hub,
	engine *Engine,
	exporter *Exporter,
) timeclock.TimeclockService {
	return &TimeclockServiceImpl{
		state:       state,
		repo:        repo,
		roster:      roster,
		fileService: fileService,
		hub:         hub,
		engine:      engine,
		exporter:    exporter,
		now:         time.Now,
	}
}

// ========== UPLOAD ==========

func (s *TimeclockServiceImpl) Upload(ctx context.Context, req timeclock.UploadRequest) (timeclock.UploadResponse, error) {
	if err := req.Validate(); err != nil {
		return timeclock.UploadResponse{}, err
	}
	if req.Size > timeclock.MaxUploadSize {
		return timeclock.UploadResponse{}, timeclock.ErrFileTooLarge
	}

	release, err := s.state.BeginUpload()
	if err != nil {
		return timeclock.UploadResponse{}, err
	}
	defer release()

	set, err := s.process(ctx, req)
	if err != nil {
		slog.Warn("Timeclock upload failed", "filename", req.Filename, "error", err)
		s.publish(EventUploadFailed, map[string]interface{}{
			"filename": req.Filename,
			"message":  err.Error(),
		})
		return timeclock.UploadResponse{}, err
	}

	s.state.Replace(set)

	summary := Summarize(set.Records)
	message := fmt.Sprintf("Processed %d records. %d late arrivals and %d lunch overruns detected.",
		summary.TotalRecords, summary.LateArrivals, summary.LunchViolations)

	slog.Info("Timeclock upload processed",
		"result_set_id", set.ID,
		"filename", set.SourceFilename,
		"records", summary.TotalRecords,
		"late_arrivals", summary.LateArrivals,
		"lunch_violations", summary.LunchViolations,
		"skipped_lines", set.SkippedLines,
	)

	response := timeclock.UploadResponse{
		ResultSetID:    set.ID,
		SourceFilename: set.SourceFilename,
		UploadedAt:     set.UploadedAt.Format(time.RFC3339),
		SkippedLines:   set.SkippedLines,
		Summary:        timeclock.NewSummaryResponse(summary),
		Message:        message,
	}
	s.publish(EventProcessed, response)

	return response, nil
}

// process builds and persists a result set. Nothing it does is visible in
// the current state until the caller calls Replace.
func (s *TimeclockServiceImpl) process(ctx context.Context, req timeclock.UploadRequest) (timeclock.ResultSet, error) {
	content, err := io.ReadAll(io.LimitReader(req.File, timeclock.MaxUploadSize+1))
	if err != nil {
		return timeclock.ResultSet{}, fmt.Errorf("%w: %v", timeclock.ErrUnreadableFile, err)
	}
	if len(content) > timeclock.MaxUploadSize {
		return timeclock.ResultSet{}, timeclock.ErrFileTooLarge
	}

	report, err := parseUpload(req.Filename, content)
	if err != nil {
		return timeclock.ResultSet{}, err
	}

	roster, err := s.roster.Roster(ctx)
	if err != nil {
		return timeclock.ResultSet{}, fmt.Errorf("failed to load employee roster: %w", err)
	}

	set := timeclock.ResultSet{
		ID:             newRecordID(),
		SourceFilename: filepath.Base(req.Filename),
		UploadedAt:     s.now().UTC(),
		SkippedLines:   report.SkippedLines,
		Records:        s.engine.Reconcile(report.Punches, roster),
	}

	if s.fileService != nil {
		path, err := s.fileService.ArchivePunchFile(ctx, set.ID, set.UploadedAt, bytes.NewReader(content), set.SourceFilename)
		if err != nil {
			slog.Warn("Failed to archive punch file", "result_set_id", set.ID, "error", err)
		} else {
			set.ArchivePath = path
		}
	}

	if err := s.repo.Save(ctx, set); err != nil {
		if set.ArchivePath != "" {
			if delErr := s.fileService.DeleteFile(ctx, set.ArchivePath); delErr != nil {
				slog.Warn("Failed to remove archived punch file", "path", set.ArchivePath, "error", delErr)
			}
		}
		return timeclock.ResultSet{}, fmt.Errorf("failed to save result set: %w", err)
	}

	return set, nil
}

func parseUpload(filename string, content []byte) (timeclock.ParseReport, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return timeclock.ParseReport{}, timeclock.ErrEmptyFile
	}

	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return ParseSpreadsheet(content)
	}
	return ParseText(string(content))
}

// ========== QUERIES ==========

func (s *TimeclockServiceImpl) ListRecords(ctx context.Context, req timeclock.ListRecordsRequest) (timeclock.ListRecordsResponse, error) {
	if err := req.Validate(); err != nil {
		return timeclock.ListRecordsResponse{}, err
	}

	_, view := s.state.Snapshot()
	return newListResponse(view, req.Type), nil
}

func (s *TimeclockServiceImpl) Summary(ctx context.Context) (timeclock.SummaryResponse, error) {
	_, view := s.state.Snapshot()
	return timeclock.NewSummaryResponse(view.Summary), nil
}

func (s *TimeclockServiceImpl) Filter(ctx context.Context, req timeclock.FilterRequest) (timeclock.ListRecordsResponse, error) {
	rng, err := req.Validate()
	if err != nil {
		return timeclock.ListRecordsResponse{}, err
	}

	view := s.state.ApplyFilter(rng)
	s.publish(EventFilterApplied, timeclock.NewSummaryResponse(view.Summary))

	return newListResponse(view, timeclock.RecordTypeAll), nil
}

func (s *TimeclockServiceImpl) ResetFilter(ctx context.Context) (timeclock.ListRecordsResponse, error) {
	view := s.state.ClearFilter()
	s.publish(EventFilterCleared, timeclock.NewSummaryResponse(view.Summary))

	return newListResponse(view, timeclock.RecordTypeAll), nil
}

// ========== EXPORT ==========

func (s *TimeclockServiceImpl) Export(ctx context.Context, req timeclock.ExportRequest) (timeclock.ExportResult, error) {
	if err := req.Validate(); err != nil {
		return timeclock.ExportResult{}, err
	}

	_, view := s.state.Snapshot()
	if len(view.Records) == 0 {
		return timeclock.ExportResult{}, timeclock.ErrNoDataToExport
	}

	result := timeclock.ExportResult{Filename: s.exporter.Filename(req.Format)}
	switch req.Format {
	case timeclock.ExportFormatCSV:
		result.ContentType = "text/csv; charset=utf-8"
		result.Content = s.exporter.CSV(view)
	case timeclock.ExportFormatXLSX:
		content, err := s.exporter.XLSX(view)
		if err != nil {
			return timeclock.ExportResult{}, fmt.Errorf("failed to build spreadsheet: %w", err)
		}
		result.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		result.Content = content
	default:
		return timeclock.ExportResult{}, timeclock.ErrUnsupportedFormat
	}

	return result, nil
}

// SourceFile implements timeclock.TimeclockService
func (s *TimeclockServiceImpl) SourceFile(ctx context.Context) (timeclock.ExportResult, error) {
	set, _ := s.state.Snapshot()
	if set == nil {
		return timeclock.ExportResult{}, timeclock.ErrNoResultSet
	}
	if s.fileService == nil || set.ArchivePath == "" {
		return timeclock.ExportResult{}, timeclock.ErrNoArchive
	}

	rc, err := s.fileService.OpenArchive(ctx, set.ArchivePath)
	if err != nil {
		if errors.Is(err, file.ErrFileNotFound) {
			return timeclock.ExportResult{}, timeclock.ErrNoArchive
		}
		return timeclock.ExportResult{}, err
	}
	defer rc.Close()

	content, err := io.ReadAll(io.LimitReader(rc, timeclock.MaxUploadSize+1))
	if err != nil {
		return timeclock.ExportResult{}, fmt.Errorf("failed to read archived punch file: %w", err)
	}

	return timeclock.ExportResult{
		Filename:    set.SourceFilename,
		ContentType: file.ContentTypeFor(filepath.Ext(set.SourceFilename)),
		Content:     content,
	}, nil
}

// ========== RESTORE ==========

func (s *TimeclockServiceImpl) Restore(ctx context.Context) error {
	set, err := s.repo.LoadLatest(ctx)
	if err != nil {
		if errors.Is(err, timeclock.ErrNoResultSet) {
			slog.Info("No saved timeclock result set to restore")
			return nil
		}
		return fmt.Errorf("failed to restore result set: %w", err)
	}

	s.state.Replace(set)
	slog.Info("Restored timeclock result set", "result_set_id", set.ID, "records", len(set.Records))
	s.publish(EventResultRestored, map[string]interface{}{
		"result_set_id": set.ID,
		"records":       len(set.Records),
	})

	return nil
}

// ========== HELPERS ==========

func (s *TimeclockServiceImpl) publish(event string, data interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(EventTopic, sse.Event{Event: event, Data: data})
}

func newListResponse(view timeclock.View, recordType timeclock.RecordType) timeclock.ListRecordsResponse {
	source := view.Records
	switch recordType {
	case timeclock.RecordTypeLate:
		source = view.LateArrivals
	case timeclock.RecordTypeLunch:
		source = view.LunchViolations
	}

	records := make([]timeclock.RecordResponse, 0, len(source))
	for _, r := range source {
		records = append(records, timeclock.NewRecordResponse(r))
	}

	response := timeclock.ListRecordsResponse{
		Type:    recordType,
		Summary: timeclock.NewSummaryResponse(view.Summary),
		Records: records,
	}
	if view.Filter != nil {
		start := view.Filter.Start.Format("2006-01-02")
		end := view.Filter.End.Format("2006-01-02")
		response.StartDate = &start
		response.EndDate = &end
	}
	return response
}
