package timeclock

import (
	"io"
	"strings"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

// ========================================
// UPLOAD DTOs
// ========================================

// AllowedUploadExtensions lists the punch export formats accepted on upload.
var AllowedUploadExtensions = []string{".txt", ".csv", ".tsv", ".xlsx"}

const MaxUploadSize = 20 << 20 // 20MB

// UploadRequest carries an uploaded punch file. Size is the declared size;
// a file over MaxUploadSize fails with ErrFileTooLarge, not a validation error.
type UploadRequest struct {
	Filename string
	Size     int64
	File     io.Reader
}

func (r *UploadRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Filename) {
		errs = append(errs, validator.ValidationError{
			Field:   "file",
			Message: "punch file is required",
		})
	} else if !validator.HasAllowedExtension(r.Filename, AllowedUploadExtensions) {
		errs = append(errs, validator.ValidationError{
			Field:   "file",
			Message: "invalid file type: only txt, csv, tsv, xlsx allowed",
		})
	}

	if r.File == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "file",
			Message: "punch file content is missing",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UploadResponse struct {
	ResultSetID    string          `json:"result_set_id"`
	SourceFilename string          `json:"source_filename"`
	UploadedAt     string          `json:"uploaded_at"`
	SkippedLines   int             `json:"skipped_lines"`
	Summary        SummaryResponse `json:"summary"`
	Message        string          `json:"message"`
}

// ========================================
// FILTER DTOs
// ========================================

type FilterRequest struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

// Validate checks both dates and returns the parsed range.
func (f *FilterRequest) Validate() (DateRange, error) {
	var errs validator.ValidationErrors
	var rng DateRange

	if validator.IsEmpty(f.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	} else if start, valid := validator.IsValidDate(strings.TrimSpace(f.StartDate)); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	} else {
		rng.Start = start
	}

	if validator.IsEmpty(f.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required",
		})
	} else if end, valid := validator.IsValidDate(strings.TrimSpace(f.EndDate)); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	} else {
		rng.End = end
	}

	if len(errs) == 0 && rng.End.Before(rng.Start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return DateRange{}, errs
	}

	return rng, nil
}

// ========================================
// QUERY DTOs
// ========================================

type RecordType string

const (
	RecordTypeAll   RecordType = "all"
	RecordTypeLate  RecordType = "late"
	RecordTypeLunch RecordType = "lunch"
)

type ListRecordsRequest struct {
	Type RecordType `json:"type"`
}

func (r *ListRecordsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Type == "" {
		r.Type = RecordTypeAll
	}
	if !validator.IsInSlice(string(r.Type), []string{string(RecordTypeAll), string(RecordTypeLate), string(RecordTypeLunch)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: all, late, lunch",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RecordResponse struct {
	ID                string  `json:"id"`
	EmployeeName      string  `json:"employee_name"`
	Date              string  `json:"date"`
	Time              string  `json:"time"`
	HourlyWage        float64 `json:"hourly_wage"`
	LateMinutes       int     `json:"late_minutes"`
	LateDiscount      float64 `json:"late_discount"`
	IsLateArrival     bool    `json:"is_late_arrival"`
	LunchExtraMinutes int     `json:"lunch_extra_minutes"`
	LunchDiscount     float64 `json:"lunch_discount"`
	LunchOutTime      string  `json:"lunch_out_time,omitempty"`
	LunchReturnTime   string  `json:"lunch_return_time,omitempty"`
	IsLunchViolation  bool    `json:"is_lunch_violation"`
	TotalDiscount     float64 `json:"total_discount"`
	Category          string  `json:"category"`
}

type SummaryResponse struct {
	TotalRecords           int     `json:"total_records"`
	LateArrivals           int     `json:"late_arrivals"`
	LunchViolations        int     `json:"lunch_violations"`
	TotalLateMinutes       int     `json:"total_late_minutes"`
	TotalLunchExtraMinutes int     `json:"total_lunch_extra_minutes"`
	TotalDiscount          float64 `json:"total_discount"`
}

type ListRecordsResponse struct {
	Type      RecordType       `json:"type"`
	StartDate *string          `json:"start_date,omitempty"`
	EndDate   *string          `json:"end_date,omitempty"`
	Summary   SummaryResponse  `json:"summary"`
	Records   []RecordResponse `json:"records"`
}

// ========================================
// EXPORT DTOs
// ========================================

type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

type ExportRequest struct {
	Format ExportFormat `json:"format"`
}

func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Format == "" {
		r.Format = ExportFormatCSV
	}
	r.Format = ExportFormat(strings.ToLower(string(r.Format)))
	if !validator.IsInSlice(string(r.Format), []string{string(ExportFormatCSV), string(ExportFormatXLSX)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "format",
			Message: "format must be one of: csv, xlsx",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ExportResult struct {
	Filename    string
	ContentType string
	Content     []byte
}

// NewRecordResponse maps a Record to its JSON shape.
func NewRecordResponse(r Record) RecordResponse {
	return RecordResponse{
		ID:                r.ID,
		EmployeeName:      r.EmployeeName,
		Date:              r.Date,
		Time:              r.Time,
		HourlyWage:        r.HourlyWage,
		LateMinutes:       r.LateMinutes,
		LateDiscount:      r.LateDiscount,
		IsLateArrival:     r.IsLateArrival,
		LunchExtraMinutes: r.LunchExtraMinutes,
		LunchDiscount:     r.LunchDiscount,
		LunchOutTime:      r.LunchOutTime,
		LunchReturnTime:   r.LunchReturnTime,
		IsLunchViolation:  r.IsLunchViolation,
		TotalDiscount:     r.TotalDiscount,
		Category:          string(r.Category()),
	}
}

func NewSummaryResponse(s Summary) SummaryResponse {
	return SummaryResponse{
		TotalRecords:           s.TotalRecords,
		LateArrivals:           s.LateArrivals,
		LunchViolations:        s.LunchViolations,
		TotalLateMinutes:       s.TotalLateMinutes,
		TotalLunchExtraMinutes: s.TotalLunchExtraMinutes,
		TotalDiscount:          s.TotalDiscount,
	}
}
