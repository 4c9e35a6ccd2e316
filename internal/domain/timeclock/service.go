package timeclock

import "context"

type TimeclockService interface {
	// Upload parses a punch file and replaces the current result set.
	Upload(ctx context.Context, req UploadRequest) (UploadResponse, error)

	// ListRecords returns the current view, optionally narrowed to one violation type.
	ListRecords(ctx context.Context, req ListRecordsRequest) (ListRecordsResponse, error)

	Summary(ctx context.Context) (SummaryResponse, error)

	// Filter narrows the current view to an inclusive date range of the full result set.
	Filter(ctx context.Context, req FilterRequest) (ListRecordsResponse, error)

	ResetFilter(ctx context.Context) (ListRecordsResponse, error)

	// Export renders the current view as a downloadable report.
	Export(ctx context.Context, req ExportRequest) (ExportResult, error)

	// SourceFile returns the archived punch file behind the current result set.
	SourceFile(ctx context.Context) (ExportResult, error)

	// Restore loads the last saved result set, if any.
	Restore(ctx context.Context) error
}

// RosterEntry is the slice of an employee record the wage lookup needs.
// Either HourlyWage or MonthlySalary may be zero when unknown.
type RosterEntry struct {
	Name          string
	HourlyWage    float64
	MonthlySalary float64
}

// RosterProvider supplies the employee roster used to resolve wages.
type RosterProvider interface {
	Roster(ctx context.Context) ([]RosterEntry, error)
}
