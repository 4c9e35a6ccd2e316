package timeclock

import (
	"time"
)

// RawPunch is one accepted line of a punch-clock export.
type RawPunch struct {
	EmployeeName string
	DateText     string // DD/MM/YYYY as found in the file
	TimeText     string // HH:MM
	Minutes      int    // minutes since midnight
	Line         int    // 1-based source line
}

// ParseReport is the result of reading a punch file. Malformed rows are
// counted, never returned as errors.
type ParseReport struct {
	Punches      []RawPunch
	SkippedLines int
	Separator    string
}

type GroupKey struct {
	EmployeeName string
	DateText     string
}

// DayGroup holds one employee's punches for one calendar day, sorted by time.
type DayGroup struct {
	Key     GroupKey
	Punches []RawPunch
}

type Category string

const (
	CategoryLate   Category = "late"
	CategoryLunch  Category = "lunch"
	CategoryNormal Category = "normal"
)

// Record is a classified punch. Records are immutable once produced.
type Record struct {
	ID                string
	EmployeeName      string
	Date              string
	Time              string
	HourlyWage        float64
	LateMinutes       int
	LateDiscount      float64
	IsLateArrival     bool
	LunchExtraMinutes int
	LunchDiscount     float64
	LunchOutTime      string
	LunchReturnTime   string
	IsLunchViolation  bool
	TotalDiscount     float64
}

// Category reports the display category. Late takes precedence over lunch.
func (r Record) Category() Category {
	switch {
	case r.IsLateArrival:
		return CategoryLate
	case r.IsLunchViolation:
		return CategoryLunch
	default:
		return CategoryNormal
	}
}

type Summary struct {
	TotalRecords           int
	LateArrivals           int
	LunchViolations        int
	TotalLateMinutes       int
	TotalLunchExtraMinutes int
	TotalDiscount          float64
}

// ResultSet is everything derived from one upload. A new upload replaces it wholesale.
type ResultSet struct {
	ID             string
	SourceFilename string
	UploadedAt     time.Time
	ArchivePath    string // empty when the upload was not archived
	SkippedLines   int
	Records        []Record
}

// DateRange is an inclusive calendar range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls within the range, ignoring time of day.
func (r DateRange) Contains(d time.Time) bool {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(r.Start.Year(), r.Start.Month(), r.Start.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(r.End.Year(), r.End.Month(), r.End.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(start) && !day.After(end)
}

// View is a derived subset of a ResultSet. It never mutates the base set.
type View struct {
	Records         []Record
	LateArrivals    []Record
	LunchViolations []Record
	Summary         Summary
	Filter          *DateRange
}
