package timeclock

import (
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

// Summarize counts violations and sums minutes and discounts.
func Summarize(records []timeclock.Record) timeclock.Summary {
	summary := timeclock.Summary{TotalRecords: len(records)}
	for _, r := range records {
		if r.IsLateArrival {
			summary.LateArrivals++
			summary.TotalLateMinutes += r.LateMinutes
		}
		if r.IsLunchViolation {
			summary.LunchViolations++
			summary.TotalLunchExtraMinutes += r.LunchExtraMinutes
		}
		summary.TotalDiscount += r.TotalDiscount
	}
	return summary
}

// BuildView derives the violation subsets and summary of records.
func BuildView(records []timeclock.Record, filter *timeclock.DateRange) timeclock.View {
	view := timeclock.View{
		Records:         records,
		LateArrivals:    make([]timeclock.Record, 0),
		LunchViolations: make([]timeclock.Record, 0),
		Summary:         Summarize(records),
		Filter:          filter,
	}
	if view.Records == nil {
		view.Records = make([]timeclock.Record, 0)
	}

	for _, r := range records {
		if r.IsLateArrival {
			view.LateArrivals = append(view.LateArrivals, r)
		}
		if r.IsLunchViolation {
			view.LunchViolations = append(view.LunchViolations, r)
		}
	}
	return view
}

// FilterByDate keeps records dated within rng. Records whose date cannot
// be parsed are dropped.
func FilterByDate(records []timeclock.Record, rng timeclock.DateRange) []timeclock.Record {
	filtered := make([]timeclock.Record, 0, len(records))
	for _, r := range records {
		date, ok := validator.ParseDayMonthYear(r.Date)
		if !ok {
			continue
		}
		if rng.Contains(date) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
