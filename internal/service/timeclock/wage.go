package timeclock

import (
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
)

// WageResolver maps a punch name to an hourly wage using the roster.
type WageResolver struct {
	roster        []timeclock.RosterEntry
	matcher       NameMatcher
	monthlyHours  float64
	defaultSalary float64
}

func NewWageResolver(roster []timeclock.RosterEntry, matcher NameMatcher, policy Policy) *WageResolver {
	if matcher == nil {
		matcher = SubstringMatcher{}
	}
	return &WageResolver{
		roster:        roster,
		matcher:       matcher,
		monthlyHours:  policy.MonthlyHours,
		defaultSalary: policy.DefaultMonthlySalary,
	}
}

// HourlyWage returns the first matching roster entry's hourly wage. Entries
// without a wage fall back to salary / monthly hours; unmatched names and
// entries with neither use the default salary.
func (w *WageResolver) HourlyWage(name string) float64 {
	for _, entry := range w.roster {
		if !w.matcher.Match(entry.Name, name) {
			continue
		}
		if entry.HourlyWage > 0 {
			return entry.HourlyWage
		}
		if entry.MonthlySalary > 0 {
			return entry.MonthlySalary / w.monthlyHours
		}
		break
	}
	return w.defaultSalary / w.monthlyHours
}
