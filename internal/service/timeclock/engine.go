package timeclock

import (
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
)

// Engine turns parsed punches into classified records.
type Engine struct {
	policy     Policy
	matcher    NameMatcher
	classifier *Classifier
}

func NewEngine(policy Policy, matcher NameMatcher) *Engine {
	return &Engine{
		policy:     policy,
		matcher:    matcher,
		classifier: NewClassifier(policy),
	}
}

// Reconcile groups punches per employee-day, resolves one wage per group
// and classifies each group.
func (e *Engine) Reconcile(punches []timeclock.RawPunch, roster []timeclock.RosterEntry) []timeclock.Record {
	wages := NewWageResolver(roster, e.matcher, e.policy)

	records := make([]timeclock.Record, 0)
	for _, group := range GroupByDay(punches) {
		wage := wages.HourlyWage(group.Key.EmployeeName)
		records = append(records, e.classifier.ClassifyDay(group, wage)...)
	}
	return records
}
