package timeclock

// Selection decides which classified punches are emitted for a day.
type Selection string

const (
	// SelectionViolations emits the first punch of each day plus every violation
	SelectionViolations Selection = "violations"
	// SelectionAll emits every de-duplicated punch
	SelectionAll Selection = "all"
)

// Description is written into exported reports.
func (s Selection) Description() string {
	if s == SelectionAll {
		return "every punch after de-duplication"
	}
	return "first punch of each day plus every violation"
}

// Policy holds the time windows and wage constants used during
// classification. All times are minutes since midnight.
type Policy struct {
	ScheduledStart   int // 08:00
	LateWindowStart  int // 08:05
	LateWindowEnd    int // 08:30
	LunchWindowStart int // 12:00
	LunchWindowEnd   int // 13:00
	EndOfDayCutoff   int // 17:30, successors at or after this are clock-outs
	LunchAllowance   int // minutes

	// DedupWindow collapses punches whose successor is at most this many
	// minutes later. Zero classifies every raw punch.
	DedupWindow int

	Selection Selection

	MonthlyHours         float64
	DefaultMonthlySalary float64
}

func DefaultPolicy() Policy {
	return Policy{
		ScheduledStart:       8 * 60,
		LateWindowStart:      8*60 + 5,
		LateWindowEnd:        8*60 + 30,
		LunchWindowStart:     12 * 60,
		LunchWindowEnd:       13 * 60,
		EndOfDayCutoff:       17*60 + 30,
		LunchAllowance:       60,
		DedupWindow:          5,
		Selection:            SelectionViolations,
		MonthlyHours:         230,
		DefaultMonthlySalary: 1300000,
	}
}
