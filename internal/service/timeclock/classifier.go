package timeclock

import (
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
	"github.com/google/uuid"
)

// Classifier flags late arrivals and lunch overruns for one day of punches.
type Classifier struct {
	policy Policy
	newID  func() string
}

func NewClassifier(policy Policy) *Classifier {
	return &Classifier{
		policy: policy,
		newID:  newRecordID,
	}
}

// ClassifyDay evaluates the de-duplicated punches of a day group. Unless the
// policy selects every punch, it emits the first punch of the day plus every
// punch that is a violation.
func (c *Classifier) ClassifyDay(group timeclock.DayGroup, hourlyWage float64) []timeclock.Record {
	punches := Deduplicate(group.Punches, c.policy.DedupWindow)

	var records []timeclock.Record
	for i, p := range punches {
		record := timeclock.Record{
			EmployeeName: p.EmployeeName,
			Date:         p.DateText,
			Time:         p.TimeText,
			HourlyWage:   hourlyWage,
		}

		if c.isLate(p.Minutes) {
			record.IsLateArrival = true
			record.LateMinutes = p.Minutes - c.policy.ScheduledStart
			record.LateDiscount = float64(record.LateMinutes) / 60 * hourlyWage
		}

		if next, ok := nextLater(punches, i); ok && c.isLunchOut(p.Minutes) {
			if extra, ok := c.lunchOverrun(p.Minutes, next.Minutes); ok {
				record.IsLunchViolation = true
				record.LunchExtraMinutes = extra
				record.LunchDiscount = float64(extra) / 60 * hourlyWage
				record.LunchOutTime = p.TimeText
				record.LunchReturnTime = next.TimeText
			}
		}

		record.TotalDiscount = record.LateDiscount + record.LunchDiscount

		if c.policy.Selection == SelectionAll || record.IsLateArrival || record.IsLunchViolation || i == 0 {
			record.ID = c.newID()
			records = append(records, record)
		}
	}

	return records
}

// nextLater returns the first punch after i with a strictly later time.
func nextLater(punches []timeclock.RawPunch, i int) (timeclock.RawPunch, bool) {
	for j := i + 1; j < len(punches); j++ {
		if punches[j].Minutes > punches[i].Minutes {
			return punches[j], true
		}
	}
	return timeclock.RawPunch{}, false
}

func (c *Classifier) isLate(minutes int) bool {
	return minutes >= c.policy.LateWindowStart && minutes <= c.policy.LateWindowEnd
}

func (c *Classifier) isLunchOut(minutes int) bool {
	return minutes >= c.policy.LunchWindowStart && minutes <= c.policy.LunchWindowEnd
}

// lunchOverrun returns the minutes beyond the allowance between a lunch-out
// and its return. Returns at or after the end-of-day cutoff are clock-outs.
func (c *Classifier) lunchOverrun(out, back int) (int, bool) {
	if back <= out || back >= c.policy.EndOfDayCutoff {
		return 0, false
	}
	duration := back - out
	if duration <= c.policy.LunchAllowance {
		return 0, false
	}
	return duration - c.policy.LunchAllowance, true
}

// newRecordID returns a time-ordered UUIDv7, falling back to a random v4.
func newRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
