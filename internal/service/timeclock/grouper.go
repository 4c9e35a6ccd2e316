package timeclock

import (
	"sort"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
)

// GroupByDay buckets punches per employee and date. Groups are returned in
// order of first appearance; punches within a group are sorted by time,
// ties keeping file order.
func GroupByDay(punches []timeclock.RawPunch) []timeclock.DayGroup {
	index := make(map[timeclock.GroupKey]int)
	var groups []timeclock.DayGroup

	for _, p := range punches {
		key := timeclock.GroupKey{EmployeeName: p.EmployeeName, DateText: p.DateText}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, timeclock.DayGroup{Key: key})
		}
		groups[i].Punches = append(groups[i].Punches, p)
	}

	for i := range groups {
		sort.SliceStable(groups[i].Punches, func(a, b int) bool {
			return groups[i].Punches[a].Minutes < groups[i].Punches[b].Minutes
		})
	}

	return groups
}

// Deduplicate drops every punch whose successor is within window minutes,
// so a burst of punches collapses to its last one. punches must be sorted.
func Deduplicate(punches []timeclock.RawPunch, window int) []timeclock.RawPunch {
	if window <= 0 {
		out := make([]timeclock.RawPunch, len(punches))
		copy(out, punches)
		return out
	}

	var out []timeclock.RawPunch
	for i, p := range punches {
		if i == len(punches)-1 {
			out = append(out, p)
			continue
		}
		gap := punches[i+1].Minutes - p.Minutes
		if gap < 0 {
			gap = -gap
		}
		if gap > window {
			out = append(out, p)
		}
	}
	return out
}
