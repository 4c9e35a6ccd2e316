package timeclock

import "context"

// ResultSetRepository persists the current result set. Only one result set
// is kept; saving replaces the previous one.
type ResultSetRepository interface {
	// Save replaces any stored result set with set
	Save(ctx context.Context, set ResultSet) error

	// LoadLatest returns ErrNoResultSet when nothing has been saved
	LoadLatest(ctx context.Context) (ResultSet, error)
}
