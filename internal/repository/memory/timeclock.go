package memory

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
)

// ResultSetRepository keeps the latest result set in process memory. It is
// lost on restart.
type ResultSetRepository struct {
	mu  sync.RWMutex
	set *timeclock.ResultSet
}

func NewResultSetRepository() *ResultSetRepository {
	return &ResultSetRepository{}
}

func (r *ResultSetRepository) Save(ctx context.Context, set timeclock.ResultSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stored := set
	stored.Records = make([]timeclock.Record, len(set.Records))
	copy(stored.Records, set.Records)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.set = &stored
	return nil
}

func (r *ResultSetRepository) LoadLatest(ctx context.Context) (timeclock.ResultSet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.set == nil {
		return timeclock.ResultSet{}, timeclock.ErrNoResultSet
	}

	out := *r.set
	out.Records = make([]timeclock.Record, len(r.set.Records))
	copy(out.Records, r.set.Records)
	return out, nil
}
