package timeclock

import (
	"sync"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
)

// State holds the current result set and the view derived from it. The
// result set is only ever replaced whole.
type State struct {
	mu   sync.RWMutex
	set  *timeclock.ResultSet
	view timeclock.View

	// processing serializes uploads
	processing sync.Mutex
}

func NewState() *State {
	return &State{view: BuildView(nil, nil)}
}

// BeginUpload claims the upload slot. The returned func releases it.
func (s *State) BeginUpload() (func(), error) {
	if !s.processing.TryLock() {
		return nil, timeclock.ErrUploadInProgress
	}
	return s.processing.Unlock, nil
}

// Replace installs set as the current result set and clears any filter.
func (s *State) Replace(set timeclock.ResultSet) {
	view := BuildView(set.Records, nil)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.set = &set
	s.view = view
}

// Snapshot returns the current result set (if any) and view.
func (s *State) Snapshot() (*timeclock.ResultSet, timeclock.View) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set, s.view
}

// ApplyFilter derives a new view from the full result set.
func (s *State) ApplyFilter(rng timeclock.DateRange) timeclock.View {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []timeclock.Record
	if s.set != nil {
		records = s.set.Records
	}
	filter := rng
	s.view = BuildView(FilterByDate(records, rng), &filter)
	return s.view
}

// ClearFilter restores the unfiltered view.
func (s *State) ClearFilter() timeclock.View {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []timeclock.Record
	if s.set != nil {
		records = s.set.Records
	}
	s.view = BuildView(records, nil)
	return s.view
}
