package roster

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
)

// RosterServiceImpl caches active employees and serves them both as the
// roster listing and as the wage lookup input for reconciliation.
type RosterServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	now          func() time.Time

	mu          sync.RWMutex
	employees   []employee.Employee
	refreshedAt time.Time
	loaded      bool
}

func NewRosterService(employeeRepo employee.EmployeeRepository) *RosterServiceImpl {
	return &RosterServiceImpl{
		employeeRepo: employeeRepo,
		now:          time.Now,
	}
}

func (s *RosterServiceImpl) Refresh(ctx context.Context) error {
	employees, err := s.employeeRepo.GetActive(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", employee.ErrRosterUnavailable, err)
	}

	s.mu.Lock()
	s.employees = employees
	s.refreshedAt = s.now().UTC()
	s.loaded = true
	s.mu.Unlock()

	slog.Debug("Employee roster refreshed", "employees", len(employees))
	return nil
}

func (s *RosterServiceImpl) List(ctx context.Context) (employee.RosterResponse, error) {
	employees, refreshedAt, err := s.snapshot(ctx)
	if err != nil {
		return employee.RosterResponse{}, err
	}

	entries := make([]employee.RosterEntryResponse, 0, len(employees))
	for _, e := range employees {
		entries = append(entries, employee.NewRosterEntryResponse(e))
	}

	refreshed := refreshedAt.Format(time.RFC3339)
	return employee.RosterResponse{
		Employees:   entries,
		Total:       len(entries),
		RefreshedAt: &refreshed,
	}, nil
}

// Roster implements timeclock.RosterProvider. Decimal salaries are
// converted to float64 here, once.
func (s *RosterServiceImpl) Roster(ctx context.Context) ([]timeclock.RosterEntry, error) {
	employees, _, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]timeclock.RosterEntry, 0, len(employees))
	for _, e := range employees {
		entry := timeclock.RosterEntry{Name: e.FullName}
		if e.HourlyWage != nil && e.HourlyWage.IsPositive() {
			entry.HourlyWage = e.HourlyWage.InexactFloat64()
		}
		if e.BaseSalary != nil && e.BaseSalary.IsPositive() {
			entry.MonthlySalary = e.BaseSalary.InexactFloat64()
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *RosterServiceImpl) snapshot(ctx context.Context) ([]employee.Employee, time.Time, error) {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()

	if !loaded {
		if err := s.Refresh(ctx); err != nil {
			return nil, time.Time{}, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.employees, s.refreshedAt, nil
}
