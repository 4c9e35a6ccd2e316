package roster

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/memory"
	timeclockService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/timeclock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployeeRepo struct {
	employees []employee.Employee
	err       error
	calls     int
}

func (r *fakeEmployeeRepo) GetActive(ctx context.Context) ([]employee.Employee, error) {
	r.calls++
	return r.employees, r.err
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestRosterService_Roster(t *testing.T) {
	repo := &fakeEmployeeRepo{employees: []employee.Employee{
		{ID: "1", FullName: "Ana Perez", HourlyWage: decimalPtr("6000.50")},
		{ID: "2", FullName: "Luis Gomez", BaseSalary: decimalPtr("2300000")},
		{ID: "3", FullName: "Marta Ruiz", BaseSalary: decimalPtr("0")},
	}}
	svc := NewRosterService(repo)

	entries, err := svc.Roster(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []timeclock.RosterEntry{
		{Name: "Ana Perez", HourlyWage: 6000.5},
		{Name: "Luis Gomez", MonthlySalary: 2300000},
		{Name: "Marta Ruiz"},
	}, entries)

	_, err = svc.Roster(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls, "roster should be cached after first load")
}

func TestRosterService_RefreshReloads(t *testing.T) {
	repo := &fakeEmployeeRepo{employees: []employee.Employee{{FullName: "Ana"}}}
	svc := NewRosterService(repo)
	svc.now = func() time.Time { return time.Date(2024, 6, 25, 8, 0, 0, 0, time.UTC) }

	require.NoError(t, svc.Refresh(context.Background()))

	repo.employees = append(repo.employees, employee.Employee{FullName: "Luis"})
	require.NoError(t, svc.Refresh(context.Background()))

	resp, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "Luis", resp.Employees[1].FullName)
	require.NotNil(t, resp.RefreshedAt)
	assert.Equal(t, "2024-06-25T08:00:00Z", *resp.RefreshedAt)
}

func TestRosterService_Unavailable(t *testing.T) {
	svc := NewRosterService(&fakeEmployeeRepo{err: errors.New("connection refused")})

	_, err := svc.Roster(context.Background())
	assert.ErrorIs(t, err, employee.ErrRosterUnavailable)

	_, err = svc.List(context.Background())
	assert.ErrorIs(t, err, employee.ErrRosterUnavailable)
}

func TestRosterService_KeepsLastGoodRosterOnRefreshFailure(t *testing.T) {
	repo := &fakeEmployeeRepo{employees: []employee.Employee{{FullName: "Ana"}}}
	svc := NewRosterService(repo)
	require.NoError(t, svc.Refresh(context.Background()))

	repo.err = errors.New("timeout")
	assert.Error(t, svc.Refresh(context.Background()))

	entries, err := svc.Roster(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRosterService_WageLookupFollowsRosterOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"full_name": "Maria Lopez", "base_salary": 2300000},
		{"full_name": "Ana Maria", "base_salary": 4600000}
	]`), 0o644))

	repo, err := memory.LoadEmployeeRepository(path)
	require.NoError(t, err)
	svc := NewRosterService(repo)

	entries, err := svc.Roster(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Maria Lopez", entries[0].Name)
	assert.Equal(t, "Ana Maria", entries[1].Name)

	wages := timeclockService.NewWageResolver(entries, timeclockService.SubstringMatcher{}, timeclockService.DefaultPolicy())
	assert.Equal(t, 10000.0, wages.HourlyWage("Maria"))
}
