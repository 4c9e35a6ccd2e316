package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// rosterFileEntry is one element of a roster JSON file.
type rosterFileEntry struct {
	EmployeeCode     string           `json:"employee_code"`
	FullName         string           `json:"full_name"`
	EmploymentStatus string           `json:"employment_status"`
	BaseSalary       *decimal.Decimal `json:"base_salary"`
	HourlyWage       *decimal.Decimal `json:"hourly_wage"`
}

// EmployeeRepository serves a fixed roster, optionally read from a JSON file.
type EmployeeRepository struct {
	employees []employee.Employee
}

func NewEmployeeRepository(employees []employee.Employee) *EmployeeRepository {
	return &EmployeeRepository{employees: employees}
}

// LoadEmployeeRepository reads a roster JSON file. An empty path yields an
// empty roster, so every name falls back to the default wage.
func LoadEmployeeRepository(path string) (*EmployeeRepository, error) {
	if strings.TrimSpace(path) == "" {
		return NewEmployeeRepository(nil), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}

	var entries []rosterFileEntry
	if err := json.Unmarshal(content, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode roster file %s: %w", path, err)
	}

	employees := make([]employee.Employee, 0, len(entries))
	for i, entry := range entries {
		if entry.BaseSalary != nil && entry.BaseSalary.IsNegative() ||
			entry.HourlyWage != nil && entry.HourlyWage.IsNegative() {
			return nil, fmt.Errorf("roster entry %d (%s): %w", i, entry.FullName, employee.ErrInvalidSalary)
		}

		status := employee.EmploymentStatus(entry.EmploymentStatus)
		if status == "" {
			status = employee.EmploymentStatusActive
		}
		employees = append(employees, employee.Employee{
			ID:               uuid.NewString(),
			EmployeeCode:     entry.EmployeeCode,
			FullName:         strings.TrimSpace(entry.FullName),
			EmploymentStatus: status,
			BaseSalary:       entry.BaseSalary,
			HourlyWage:       entry.HourlyWage,
		})
	}

	return NewEmployeeRepository(employees), nil
}

// GetActive implements employee.EmployeeRepository.
func (r *EmployeeRepository) GetActive(ctx context.Context) ([]employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	active := make([]employee.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		if e.EmploymentStatus == employee.EmploymentStatusActive && e.DeletedAt == nil {
			active = append(active, e)
		}
	}
	return active, nil
}
