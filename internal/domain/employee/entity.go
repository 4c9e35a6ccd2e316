package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the roster view of an employee record.
type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	EmploymentStatus EmploymentStatus
	BaseSalary       *decimal.Decimal // monthly
	HourlyWage       *decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)
