package employee

import "github.com/shopspring/decimal"

type RosterEntryResponse struct {
	ID           string           `json:"id,omitempty"`
	EmployeeCode string           `json:"employee_code,omitempty"`
	FullName     string           `json:"full_name"`
	BaseSalary   *decimal.Decimal `json:"base_salary,omitempty"`
	HourlyWage   *decimal.Decimal `json:"hourly_wage,omitempty"`
}

type RosterResponse struct {
	Employees   []RosterEntryResponse `json:"employees"`
	Total       int                   `json:"total"`
	RefreshedAt *string               `json:"refreshed_at,omitempty"`
}

func NewRosterEntryResponse(e Employee) RosterEntryResponse {
	return RosterEntryResponse{
		ID:           e.ID,
		EmployeeCode: e.EmployeeCode,
		FullName:     e.FullName,
		BaseSalary:   e.BaseSalary,
		HourlyWage:   e.HourlyWage,
	}
}
