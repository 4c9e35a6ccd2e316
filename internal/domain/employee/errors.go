package employee

import "errors"

var (
	ErrRosterUnavailable = errors.New("employee roster is unavailable")
	ErrInvalidSalary     = errors.New("salary must not be negative")
)
