package employee

import "context"

type EmployeeRepository interface {
	// GetActive returns every active, non-deleted employee ordered by name
	GetActive(ctx context.Context) ([]Employee, error)
}
