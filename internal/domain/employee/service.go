package employee

import (
	"context"
)

// RosterService caches the active employee roster
type RosterService interface {
	// List returns the cached roster, loading it on first use
	List(ctx context.Context) (RosterResponse, error)

	// Refresh reloads the roster from the repository
	Refresh(ctx context.Context) error
}
