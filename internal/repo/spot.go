// Package repo contains all persistence logic for the FlavorMap service.
// Spots can be stored in a single JSON file (the default) or in Postgres.
// No business logic lives here, only storage and type mapping.
package repo

import (
	"context"

	"github.com/rc397/FlavorMap/internal/domain"
)

// SpotRepo defines the persistence operations for Spots.
// The service layer depends on this interface, not a concrete implementation,
// which allows the service to be unit-tested with a mock.
type SpotRepo interface {
	// LoadAll returns every stored spot in insertion order.
	// The returned slice is a snapshot owned by the caller and is never nil.
	LoadAll(ctx context.Context) ([]domain.Spot, error)

	// Append persists a new spot after all existing ones.
	// Concurrent calls must never lose each other's writes.
	Append(ctx context.Context, spot domain.Spot) error
}
