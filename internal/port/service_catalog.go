package port

import (
	"context"

	"github.com/google/uuid"
)

// ServiceCatalog resolves legacy service ids to display names.
type ServiceCatalog interface {
	// ActiveNames returns the dealer's active services as an id-to-name map.
	ActiveNames(ctx context.Context, dealerID uuid.UUID) (map[string]string, error)
}
