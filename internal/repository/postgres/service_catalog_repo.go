package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"dealerops/internal/domain"
	"dealerops/internal/port"
)

type serviceCatalogRepo struct {
	db *sqlx.DB
}

// NewServiceCatalogRepo creates a new PostgreSQL-backed ServiceCatalog.
func NewServiceCatalogRepo(db *sqlx.DB) port.ServiceCatalog {
	return &serviceCatalogRepo{db: db}
}

func (r *serviceCatalogRepo) ActiveNames(ctx context.Context, dealerID uuid.UUID) (map[string]string, error) {
	var services []domain.CatalogService
	err := r.db.SelectContext(ctx, &services,
		"SELECT * FROM services WHERE dealer_id = $1 AND is_active = TRUE", dealerID)
	if err != nil {
		return nil, fmt.Errorf("serviceCatalogRepo.ActiveNames: %w", err)
	}
	names := make(map[string]string, len(services))
	for i := range services {
		names[services[i].ID] = services[i].Name
	}
	return names, nil
}
