package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopmicro/storefront-backend/pkg/db/models"
	"github.com/shopmicro/storefront-backend/pkg/logger"
)

type seedProduct struct {
	name         string
	description  string
	priceCents   int
	availableQty int
	category     string
}

var defaultCatalog = []seedProduct{
	{"Mechanical Keyboard", "Tactile switches, full-size layout", 9999, 40, "peripherals"},
	{"Wireless Mouse", "2.4GHz receiver, six programmable buttons", 5999, 80, "peripherals"},
	{"4K Monitor", "27-inch IPS panel, 60Hz", 39999, 15, "displays"},
	{"Gaming Headset", "Closed-back with detachable mic", 12999, 35, "audio"},
	{"Laptop Stand", "Adjustable aluminum riser", 3499, 120, "accessories"},
	{"Vertical Mouse", "Ergonomic grip, silent clicks", 3999, 60, "peripherals"},
}

// SeedIfEmpty inserts the default catalog when no products exist yet. Intended
// for dev/demo environments behind the seed feature flag.
func SeedIfEmpty(ctx context.Context, repo ProductRepository, logg *logger.Logger) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("checking catalog: %w", err)
	}
	if count > 0 {
		return nil
	}

	products := make([]models.Product, 0, len(defaultCatalog))
	for _, seed := range defaultCatalog {
		products = append(products, models.Product{
			ID:           uuid.New(),
			Name:         seed.name,
			Description:  seed.description,
			PriceCents:   seed.priceCents,
			AvailableQty: seed.availableQty,
			CategoryName: seed.category,
			IsActive:     true,
		})
	}

	if err := repo.CreateBatch(ctx, products); err != nil {
		return fmt.Errorf("seeding catalog: %w", err)
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "count", len(products)), "seeded default catalog")
	}
	return nil
}
