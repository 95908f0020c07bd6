package product

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moonpos/moonpos-backend/pkg/db"
	"github.com/moonpos/moonpos-backend/pkg/db/models"
	"github.com/moonpos/moonpos-backend/pkg/logger"
	"github.com/moonpos/moonpos-backend/pkg/money"
)

type seedProduct struct {
	sku, name, category string
	sell, cost          string
	stock, minStock     int
}

var starterCatalog = []seedProduct{
	{sku: "SKU-COF-01", name: "Americano", category: "Coffee", sell: "25000", cost: "9000", stock: 120, minStock: 20},
	{sku: "SKU-COF-02", name: "Cappuccino", category: "Coffee", sell: "32000", cost: "12000", stock: 90, minStock: 15},
	{sku: "SKU-FNB-01", name: "Croissant", category: "Food", sell: "18000", cost: "7000", stock: 70, minStock: 10},
}

// SeedCatalog inserts the starter catalog when the products table is empty.
// It returns the number of products created.
func SeedCatalog(ctx context.Context, client *db.Client, logg *logger.Logger) (int, error) {
	created := 0
	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		count, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		for _, seed := range starterCatalog {
			category := seed.category
			product := &models.Product{
				ID:        uuid.New(),
				SKU:       seed.sku,
				Name:      seed.name,
				Category:  &category,
				SellPrice: money.MustParse(seed.sell),
				CostPrice: money.MustParse(seed.cost),
				StockQty:  seed.stock,
				MinStock:  seed.minStock,
				IsActive:  true,
			}
			if err := repo.Create(ctx, product); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if logg != nil && created > 0 {
		logg.Info(logg.WithField(ctx, "products", created), "catalog.seeded")
	}
	return created, nil
}
