package items

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storebilling/storebilling-backend/pkg/db/models"
)

// SampleCatalog is the demo catalog loaded into an empty store.
func SampleCatalog() []models.Item {
	return []models.Item{
		{Name: "Premium Coffee Beans", Price: decimal.RequireFromString("18.50"), Stock: 50},
		{Name: "Reusable Cup", Price: decimal.RequireFromString("9.00"), Stock: 80},
		{Name: "Chocolate Cookie", Price: decimal.RequireFromString("3.50"), Stock: 120},
	}
}

// Seed inserts SampleCatalog when the items table is empty and returns the
// number of rows written.
func Seed(ctx context.Context, db *gorm.DB) (int, error) {
	var inserted int
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		count, err := repo.Count(ctx)
		if err != nil {
			return fmt.Errorf("count items: %w", err)
		}
		if count > 0 {
			return nil
		}
		for _, item := range SampleCatalog() {
			if err := repo.Create(ctx, &item); err != nil {
				return fmt.Errorf("seed %q: %w", item.Name, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
