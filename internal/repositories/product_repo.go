package repositories

import (
	"nexusstore/internal/models"
)

// DefaultPageSize is the fixed page size for product listings.
const DefaultPageSize = 10

// ListQuery describes a product listing request.
type ListQuery struct {
	Query   string // case-insensitive substring filter over name or sku
	Page    int    // 1-based; out-of-range pages yield an empty result
	PerPage int    // defaults to DefaultPageSize when <= 0
}

// CategoryCount is one row of the per-category aggregate.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(q ListQuery) ([]models.Product, error)
	Count(query string) (int64, error)
	GetByID(id string) (*models.Product, error)
	GetBySKU(sku string) (*models.Product, error)
	Create(product *models.Product) error
	Update(id string, product *models.Product) (*models.Product, error)
	Delete(id string) error

	// Dashboard aggregates, each a single independent query.
	CountAll() (int64, error)
	SumStock() (int64, error)
	CountLowStock(threshold int) (int64, error)
	CountByCategory() ([]CategoryCount, error)
	InventoryValue() (float64, error)
	Recent(limit int) ([]models.Product, error)

	// Categories returns the distinct category names, sorted.
	Categories() ([]string, error)
}
