package repositories

import (
	"errors"
	"fmt"
	"strings"

	"nexusstore/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
// The *gorm.DB handle must be opened with TranslateError enabled so that
// unique-constraint violations surface as gorm.ErrDuplicatedKey.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

func (r *GORMProductRepository) filtered(query string) *gorm.DB {
	tx := r.db.Model(&models.Product{})
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", like, like)
	}
	return tx
}

// List retrieves one page of products matching the filter, most recently
// created first. Pages past the end come back empty.
func (r *GORMProductRepository) List(q ListQuery) ([]models.Product, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := q.PerPage
	if perPage <= 0 {
		perPage = DefaultPageSize
	}

	var products []models.Product
	err := r.filtered(q.Query).
		Order("created_at DESC, id DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Count returns the number of products matching the same filter List uses.
func (r *GORMProductRepository) Count(query string) (int64, error) {
	var count int64
	if err := r.filtered(query).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// GetBySKU retrieves a single product by its SKU.
func (r *GORMProductRepository) GetBySKU(sku string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product by SKU %s: %w", sku, err)
	}
	return &product, nil
}

// Create persists a new product, generating its ID when absent. A unique
// SKU violation is reported as ErrDuplicateSKU and leaves the store
// unchanged.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSKU
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update overwrites every mutable field of the record with the given
// values. SKU, ID and CreatedAt are immutable and keep their stored values.
func (r *GORMProductRepository) Update(id string, product *models.Product) (*models.Product, error) {
	var existing models.Product
	if err := r.db.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load product %s for update: %w", id, err)
	}

	existing.Name = product.Name
	existing.Description = product.Description
	existing.Category = product.Category
	existing.Price = product.Price
	existing.Stock = product.Stock
	existing.Status = product.Status
	existing.ImageURL = product.ImageURL

	if err := r.db.Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}
	return &existing, nil
}

// Delete permanently removes a product. Missing records are reported as
// ErrNotFound; the caller decides whether that matters.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountAll returns the total number of products.
func (r *GORMProductRepository) CountAll() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count all products: %w", err)
	}
	return count, nil
}

// SumStock returns the total units in stock across all products.
func (r *GORMProductRepository) SumStock() (int64, error) {
	var total int64
	row := r.db.Model(&models.Product{}).Select("COALESCE(SUM(stock), 0)").Row()
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum stock: %w", err)
	}
	return total, nil
}

// CountLowStock returns how many products hold fewer than threshold units.
func (r *GORMProductRepository) CountLowStock(threshold int) (int64, error) {
	var count int64
	err := r.db.Model(&models.Product{}).
		Where("stock < ?", threshold).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count low-stock products: %w", err)
	}
	return count, nil
}

// CountByCategory returns product counts grouped by category.
func (r *GORMProductRepository) CountByCategory() ([]CategoryCount, error) {
	var rows []CategoryCount
	err := r.db.Model(&models.Product{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("category").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group products by category: %w", err)
	}
	return rows, nil
}

// InventoryValue returns the summed price*stock over all products.
func (r *GORMProductRepository) InventoryValue() (float64, error) {
	var total float64
	row := r.db.Model(&models.Product{}).Select("COALESCE(SUM(price * stock), 0)").Row()
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum inventory value: %w", err)
	}
	return total, nil
}

// Recent returns the most recently created products, newest first.
func (r *GORMProductRepository) Recent(limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Model(&models.Product{}).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent products: %w", err)
	}
	return products, nil
}

// Categories returns the distinct category names in alphabetical order.
func (r *GORMProductRepository) Categories() ([]string, error) {
	var categories []string
	err := r.db.Model(&models.Product{}).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	return categories, nil
}
