package repositories

import (
	"sort"
	"strings"
	"sync"
	"time"

	"nexusstore/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	mu       sync.RWMutex
	products map[string]models.Product
	seq      map[string]int64 // insertion order, breaks created_at ties
	nextSeq  int64
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
		seq:      make(map[string]int64),
	}
}

// sorted returns all products, most recently created first. Callers must
// hold at least a read lock.
func (r *MockProductRepository) sorted() []models.Product {
	list := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return r.seq[list[i].ID] > r.seq[list[j].ID]
	})
	return list
}

func matches(p models.Product, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.SKU), q)
}

// List returns one page of matching products, newest first.
func (r *MockProductRepository) List(q ListQuery) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := q.PerPage
	if perPage <= 0 {
		perPage = DefaultPageSize
	}

	var filtered []models.Product
	for _, p := range r.sorted() {
		if matches(p, q.Query) {
			filtered = append(filtered, p)
		}
	}

	start := (page - 1) * perPage
	if start >= len(filtered) {
		return []models.Product{}, nil
	}
	end := start + perPage
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], nil
}

// Count returns the number of products matching the filter.
func (r *MockProductRepository) Count(query string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, p := range r.products {
		if matches(p, query) {
			count++
		}
	}
	return count, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &product, nil
}

// GetBySKU returns a product by its SKU.
func (r *MockProductRepository) GetBySKU(sku string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.SKU == sku {
			product := p
			return &product, nil
		}
	}
	return nil, ErrNotFound
}

// Create adds a new product, rejecting duplicate SKUs.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.SKU == product.SKU {
			return ErrDuplicateSKU
		}
	}

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	r.nextSeq++
	r.seq[product.ID] = r.nextSeq
	r.products[product.ID] = *product
	return nil
}

// Update overwrites the mutable fields of an existing product. SKU, ID and
// CreatedAt keep their stored values.
func (r *MockProductRepository) Update(id string, product *models.Product) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}

	existing.Name = product.Name
	existing.Description = product.Description
	existing.Category = product.Category
	existing.Price = product.Price
	existing.Stock = product.Stock
	existing.Status = product.Status
	existing.ImageURL = product.ImageURL
	existing.UpdatedAt = time.Now()

	r.products[id] = existing
	return &existing, nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.products, id)
	delete(r.seq, id)
	return nil
}

// CountAll returns the total number of products.
func (r *MockProductRepository) CountAll() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products)), nil
}

// SumStock returns the total units in stock.
func (r *MockProductRepository) SumStock() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total int64
	for _, p := range r.products {
		total += int64(p.Stock)
	}
	return total, nil
}

// CountLowStock returns how many products hold fewer than threshold units.
func (r *MockProductRepository) CountLowStock(threshold int) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, p := range r.products {
		if p.Stock < threshold {
			count++
		}
	}
	return count, nil
}

// CountByCategory returns product counts grouped by category, sorted by
// category name.
func (r *MockProductRepository) CountByCategory() ([]CategoryCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int64)
	for _, p := range r.products {
		counts[p.Category]++
	}

	rows := make([]CategoryCount, 0, len(counts))
	for category, count := range counts {
		rows = append(rows, CategoryCount{Category: category, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Category < rows[j].Category
	})
	return rows, nil
}

// InventoryValue returns the summed price*stock over all products.
func (r *MockProductRepository) InventoryValue() (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total float64
	for _, p := range r.products {
		total += p.Price * float64(p.Stock)
	}
	return total, nil
}

// Recent returns the most recently created products, newest first.
func (r *MockProductRepository) Recent(limit int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.sorted()
	if limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

// Categories returns the distinct category names in alphabetical order.
func (r *MockProductRepository) Categories() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var categories []string
	for _, p := range r.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}
