package services

import (
	"errors"
	"fmt"

	"nexusstore/internal/models"
	"nexusstore/internal/repositories"
	"nexusstore/internal/schema"
	"nexusstore/pkg/rabbitmq"
	"nexusstore/pkg/viewcache"

	"go.uber.org/zap"
)

// View tags used for cache invalidation. Every mutation invalidates the
// listing and dashboard views so the next read reflects the change.
const (
	ViewProducts  = "products"
	ViewDashboard = "dashboard"
)

// Catalog change events published to the message queue.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// productView is the invalidation tag for a single record's view.
func productView(id string) string {
	return "product:" + id
}

// ActionResult is the structured outcome of a mutating catalog action.
// Nothing below the service boundary propagates as an unhandled fault.
type ActionResult struct {
	Success  bool               `json:"success"`
	Errors   schema.FieldErrors `json:"errors,omitempty"`
	Message  string             `json:"message,omitempty"`
	NotFound bool               `json:"-"`
	Conflict bool               `json:"-"`
	Product  *models.Product    `json:"product,omitempty"`
}

// ProductListing is one page of the product list view.
type ProductListing struct {
	Products   []models.Product `json:"products"`
	TotalItems int64            `json:"total_items"`
	TotalPages int              `json:"total_pages"`
	Page       int              `json:"page"`
	PerPage    int              `json:"per_page"`
}

// CatalogService implements the catalog actions: validate, perform exactly
// one store operation, then invalidate the affected views and publish a
// change event.
type CatalogService struct {
	repo      repositories.ProductRepository
	validator *schema.ProductValidator
	cache     *viewcache.Cache
	mqClient  *rabbitmq.Client
	log       *zap.Logger
}

// NewCatalogService creates a new CatalogService. mqClient may be nil, in
// which case events are skipped.
func NewCatalogService(repo repositories.ProductRepository, cache *viewcache.Cache, mqClient *rabbitmq.Client, log *zap.Logger) *CatalogService {
	return &CatalogService{
		repo:      repo,
		validator: schema.NewProductValidator(),
		cache:     cache,
		mqClient:  mqClient,
		log:       log,
	}
}

// Validator exposes the product validator for per-step wizard checks.
func (s *CatalogService) Validator() *schema.ProductValidator {
	return s.validator
}

// CreateProduct validates the raw payload and persists a new product.
// A duplicate SKU leaves the store unchanged and is reported as a
// field-level error.
func (s *CatalogService) CreateProduct(raw map[string]string) ActionResult {
	data, fieldErrs := s.validator.Validate(raw)
	if fieldErrs != nil {
		return ActionResult{Success: false, Errors: fieldErrs}
	}

	product := productFromData(data)
	if err := s.repo.Create(product); err != nil {
		if errors.Is(err, repositories.ErrDuplicateSKU) {
			return ActionResult{
				Success:  false,
				Conflict: true,
				Message:  "Failed to save product",
				Errors:   schema.FieldErrors{schema.FieldSKU: {"SKU already exists"}},
			}
		}
		s.log.Error("failed to create product", zap.String("sku", data.SKU), zap.Error(err))
		return ActionResult{Success: false, Message: "Failed to create product"}
	}

	s.cache.Invalidate(ViewProducts, ViewDashboard)
	s.publish(EventProductCreated, product)
	return ActionResult{Success: true, Product: product}
}

// UpdateProduct validates the raw payload and overwrites the record. The
// stored SKU is immutable: a different sku in the payload is ignored, not
// an error.
func (s *CatalogService) UpdateProduct(id string, raw map[string]string) ActionResult {
	data, fieldErrs := s.validator.Validate(raw)
	if fieldErrs != nil {
		return ActionResult{Success: false, Errors: fieldErrs}
	}

	updated, err := s.repo.Update(id, productFromData(data))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ActionResult{Success: false, NotFound: true, Message: "Product not found"}
		}
		s.log.Error("failed to update product", zap.String("product_id", id), zap.Error(err))
		return ActionResult{Success: false, Message: "Failed to update product"}
	}

	s.cache.Invalidate(ViewProducts, ViewDashboard, productView(id))
	s.publish(EventProductUpdated, updated)
	return ActionResult{Success: true, Product: updated}
}

// DeleteProduct permanently removes a record. Deleting an id that no
// longer exists is success: the desired end state already holds.
func (s *CatalogService) DeleteProduct(id string) ActionResult {
	err := s.repo.Delete(id)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		s.log.Error("failed to delete product", zap.String("product_id", id), zap.Error(err))
		return ActionResult{Success: false, Message: "Failed to delete product"}
	}

	s.cache.Invalidate(ViewProducts, ViewDashboard, productView(id))
	if err == nil {
		s.publish(EventProductDeleted, &models.Product{ID: id})
	}
	return ActionResult{Success: true}
}

// ListProducts returns one page of the filtered listing, newest first.
// Store failures degrade to an empty page so the view still renders.
func (s *CatalogService) ListProducts(query string, page int) ProductListing {
	if page < 1 {
		page = 1
	}
	key := fmt.Sprintf("products:list:%q:%d", query, page)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(ProductListing)
	}

	listing := ProductListing{
		Products: []models.Product{},
		Page:     page,
		PerPage:  repositories.DefaultPageSize,
	}

	products, err := s.repo.List(repositories.ListQuery{Query: query, Page: page})
	if err != nil {
		s.log.Error("failed to list products", zap.String("query", query), zap.Error(err))
		return listing
	}
	total, err := s.repo.Count(query)
	if err != nil {
		s.log.Error("failed to count products", zap.String("query", query), zap.Error(err))
		return listing
	}

	listing.Products = products
	listing.TotalItems = total
	listing.TotalPages = int((total + repositories.DefaultPageSize - 1) / repositories.DefaultPageSize)

	s.cache.Set(key, listing, ViewProducts)
	return listing
}

// GetProduct returns a single record. Unlike the listing this does not
// degrade: edit and delete flows need to distinguish a vanished record.
func (s *CatalogService) GetProduct(id string) (*models.Product, error) {
	key := "products:one:" + id
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*models.Product), nil
	}

	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, product, productView(id))
	return product, nil
}

// ProductCategories returns the distinct category names for display,
// degrading to empty on store failure.
func (s *CatalogService) ProductCategories() []string {
	categories, err := s.repo.Categories()
	if err != nil {
		s.log.Error("failed to load categories", zap.Error(err))
		return []string{}
	}
	return categories
}

func (s *CatalogService) publish(event string, product *models.Product) {
	if s.mqClient == nil {
		return
	}
	payload := map[string]any{
		"product_id": product.ID,
		"sku":        product.SKU,
	}
	if err := s.mqClient.PublishCatalogEvent(event, payload); err != nil {
		s.log.Warn("failed to publish catalog event",
			zap.String("event", event),
			zap.String("product_id", product.ID),
			zap.Error(err))
	}
}

func productFromData(data *schema.ProductData) *models.Product {
	return &models.Product{
		Name:        data.Name,
		Description: data.Description,
		Category:    data.Category,
		Price:       data.Price,
		Stock:       data.Stock,
		SKU:         data.SKU,
		Status:      models.ProductStatus(data.Status),
		ImageURL:    data.ImageURL,
	}
}
