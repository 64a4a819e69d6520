package handlers

import (
	"errors"
	"fmt"

	"nexusstore/internal/repositories"
	"nexusstore/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	catalog *services.CatalogService
	log     *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(catalog *services.CatalogService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		log:     log,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleList)
	productRoutes.Get("/categories", h.HandleCategories)
	productRoutes.Get("/:id", h.HandleGetByID)
	productRoutes.Post("/", h.HandleCreate)
	productRoutes.Put("/:id", h.HandleUpdate)
	productRoutes.Delete("/:id", h.HandleDelete)
}

// actionStatus maps an ActionResult to an HTTP status code.
func actionStatus(result services.ActionResult) int {
	switch {
	case result.Success:
		return fiber.StatusOK
	case result.NotFound:
		return fiber.StatusNotFound
	case result.Conflict:
		return fiber.StatusConflict
	case result.Errors != nil:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// HandleList retrieves one page of the filtered product listing.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	query := c.Query("query")
	page := c.QueryInt("page", 1)

	listing := h.catalog.ListProducts(query, page)
	return c.JSON(listing)
}

// HandleCategories retrieves the distinct category names.
func (h *ProductHandler) HandleCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"categories": h.catalog.ProductCategories(),
	})
}

// HandleGetByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetByID(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.catalog.GetProduct(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with ID %s not found", productID),
			})
		}
		h.log.Error("failed to get product", zap.String("product_id", productID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
		})
	}
	return c.JSON(product)
}

// HandleCreate creates a new product from a form-shaped payload.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var raw map[string]string
	if err := c.BodyParser(&raw); err != nil {
		h.log.Warn("failed to parse create request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	result := h.catalog.CreateProduct(raw)
	status := actionStatus(result)
	if result.Success {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(result)
}

// HandleUpdate overwrites an existing product. The stored SKU is kept
// regardless of the payload.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	var raw map[string]string
	if err := c.BodyParser(&raw); err != nil {
		h.log.Warn("failed to parse update request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	result := h.catalog.UpdateProduct(c.Params("id"), raw)
	return c.Status(actionStatus(result)).JSON(result)
}

// HandleDelete permanently removes a product. The operation is idempotent,
// so a vanished record still reports success.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	result := h.catalog.DeleteProduct(c.Params("id"))
	return c.Status(actionStatus(result)).JSON(result)
}
