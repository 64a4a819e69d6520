package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"nexusstore/internal/handlers"
	"nexusstore/internal/middleware"
	"nexusstore/internal/models"
	"nexusstore/internal/repositories"
	"nexusstore/internal/seed"
	"nexusstore/internal/services"
	"nexusstore/pkg/viewcache"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp builds the Fiber app on a fresh in-memory SQLite database with
// the full handler/service/repository wiring and the seeded catalog.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	// A distinct named in-memory database per setup keeps tests isolated.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)

	err = db.AutoMigrate(&models.Product{}, &models.User{})
	assert.NoError(t, err)

	log := zap.NewNop()

	productRepo := repositories.NewGORMProductRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	assert.NoError(t, seed.Run(productRepo, userRepo, log))

	cache := viewcache.New()
	catalogService := services.NewCatalogService(productRepo, cache, nil, log)
	dashboardService := services.NewDashboardService(productRepo, cache, log)
	authService := services.NewAuthService(userRepo, jwtSecret, log)

	authHandler := handlers.NewAuthHandler(authService, log)
	productHandler := handlers.NewProductHandler(catalogService, log)
	wizardHandler := handlers.NewWizardHandler(catalogService, log)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")

	authHandler.RegisterRoutes(apiV1)

	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	wizardHandler.RegisterRoutes(protectedRoutes)
	productHandler.RegisterRoutes(protectedRoutes)
	dashboardHandler.RegisterRoutes(protectedRoutes)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any, out any) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func login(t *testing.T, app *fiber.App) string {
	t.Helper()

	var loginResp map[string]string
	status := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    seed.AdminEmail,
		"password": "admin123",
	}, &loginResp)
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, loginResp["token"])
	return loginResp["token"]
}

func productPayload(name, sku string) map[string]string {
	return map[string]string{
		"name":        name,
		"description": "A nice ceramic mug for tea",
		"price":       "12.5",
		"stock":       "5",
		"category":    "Home",
		"sku":         sku,
		"status":      "ACTIVE",
		"image_url":   "",
	}
}

func TestLoginAndGuardedRoutes(t *testing.T) {
	app := setupApp(t)

	// Wrong password is rejected without detail.
	status := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    seed.AdminEmail,
		"password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// Protected routes without a token.
	status = doJSON(t, app, http.MethodGet, "/api/v1/products", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	status = doJSON(t, app, http.MethodGet, "/api/v1/dashboard", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// With a token the listing renders the seeded catalog.
	token := login(t, app)
	var listing services.ProductListing
	status = doJSON(t, app, http.MethodGet, "/api/v1/products", token, nil, &listing)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(10), listing.TotalItems)
	assert.Len(t, listing.Products, 10)
}

func TestProductCRUDAndSearch(t *testing.T) {
	app := setupApp(t)
	token := login(t, app)

	// Create.
	var created services.ActionResult
	status := doJSON(t, app, http.MethodPost, "/api/v1/products", token,
		productPayload("Mug", "HOM-001"), &created)
	assert.Equal(t, http.StatusCreated, status)
	assert.True(t, created.Success)
	assert.NotEmpty(t, created.Product.ID)

	// The new record leads the listing on the next read.
	var listing services.ProductListing
	status = doJSON(t, app, http.MethodGet, "/api/v1/products", token, nil, &listing)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, created.Product.ID, listing.Products[0].ID)

	// Duplicate SKU is a conflict and leaves the store unchanged.
	var conflict services.ActionResult
	status = doJSON(t, app, http.MethodPost, "/api/v1/products", token,
		productPayload("Another Mug", "HOM-001"), &conflict)
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, conflict.Success)
	assert.Equal(t, []string{"SKU already exists"}, conflict.Errors["sku"])

	var after services.ProductListing
	doJSON(t, app, http.MethodGet, "/api/v1/products", token, nil, &after)
	assert.Equal(t, listing.TotalItems, after.TotalItems)

	// Validation failure maps to 400 with field-level errors.
	bad := productPayload("Mug 2", "HOM-002")
	bad["price"] = "-1"
	var invalid services.ActionResult
	status = doJSON(t, app, http.MethodPost, "/api/v1/products", token, bad, &invalid)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, invalid.Errors, "price")

	// Case-insensitive search over name or SKU.
	var bySearch services.ProductListing
	status = doJSON(t, app, http.MethodGet, "/api/v1/products?query=hom-001", token, nil, &bySearch)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), bySearch.TotalItems)
	assert.Equal(t, "Mug", bySearch.Products[0].Name)

	// Update: fields change, SKU does not.
	update := productPayload("Fancy Mug", "HOM-999")
	var updated services.ActionResult
	status = doJSON(t, app, http.MethodPut, "/api/v1/products/"+created.Product.ID, token, update, &updated)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Fancy Mug", updated.Product.Name)
	assert.Equal(t, "HOM-001", updated.Product.SKU)

	var fetched models.Product
	status = doJSON(t, app, http.MethodGet, "/api/v1/products/"+created.Product.ID, token, nil, &fetched)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Fancy Mug", fetched.Name)

	// Update of a vanished record.
	status = doJSON(t, app, http.MethodPut, "/api/v1/products/"+uuid.New().String(), token, update, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Delete is idempotent: both calls succeed.
	status = doJSON(t, app, http.MethodDelete, "/api/v1/products/"+created.Product.ID, token, nil, nil)
	assert.Equal(t, http.StatusOK, status)
	status = doJSON(t, app, http.MethodDelete, "/api/v1/products/"+created.Product.ID, token, nil, nil)
	assert.Equal(t, http.StatusOK, status)

	status = doJSON(t, app, http.MethodGet, "/api/v1/products/"+created.Product.ID, token, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestPaginationBeyondLastPage(t *testing.T) {
	app := setupApp(t)
	token := login(t, app)

	var page2 services.ProductListing
	status := doJSON(t, app, http.MethodGet, "/api/v1/products?page=2", token, nil, &page2)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, page2.Products)
	assert.Equal(t, int64(10), page2.TotalItems)
}

func TestDashboardOverview(t *testing.T) {
	app := setupApp(t)
	token := login(t, app)

	var overview services.DashboardOverview
	status := doJSON(t, app, http.MethodGet, "/api/v1/dashboard", token, nil, &overview)
	assert.Equal(t, http.StatusOK, status)

	// The seeded catalog has ten products, one of them (stock 8) below the
	// low-stock threshold.
	assert.Equal(t, int64(10), overview.TotalProducts)
	assert.Equal(t, int64(692), overview.TotalStock)
	assert.Equal(t, int64(1), overview.LowStockCount)
	assert.Len(t, overview.Recent, services.RecentLimit)

	var categoryTotal int64
	for _, row := range overview.ByCategory {
		categoryTotal += row.Count
	}
	assert.Equal(t, overview.TotalProducts, categoryTotal)

	// A mutation shows up on the next dashboard read.
	var created services.ActionResult
	status = doJSON(t, app, http.MethodPost, "/api/v1/products", token,
		productPayload("Mug", "HOM-001"), &created)
	assert.Equal(t, http.StatusCreated, status)

	status = doJSON(t, app, http.MethodGet, "/api/v1/dashboard", token, nil, &overview)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(11), overview.TotalProducts)
	assert.Equal(t, created.Product.ID, overview.Recent[0].ID)
}

func TestWizardCreateFlow(t *testing.T) {
	app := setupApp(t)
	token := login(t, app)

	// Start a create-mode session.
	var started map[string]any
	status := doJSON(t, app, http.MethodPost, "/api/v1/products/wizard", token, nil, &started)
	assert.Equal(t, http.StatusCreated, status)
	sessionID := started["session_id"].(string)
	assert.Equal(t, float64(0), started["step"])
	assert.Equal(t, false, started["editing"])

	base := "/api/v1/products/wizard/" + sessionID

	// Advancing with an empty name stays on the first step with an error
	// on that field only.
	var failed map[string]any
	status = doJSON(t, app, http.MethodPost, base+"/advance", token, map[string]string{
		"name":        "",
		"description": "A nice ceramic mug for tea",
		"category":    "Home",
	}, &failed)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, float64(0), failed["step"])
	errs := failed["errors"].(map[string]any)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs, "name")

	// Submitting before the last step is refused.
	status = doJSON(t, app, http.MethodPost, base+"/submit", token, nil, nil)
	assert.Equal(t, http.StatusConflict, status)

	// Walk the steps.
	var state map[string]any
	status = doJSON(t, app, http.MethodPost, base+"/advance", token, map[string]string{
		"name":        "Mug",
		"description": "A nice ceramic mug for tea",
		"category":    "Home",
	}, &state)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Pricing", state["step_name"])

	status = doJSON(t, app, http.MethodPost, base+"/advance", token, map[string]string{
		"price": "12.5",
		"stock": "5",
		"sku":   "HOM-001",
	}, &state)
	assert.Equal(t, http.StatusOK, status)

	// Back and forward again: retreat never re-validates.
	status = doJSON(t, app, http.MethodPost, base+"/back", token, nil, &state)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Pricing", state["step_name"])
	status = doJSON(t, app, http.MethodPost, base+"/advance", token, map[string]string{}, &state)
	assert.Equal(t, http.StatusOK, status)

	status = doJSON(t, app, http.MethodPost, base+"/advance", token, map[string]string{
		"image_url": "",
	}, &state)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Review", state["step_name"])

	// Submit from the last step creates the record and ends the session.
	var result services.ActionResult
	status = doJSON(t, app, http.MethodPost, base+"/submit", token, map[string]string{
		"status": "ACTIVE",
	}, &result)
	assert.Equal(t, http.StatusCreated, status)
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.Product.ID)

	status = doJSON(t, app, http.MethodGet, base, token, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// The created record is in the listing.
	var listing services.ProductListing
	doJSON(t, app, http.MethodGet, "/api/v1/products?query=HOM-001", token, nil, &listing)
	assert.Equal(t, int64(1), listing.TotalItems)
}

func TestWizardEditFlow(t *testing.T) {
	app := setupApp(t)
	token := login(t, app)

	// Pick a seeded record to edit.
	var listing services.ProductListing
	doJSON(t, app, http.MethodGet, "/api/v1/products?query=FIT-MAT-YOGA", token, nil, &listing)
	assert.Equal(t, int64(1), listing.TotalItems)
	existing := listing.Products[0]

	var started map[string]any
	status := doJSON(t, app, http.MethodPost, "/api/v1/products/wizard", token, map[string]string{
		"product_id": existing.ID,
	}, &started)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, started["editing"])
	values := started["values"].(map[string]any)
	assert.Equal(t, existing.Name, values["name"])
	assert.Equal(t, existing.SKU, values["sku"])

	base := "/api/v1/products/wizard/" + started["session_id"].(string)

	// Pre-populated fields validate as-is; only the stock changes.
	var state map[string]any
	for _, input := range []map[string]string{
		nil,
		{"stock": "60"},
		nil,
	} {
		status = doJSON(t, app, http.MethodPost, base+"/advance", token, input, &state)
		assert.Equal(t, http.StatusOK, status)
	}

	var result services.ActionResult
	status = doJSON(t, app, http.MethodPost, base+"/submit", token, nil, &result)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, result.Success)
	assert.Equal(t, 60, result.Product.Stock)
	assert.Equal(t, existing.SKU, result.Product.SKU)

	// Starting a wizard for a vanished record.
	status = doJSON(t, app, http.MethodPost, "/api/v1/products/wizard", token, map[string]string{
		"product_id": uuid.New().String(),
	}, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCategoriesEndpoint(t *testing.T) {
	app := setupApp(t)
	token := login(t, app)

	var resp struct {
		Categories []string `json:"categories"`
	}
	status := doJSON(t, app, http.MethodGet, "/api/v1/products/categories", token, nil, &resp)
	assert.Equal(t, http.StatusOK, status)

	// The seed uses seven distinct categories; Electronics appears four
	// times but is listed once.
	assert.Len(t, resp.Categories, 7)
	assert.Contains(t, resp.Categories, "Electronics")
}
