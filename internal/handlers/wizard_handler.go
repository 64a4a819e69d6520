package handlers

import (
	"errors"
	"sync"

	"nexusstore/internal/repositories"
	"nexusstore/internal/services"
	"nexusstore/internal/wizard"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WizardHandler drives multi-step form sessions over HTTP. Sessions live
// in memory, keyed by a generated id, and are removed on successful
// submit.
type WizardHandler struct {
	catalog  *services.CatalogService
	log      *zap.Logger
	mu       sync.Mutex
	sessions map[string]*wizard.Wizard
}

// NewWizardHandler creates a new WizardHandler.
func NewWizardHandler(catalog *services.CatalogService, log *zap.Logger) *WizardHandler {
	return &WizardHandler{
		catalog:  catalog,
		log:      log,
		sessions: make(map[string]*wizard.Wizard),
	}
}

// RegisterRoutes registers the wizard routes with the Fiber app.
func (h *WizardHandler) RegisterRoutes(router fiber.Router) {
	wizardRoutes := router.Group("/products/wizard")
	wizardRoutes.Post("/", h.HandleStart)
	wizardRoutes.Get("/:id", h.HandleState)
	wizardRoutes.Post("/:id/advance", h.HandleAdvance)
	wizardRoutes.Post("/:id/back", h.HandleRetreat)
	wizardRoutes.Post("/:id/submit", h.HandleSubmit)
}

// StartWizardRequest optionally names an existing record to edit.
type StartWizardRequest struct {
	ProductID string `json:"product_id"`
}

func (h *WizardHandler) state(sessionID string, w *wizard.Wizard) fiber.Map {
	return fiber.Map{
		"session_id": sessionID,
		"step":       w.Step(),
		"step_name":  w.StepName(),
		"steps":      wizard.Steps,
		"editing":    w.Editing(),
		"values":     w.Values(),
	}
}

// HandleStart opens a wizard session, pre-populated from an existing
// record when product_id is given.
func (h *WizardHandler) HandleStart(c *fiber.Ctx) error {
	var req StartWizardRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid request body",
				"error":   err.Error(),
			})
		}
	}

	var w *wizard.Wizard
	if req.ProductID != "" {
		product, err := h.catalog.GetProduct(req.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"message": "Product not found",
				})
			}
			h.log.Error("failed to load product for wizard", zap.String("product_id", req.ProductID), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not start wizard",
			})
		}
		w = wizard.NewForProduct(h.catalog.Validator(), h.catalog, product)
	} else {
		w = wizard.New(h.catalog.Validator(), h.catalog)
	}

	sessionID := uuid.New().String()
	h.mu.Lock()
	h.sessions[sessionID] = w
	h.mu.Unlock()

	return c.Status(fiber.StatusCreated).JSON(h.state(sessionID, w))
}

// session looks up a wizard session; the caller holds no lock.
func (h *WizardHandler) session(id string) (*wizard.Wizard, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	w, ok := h.sessions[id]
	return w, ok
}

// HandleState reports the current step and accumulated values.
func (h *WizardHandler) HandleState(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	w, ok := h.session(sessionID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Wizard session not found",
		})
	}
	return c.JSON(h.state(sessionID, w))
}

// HandleAdvance validates the current step's fields and moves forward.
func (h *WizardHandler) HandleAdvance(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	w, ok := h.session(sessionID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Wizard session not found",
		})
	}

	var raw map[string]string
	if err := c.BodyParser(&raw); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	h.mu.Lock()
	fieldErrs, err := w.Advance(raw)
	h.mu.Unlock()

	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": err.Error(),
		})
	}
	if fieldErrs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"errors":  fieldErrs,
			"step":    w.Step(),
		})
	}
	return c.JSON(h.state(sessionID, w))
}

// HandleRetreat moves back one step without re-validation.
func (h *WizardHandler) HandleRetreat(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	w, ok := h.session(sessionID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Wizard session not found",
		})
	}

	h.mu.Lock()
	err := w.Retreat()
	h.mu.Unlock()

	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": err.Error(),
		})
	}
	return c.JSON(h.state(sessionID, w))
}

// HandleSubmit validates the aggregated record and dispatches it to the
// create or update action. Success ends the session.
func (h *WizardHandler) HandleSubmit(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	w, ok := h.session(sessionID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Wizard session not found",
		})
	}

	var raw map[string]string
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&raw); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid request body",
				"error":   err.Error(),
			})
		}
	}

	h.mu.Lock()
	result, err := w.Submit(raw)
	if err == nil && result.Success {
		delete(h.sessions, sessionID)
	}
	h.mu.Unlock()

	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	status := actionStatus(result)
	if result.Success && !w.Editing() {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(result)
}
