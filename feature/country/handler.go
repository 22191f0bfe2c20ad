package country

import (
	"errors"

	"country-registry/core/apperrors"
	"country-registry/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var (
	errSyncUnavailable = errors.New("sync is not configured")
	errInvalidJSON     = errors.New("invalid JSON")
)

// Handler handles HTTP requests for countries.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the country routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/countries")
	group.Get("/list", h.HandleList)
	group.Post("/", h.HandleCreate)
	group.Post("/sync", h.HandleSync)
	group.Get("/:id<int>", h.HandleGet)
	group.Patch("/:id<int>", h.HandleUpdate)
	group.Delete("/:id<int>", h.HandleDelete)
}

// HandleList returns a page of countries with their currency.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	countries, err := h.service.List(c.UserContext(), c.QueryInt("limit", defaultListLimit), c.QueryInt("offset", 0))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Countries retrieved successfully",
		"data":    countries,
	})
}

// HandleGet returns a single country.
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	id, err := countryID(c)
	if err != nil {
		return h.fail(c, err)
	}

	country, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Country retrieved successfully",
		"data":    country,
	})
}

// HandleCreate creates a country.
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var req CreateCountryRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, errInvalidJSON)
	}

	country, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Country created successfully",
		"data":    country,
	})
}

// HandleUpdate partially updates a country.
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	id, err := countryID(c)
	if err != nil {
		return h.fail(c, err)
	}

	var req UpdateCountryRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, errInvalidJSON)
	}

	country, err := h.service.Update(c.UserContext(), id, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Country updated successfully",
		"data":    country,
	})
}

// HandleDelete deletes a country.
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	id, err := countryID(c)
	if err != nil {
		return h.fail(c, err)
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Country deleted successfully",
		"data":    nil,
	})
}

// HandleSync runs a synchronization. ?dryRun=true only reports the counts.
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	result, err := h.service.Sync(c.UserContext(), c.QueryBool("dryRun", false))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Countries synchronized successfully",
		"data":    result,
	})
}

func countryID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, apperrors.ErrNotFound
	}
	return uint(id), nil
}

// fail writes err in the API error format {"error", "status", "errors"}.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	body := fiber.Map{"error": "Internal server error"}

	var validationErr *ValidationError
	switch {
	case errors.Is(err, errInvalidJSON):
		status = fiber.StatusBadRequest
		body["error"] = "Invalid JSON"
	case errors.As(err, &validationErr):
		status = fiber.StatusBadRequest
		body["error"] = "Validation failed"
		body["errors"] = validationErr.Fields
	case errors.Is(err, apperrors.ErrValidation):
		status = fiber.StatusBadRequest
		body["error"] = "Validation failed"
	case errors.Is(err, apperrors.ErrNotFound):
		status = fiber.StatusNotFound
		body["error"] = "Country not found"
	case errors.Is(err, apperrors.ErrConflict):
		status = fiber.StatusConflict
		body["error"] = "Conflicting write, retry the request"
	case errors.Is(err, apperrors.ErrFetch):
		status = fiber.StatusBadGateway
		body["error"] = "Country source unavailable"
	case errors.Is(err, errSyncUnavailable):
		status = fiber.StatusServiceUnavailable
		body["error"] = "Sync is not configured"
	}
	body["status"] = status

	l := logger.WithRayID(h.service.logger, c)
	if status >= fiber.StatusInternalServerError {
		l.Error("Country request failed", zap.Error(err), zap.String("path", c.Path()))
	} else {
		l.Warn("Country request rejected", zap.Error(err), zap.String("path", c.Path()))
	}

	return c.Status(status).JSON(body)
}
