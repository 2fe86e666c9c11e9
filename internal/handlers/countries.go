package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"econatlas/internal/db"
)

// CountryHandler serves the read side of the country dataset.
type CountryHandler struct {
	db *db.DB
}

// NewCountryHandler creates a new country handler.
func NewCountryHandler(database *db.DB) *CountryHandler {
	return &CountryHandler{db: database}
}

// List returns countries, optionally filtered by region or currency code
// and sorted by estimated GDP.
func (h *CountryHandler) List(c fiber.Ctx) error {
	filter := db.ListFilter{
		Region:       c.Query("region", ""),
		CurrencyCode: c.Query("currency", ""),
		SortByGDP:    c.Query("sort", "") == "gdp",
	}

	if raw := c.Query("limit", ""); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return jsonError(c, fiber.StatusBadRequest, "limit must be a positive integer")
		}
		filter.Limit = limit
	}

	countries, err := h.db.ListCountries(c.Context(), filter)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch countries")
	}

	return jsonSuccess(c, countries)
}

// Get returns a single country by name, case-insensitively.
func (h *CountryHandler) Get(c fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return jsonError(c, fiber.StatusBadRequest, "country name is required")
	}

	country, err := h.db.GetCountryByName(c.Context(), name)
	if err != nil {
		if errors.Is(err, db.ErrCountryNotFound) {
			return jsonError(c, fiber.StatusNotFound, "country not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch country")
	}

	return jsonSuccess(c, country)
}

// Delete removes a single country by name, case-insensitively.
func (h *CountryHandler) Delete(c fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return jsonError(c, fiber.StatusBadRequest, "country name is required")
	}

	if err := h.db.DeleteCountryByName(c.Context(), name); err != nil {
		if errors.Is(err, db.ErrCountryNotFound) {
			return jsonError(c, fiber.StatusNotFound, "country not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete country")
	}

	return jsonSuccess(c, fiber.Map{"deleted": name})
}

// Status returns the total record count and the last refresh timestamp.
func (h *CountryHandler) Status(c fiber.Ctx) error {
	status, err := h.db.GetStatus(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch status")
	}

	return jsonSuccess(c, status)
}
