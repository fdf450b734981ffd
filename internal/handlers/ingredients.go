package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/meal-cart/internal/database"
	"github.com/foxxcyber/meal-cart/internal/models"
	"github.com/foxxcyber/meal-cart/internal/services"
)

// DuplicateIngredient is returned when a new label matches an existing ingredient
type DuplicateIngredient struct {
	Existing   models.Ingredient `json:"existing"`
	Confidence float64           `json:"confidence"`
	Level      string            `json:"level"`
}

// ListIngredients returns the ingredient catalogue
func (h *Handler) ListIngredients(c *fiber.Ctx) error {
	ingredients, err := h.ingredients.ListIngredients(c.UserContext())
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list ingredients")
	}

	return Success(c, ingredients)
}

// GetIngredient returns a single ingredient
func (h *Handler) GetIngredient(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid ingredient id")
	}

	ingredient, err := h.ingredients.GetIngredientByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, database.ErrIngredientNotFound) {
			return Error(c, fiber.StatusNotFound, "ingredient not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get ingredient")
	}

	return Success(c, ingredient)
}

// CreateIngredient adds an ingredient unless its label duplicates an existing
// one. Pass ?force=true to skip duplicate detection.
func (h *Handler) CreateIngredient(c *fiber.Ctx) error {
	var req models.CreateIngredientRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Label = strings.TrimSpace(req.Label)
	if req.Label == "" {
		return Error(c, fiber.StatusBadRequest, "label is required")
	}
	if req.Aisle != nil && !req.Aisle.Valid() {
		return Error(c, fiber.StatusBadRequest, "unknown aisle")
	}

	if !c.QueryBool("force", false) {
		existing, err := h.ingredients.ListIngredients(c.UserContext())
		if err != nil {
			return Error(c, fiber.StatusInternalServerError, "failed to check for duplicates")
		}

		if match, confidence, ok := h.matcher.FindDuplicate(req.Label, existing); ok {
			return c.Status(fiber.StatusConflict).JSON(APIResponse{
				Success: false,
				Error:   "an ingredient with a similar label already exists",
				Data: DuplicateIngredient{
					Existing:   *match,
					Confidence: confidence,
					Level:      services.GetMatchConfidenceLevel(confidence),
				},
			})
		}
	}

	ingredient, err := h.ingredients.CreateIngredient(c.UserContext(), &req)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to create ingredient")
	}

	return Created(c, ingredient)
}
