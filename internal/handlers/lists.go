package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/foxxcyber/meal-cart/internal/database"
	"github.com/foxxcyber/meal-cart/internal/middleware"
	"github.com/foxxcyber/meal-cart/internal/models"
	"github.com/foxxcyber/meal-cart/internal/services"
)

const requestDateLayout = "2006-01-02"

// getUserID extracts user ID from context using the middleware helper
func getUserID(c *fiber.Ctx) (int, error) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return 0, errors.New("user not authenticated")
	}
	return userID, nil
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	return strconv.ParseInt(c.Params(name), 10, 64)
}

// listError maps persistence errors to responses
func listError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, database.ErrListNotFound):
		return Error(c, fiber.StatusNotFound, "shopping list not found")
	case errors.Is(err, database.ErrNotListOwner):
		return Error(c, fiber.StatusForbidden, "you do not own this list")
	case errors.Is(err, database.ErrListItemNotFound):
		return Error(c, fiber.StatusNotFound, "list item not found")
	}
	return Error(c, fiber.StatusInternalServerError, fallback)
}

// GenerateShoppingList builds a shopping list from the meals scheduled in a date range
func (h *Handler) GenerateShoppingList(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, err.Error())
	}

	var req models.GenerateListRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	from, err := time.Parse(requestDateLayout, req.From)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "from must be a date formatted as YYYY-MM-DD")
	}
	to, err := time.Parse(requestDateLayout, req.To)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "to must be a date formatted as YYYY-MM-DD")
	}

	ctx := c.UserContext()
	if h.cfg.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.GenerationTimeout)
		defer cancel()
	}

	list, err := h.generator.Generate(ctx, userID, from, to, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDateRange):
			return Error(c, fiber.StatusBadRequest, "from must not be after to")
		case errors.Is(err, services.ErrNoMealPlanEntries):
			return Error(c, fiber.StatusNotFound, "no upcoming meals planned in this date range")
		case errors.Is(err, services.ErrDataIntegrity):
			return Error(c, fiber.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, context.DeadlineExceeded):
			return Error(c, fiber.StatusGatewayTimeout, "shopping list generation timed out")
		}
		h.logger.Error("shopping list generation failed", zap.Int("user_id", userID), zap.Error(err))
		return Error(c, fiber.StatusInternalServerError, "failed to generate shopping list")
	}

	return Created(c, list)
}

// ListShoppingLists returns all shopping lists for the current user
func (h *Handler) ListShoppingLists(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, err.Error())
	}

	params := &models.ListListParams{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
		UserID: userID,
	}

	// Validate limits
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 50
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	lists, total, err := h.lists.ListShoppingLists(c.UserContext(), params)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list shopping lists")
	}

	return SuccessWithMeta(c, lists, total, params.Limit, params.Offset)
}

// GetShoppingList returns a single shopping list with items
func (h *Handler) GetShoppingList(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, err.Error())
	}

	id, err := paramID(c, "id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid list id")
	}

	list, err := h.lists.GetShoppingListByID(c.UserContext(), id, userID)
	if err != nil {
		return listError(c, err, "failed to get shopping list")
	}

	return Success(c, list)
}

// DeleteShoppingList deletes a shopping list and its exported snapshots
func (h *Handler) DeleteShoppingList(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, err.Error())
	}

	id, err := paramID(c, "id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid list id")
	}

	if err := h.lists.DeleteShoppingList(c.UserContext(), id, userID); err != nil {
		return listError(c, err, "failed to delete shopping list")
	}

	if h.exporter != nil {
		if err := h.exporter.DeleteSnapshots(c.UserContext(), userID, id); err != nil {
			h.logger.Warn("failed to delete list snapshots", zap.Int64("list_id", id), zap.Error(err))
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "shopping list deleted successfully",
	})
}

// AddItemToList adds a free-text item to a shopping list
func (h *Handler) AddItemToList(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, err.Error())
	}

	listID, err := paramID(c, "id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid list id")
	}

	var req models.AddListItemRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	// Validate required fields
	req.Label = strings.TrimSpace(req.Label)
	if req.Label == "" {
		return Error(c, fiber.StatusBadRequest, "label is required")
	}
	if req.Aisle != nil && !req.Aisle.Valid() {
		return Error(c, fiber.StatusBadRequest, "unknown aisle")
	}
	if req.Quantity != nil && *req.Quantity <= 0 {
		return Error(c, fiber.StatusBadRequest, "quantity must be positive")
	}

	item, err := h.lists.AddItemToList(c.UserContext(), listID, userID, &req)
	if err != nil {
		return listError(c, err, "failed to add item to list")
	}

	return Created(c, item)
}

// UpdateListItem checks or unchecks an item of a shopping list
func (h *Handler) UpdateListItem(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, err.Error())
	}

	listID, err := paramID(c, "id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid list id")
	}

	itemID, err := paramID(c, "item_id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid item id")
	}

	var req models.UpdateListItemRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	item, err := h.lists.UpdateListItem(c.UserContext(), listID, itemID, userID, &req)
	if err != nil {
		return listError(c, err, "failed to update list item")
	}

	return Success(c, item)
}

// ExportShoppingList uploads a JSON snapshot of a list and returns a download link
func (h *Handler) ExportShoppingList(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, err.Error())
	}

	if h.exporter == nil {
		return Error(c, fiber.StatusServiceUnavailable, services.ErrStorageDisabled.Error())
	}

	id, err := paramID(c, "id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid list id")
	}

	list, err := h.lists.GetShoppingListByID(c.UserContext(), id, userID)
	if err != nil {
		return listError(c, err, "failed to get shopping list")
	}

	result, err := h.exporter.Export(c.UserContext(), list)
	if err != nil {
		h.logger.Error("list export failed", zap.Int64("list_id", id), zap.Error(err))
		return Error(c, fiber.StatusInternalServerError, "failed to export shopping list")
	}

	return Created(c, result)
}
