package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/foxxcyber/meal-cart/internal/config"
	"github.com/foxxcyber/meal-cart/internal/models"
	"github.com/foxxcyber/meal-cart/internal/services"
)

// ListStore is the shopping list persistence used by the handlers
type ListStore interface {
	ListShoppingLists(ctx context.Context, params *models.ListListParams) ([]*models.ShoppingListSummary, int, error)
	GetShoppingListByID(ctx context.Context, id int64, userID int) (*models.ShoppingListWithItems, error)
	DeleteShoppingList(ctx context.Context, id int64, userID int) error
	AddItemToList(ctx context.Context, listID int64, userID int, req *models.AddListItemRequest) (*models.ShoppingListItem, error)
	UpdateListItem(ctx context.Context, listID int64, itemID int64, userID int, req *models.UpdateListItemRequest) (*models.ShoppingListItem, error)
}

// IngredientStore is the ingredient catalogue used by the handlers
type IngredientStore interface {
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	GetIngredientByID(ctx context.Context, id int64) (*models.Ingredient, error)
	CreateIngredient(ctx context.Context, req *models.CreateIngredientRequest) (*models.Ingredient, error)
}

// ListGenerator builds a shopping list from the meal plan
type ListGenerator interface {
	Generate(ctx context.Context, userID int, from, to time.Time, name *string) (*models.ShoppingListWithItems, error)
}

// ListExporter writes list snapshots to object storage
type ListExporter interface {
	Export(ctx context.Context, list *models.ShoppingListWithItems) (*models.ExportResult, error)
	DeleteSnapshots(ctx context.Context, userID int, listID int64) error
}

// Handler holds all handler dependencies
type Handler struct {
	lists       ListStore
	ingredients IngredientStore
	generator   ListGenerator
	exporter    ListExporter
	matcher     *services.IngredientMatcher
	cfg         *config.Config
	logger      *zap.Logger
}

// New creates a new Handler instance. exporter may be nil when snapshot storage
// is disabled.
func New(lists ListStore, ingredients IngredientStore, generator ListGenerator, exporter ListExporter, cfg *config.Config, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		lists:       lists,
		ingredients: ingredients,
		generator:   generator,
		exporter:    exporter,
		matcher:     services.NewIngredientMatcher(cfg.DuplicateThreshold),
		cfg:         cfg,
		logger:      logger,
	}
}

// ErrorHandler is a custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	// Default to 500
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}

// APIResponse is a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta contains pagination metadata
type Meta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Success returns a successful response
func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// Created returns a 201 response
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMeta returns a successful response with pagination
func SuccessWithMeta(c *fiber.Ctx, data interface{}, total, limit, offset int) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Total:  total,
			Limit:  limit,
			Offset: offset,
		},
	})
}

// Error returns an error response
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}
