package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/meal-cart/internal/config"
	"github.com/foxxcyber/meal-cart/internal/database"
	"github.com/foxxcyber/meal-cart/internal/models"
)

type fakeLists struct {
	lists   map[int64]*models.ShoppingListWithItems
	deleted []int64
	added   *models.AddListItemRequest
	params  *models.ListListParams
}

func newFakeLists(lists ...*models.ShoppingListWithItems) *fakeLists {
	f := &fakeLists{lists: make(map[int64]*models.ShoppingListWithItems)}
	for _, l := range lists {
		f.lists[l.ID] = l
	}
	return f
}

func (f *fakeLists) owned(id int64, userID int) (*models.ShoppingListWithItems, error) {
	l, ok := f.lists[id]
	if !ok {
		return nil, database.ErrListNotFound
	}
	if l.UserID != userID {
		return nil, database.ErrNotListOwner
	}
	return l, nil
}

func (f *fakeLists) ListShoppingLists(_ context.Context, params *models.ListListParams) ([]*models.ShoppingListSummary, int, error) {
	f.params = params
	out := []*models.ShoppingListSummary{}
	for _, l := range f.lists {
		if l.UserID == params.UserID {
			out = append(out, &models.ShoppingListSummary{ID: l.ID, Name: l.Name, ItemCount: l.ItemCount})
		}
	}
	return out, len(out), nil
}

func (f *fakeLists) GetShoppingListByID(_ context.Context, id int64, userID int) (*models.ShoppingListWithItems, error) {
	return f.owned(id, userID)
}

func (f *fakeLists) DeleteShoppingList(_ context.Context, id int64, userID int) error {
	if _, err := f.owned(id, userID); err != nil {
		return database.ErrListNotFound
	}
	delete(f.lists, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeLists) AddItemToList(_ context.Context, listID int64, userID int, req *models.AddListItemRequest) (*models.ShoppingListItem, error) {
	l, err := f.owned(listID, userID)
	if err != nil {
		return nil, err
	}
	f.added = req
	return &models.ShoppingListItem{ID: 100, ListID: l.ID, Position: len(l.Items), Label: req.Label, IsManual: true}, nil
}

func (f *fakeLists) UpdateListItem(_ context.Context, listID int64, itemID int64, userID int, req *models.UpdateListItemRequest) (*models.ShoppingListItem, error) {
	l, err := f.owned(listID, userID)
	if err != nil {
		return nil, err
	}
	for i := range l.Items {
		if l.Items[i].ID == itemID {
			l.Items[i].Checked = req.Checked
			return &l.Items[i], nil
		}
	}
	return nil, database.ErrListItemNotFound
}

type fakeGenerator struct {
	list *models.ShoppingListWithItems
	err  error

	userID   int
	from, to time.Time
	name     *string
	deadline bool
}

func (g *fakeGenerator) Generate(ctx context.Context, userID int, from, to time.Time, name *string) (*models.ShoppingListWithItems, error) {
	g.userID, g.from, g.to, g.name = userID, from, to, name
	_, g.deadline = ctx.Deadline()
	return g.list, g.err
}

type fakeExporter struct {
	err      error
	exported *models.ShoppingListWithItems
	purged   []int64
}

func (e *fakeExporter) Export(_ context.Context, list *models.ShoppingListWithItems) (*models.ExportResult, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.exported = list
	return &models.ExportResult{Key: "lists/3/1/snap.json", Size: 128, DownloadURL: "http://s3.local/lists/3/1/snap.json"}, nil
}

func (e *fakeExporter) DeleteSnapshots(_ context.Context, _ int, listID int64) error {
	e.purged = append(e.purged, listID)
	return e.err
}

type fakeIngredients struct {
	catalogue []models.Ingredient
	created   *models.CreateIngredientRequest
}

func (f *fakeIngredients) ListIngredients(context.Context) ([]models.Ingredient, error) {
	return f.catalogue, nil
}

func (f *fakeIngredients) GetIngredientByID(_ context.Context, id int64) (*models.Ingredient, error) {
	for i := range f.catalogue {
		if f.catalogue[i].ID == id {
			return &f.catalogue[i], nil
		}
	}
	return nil, database.ErrIngredientNotFound
}

func (f *fakeIngredients) CreateIngredient(_ context.Context, req *models.CreateIngredientRequest) (*models.Ingredient, error) {
	f.created = req
	return &models.Ingredient{ID: int64(len(f.catalogue) + 1), Label: req.Label, Aisle: req.Aisle}, nil
}

func testConfig() *config.Config {
	return &config.Config{GenerationTimeout: 5 * time.Second, DuplicateThreshold: 0.85}
}

// newTestApp mounts the routes behind a stand-in for AuthRequired that
// authenticates every request as userID
func newTestApp(h *Handler, userID int) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		return c.Next()
	})

	app.Get("/ingredients", h.ListIngredients)
	app.Get("/ingredients/:id", h.GetIngredient)
	app.Post("/ingredients", h.CreateIngredient)

	app.Get("/lists", h.ListShoppingLists)
	app.Post("/lists/generate", h.GenerateShoppingList)
	app.Get("/lists/:id", h.GetShoppingList)
	app.Delete("/lists/:id", h.DeleteShoppingList)
	app.Post("/lists/:id/items", h.AddItemToList)
	app.Put("/lists/:id/items/:item_id", h.UpdateListItem)
	app.Post("/lists/:id/export", h.ExportShoppingList)
	return app
}

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Meta    *Meta           `json:"meta"`
}

func do(t *testing.T, app *fiber.App, method, target string, body interface{}) (int, response) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHandlersRejectMissingUser(t *testing.T) {
	h := New(newFakeLists(), &fakeIngredients{}, &fakeGenerator{}, nil, testConfig(), nil)
	app := newTestApp(h, 0)

	status, body := do(t, app, http.MethodGet, "/lists", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.False(t, body.Success)
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})

	status, body := do(t, app, http.MethodGet, "/teapot", nil)
	assert.Equal(t, fiber.StatusTeapot, status)
	assert.Equal(t, "short and stout", body.Error)

	status, body = do(t, app, http.MethodGet, "/boom", nil)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Internal Server Error", body.Error)
}
