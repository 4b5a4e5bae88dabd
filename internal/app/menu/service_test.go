package menu

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafeteria-backend/internal/domain"
	"cafeteria-backend/internal/interfaces"
)

type nopLogger struct{}

func (nopLogger) Info(string, string, string, map[string]interface{})         {}
func (nopLogger) Warn(string, string, string, map[string]interface{})         {}
func (nopLogger) Debug(string, string, string, map[string]interface{})        {}
func (nopLogger) Error(string, string, string, map[string]interface{}, error) {}

type fakeMenuRepo struct {
	items  map[int]*domain.MenuItem
	nextID int
}

func newFakeMenuRepo() *fakeMenuRepo {
	return &fakeMenuRepo{items: make(map[int]*domain.MenuItem), nextID: 1}
}

func (r *fakeMenuRepo) copyItem(item *domain.MenuItem) *domain.MenuItem {
	out := *item
	out.Recipe = make([]domain.RecipeLine, len(item.Recipe))
	copy(out.Recipe, item.Recipe)
	return &out
}

func (r *fakeMenuRepo) ListAll(context.Context) ([]domain.MenuItem, error) {
	var out []domain.MenuItem
	for id := 1; id < r.nextID; id++ {
		if item, ok := r.items[id]; ok {
			out = append(out, *r.copyItem(item))
		}
	}
	return out, nil
}

func (r *fakeMenuRepo) ListAvailable(ctx context.Context) ([]domain.MenuItem, error) {
	all, _ := r.ListAll(ctx)
	var out []domain.MenuItem
	for _, item := range all {
		if item.Available {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeMenuRepo) Get(_ context.Context, id int) (*domain.MenuItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, domain.NotFound("menu item")
	}
	return r.copyItem(item), nil
}

func (r *fakeMenuRepo) GetByName(_ context.Context, name string) (*domain.MenuItem, error) {
	for _, item := range r.items {
		if item.Name == name {
			return r.copyItem(item), nil
		}
	}
	return nil, domain.NotFound("menu item")
}

func (r *fakeMenuRepo) Create(_ context.Context, item *domain.MenuItem) error {
	item.ID = r.nextID
	r.nextID++
	r.items[item.ID] = r.copyItem(item)
	return nil
}

func (r *fakeMenuRepo) Update(_ context.Context, item *domain.MenuItem) error {
	if _, ok := r.items[item.ID]; !ok {
		return domain.NotFound("menu item")
	}
	r.items[item.ID] = r.copyItem(item)
	return nil
}

func (r *fakeMenuRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.items[id]; !ok {
		return domain.NotFound("menu item")
	}
	delete(r.items, id)
	return nil
}

func (r *fakeMenuRepo) AddRecipeLine(_ context.Context, menuID, ingredientID int, qty decimal.Decimal) error {
	item, ok := r.items[menuID]
	if !ok {
		return domain.NotFound("menu item")
	}
	item.Recipe = append(item.Recipe, domain.RecipeLine{IngredientID: ingredientID, QuantityPerUnit: qty})
	return nil
}

func (r *fakeMenuRepo) UpdateRecipeLine(_ context.Context, menuID, ingredientID int, qty decimal.Decimal) error {
	item, ok := r.items[menuID]
	if !ok {
		return domain.NotFound("menu item")
	}
	for i := range item.Recipe {
		if item.Recipe[i].IngredientID == ingredientID {
			item.Recipe[i].QuantityPerUnit = qty
			return nil
		}
	}
	return domain.NotFound("recipe line")
}

func (r *fakeMenuRepo) RemoveRecipeLine(_ context.Context, menuID, ingredientID int) error {
	item, ok := r.items[menuID]
	if !ok {
		return domain.NotFound("menu item")
	}
	for i := range item.Recipe {
		if item.Recipe[i].IngredientID == ingredientID {
			item.Recipe = append(item.Recipe[:i], item.Recipe[i+1:]...)
			return nil
		}
	}
	return domain.NotFound("recipe line")
}

type fakeIngredientRepo struct {
	known map[int]bool
}

func (r *fakeIngredientRepo) Get(_ context.Context, id int) (*domain.Ingredient, error) {
	if !r.known[id] {
		return nil, domain.NotFound("ingrediente")
	}
	return &domain.Ingredient{ID: id}, nil
}

func (r *fakeIngredientRepo) List(context.Context) ([]domain.Ingredient, error) { return nil, nil }
func (r *fakeIngredientRepo) GetByName(context.Context, string) (*domain.Ingredient, error) {
	return nil, domain.NotFound("ingrediente")
}
func (r *fakeIngredientRepo) Create(context.Context, *domain.Ingredient) error { return nil }
func (r *fakeIngredientRepo) Update(context.Context, *domain.Ingredient) error { return nil }
func (r *fakeIngredientRepo) Delete(context.Context, int) error                { return nil }
func (r *fakeIngredientRepo) AdjustStock(context.Context, int, decimal.Decimal) error {
	return nil
}
func (r *fakeIngredientRepo) ListLowStock(context.Context) ([]domain.Ingredient, error) {
	return nil, nil
}

func newTestService() (*Service, *fakeMenuRepo) {
	repo := newFakeMenuRepo()
	ingredients := &fakeIngredientRepo{known: map[int]bool{1: true, 2: true}}
	return NewService(repo, ingredients, nopLogger{}), repo
}

func seedLatte(t *testing.T, svc *Service) *domain.MenuItem {
	t.Helper()
	item, err := svc.Create(context.Background(), interfaces.CreateMenuItemCommand{
		Name:      "Latte",
		Price:     decimal.RequireFromString("4.50"),
		Available: true,
		Category:  "bebidas",
	})
	require.NoError(t, err)
	return item
}

func TestCreateRequiresName(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), interfaces.CreateMenuItemCommand{
		Price: decimal.RequireFromString("4.50"),
	})

	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), interfaces.CreateMenuItemCommand{
		Name: "Latte", Price: decimal.RequireFromString("-1"),
	})

	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	svc, _ := newTestService()
	seedLatte(t, svc)

	_, err := svc.Create(context.Background(), interfaces.CreateMenuItemCommand{
		Name: "Latte", Price: decimal.RequireFromString("5.00"),
	})

	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	svc, _ := newTestService()
	latte := seedLatte(t, svc)

	price := decimal.RequireFromString("5.25")
	available := false
	updated, err := svc.Update(context.Background(), latte.ID, interfaces.UpdateMenuItemCommand{
		Price:     &price,
		Available: &available,
	})

	require.NoError(t, err)
	assert.Equal(t, "Latte", updated.Name)
	assert.True(t, updated.Price.Equal(price))
	assert.False(t, updated.Available)
	assert.Equal(t, "bebidas", updated.Category)
}

func TestListAvailableFiltersHiddenItems(t *testing.T) {
	svc, _ := newTestService()
	latte := seedLatte(t, svc)
	available := false
	_, err := svc.Update(context.Background(), latte.ID, interfaces.UpdateMenuItemCommand{Available: &available})
	require.NoError(t, err)

	visible, err := svc.ListAvailable(context.Background())
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAddRecipeLine(t *testing.T) {
	svc, _ := newTestService()
	latte := seedLatte(t, svc)

	item, err := svc.AddRecipeLine(context.Background(), latte.ID, 1, decimal.RequireFromString("0.3"))

	require.NoError(t, err)
	require.Len(t, item.Recipe, 1)
	assert.Equal(t, 1, item.Recipe[0].IngredientID)
	assert.True(t, item.Recipe[0].QuantityPerUnit.Equal(decimal.RequireFromString("0.3")))
}

func TestAddRecipeLineRejectsNonPositiveQuantity(t *testing.T) {
	svc, _ := newTestService()
	latte := seedLatte(t, svc)

	_, err := svc.AddRecipeLine(context.Background(), latte.ID, 1, decimal.Zero)

	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestAddRecipeLineRejectsDuplicateIngredient(t *testing.T) {
	svc, _ := newTestService()
	latte := seedLatte(t, svc)
	_, err := svc.AddRecipeLine(context.Background(), latte.ID, 1, decimal.RequireFromString("0.3"))
	require.NoError(t, err)

	_, err = svc.AddRecipeLine(context.Background(), latte.ID, 1, decimal.RequireFromString("0.5"))

	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestAddRecipeLineUnknownIngredient(t *testing.T) {
	svc, _ := newTestService()
	latte := seedLatte(t, svc)

	_, err := svc.AddRecipeLine(context.Background(), latte.ID, 999, decimal.RequireFromString("0.3"))

	var nf *domain.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestUpdateAndRemoveRecipeLine(t *testing.T) {
	svc, _ := newTestService()
	latte := seedLatte(t, svc)
	_, err := svc.AddRecipeLine(context.Background(), latte.ID, 1, decimal.RequireFromString("0.3"))
	require.NoError(t, err)

	item, err := svc.UpdateRecipeLine(context.Background(), latte.ID, 1, decimal.RequireFromString("0.4"))
	require.NoError(t, err)
	assert.True(t, item.Recipe[0].QuantityPerUnit.Equal(decimal.RequireFromString("0.4")))

	item, err = svc.RemoveRecipeLine(context.Background(), latte.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, item.Recipe)
}
