package inventory

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

type fakeIngredientRepo struct {
	ingredients map[int]*domain.Ingredient
	nextID      int
}

func newFakeIngredientRepo() *fakeIngredientRepo {
	return &fakeIngredientRepo{ingredients: make(map[int]*domain.Ingredient), nextID: 1}
}

func (r *fakeIngredientRepo) List(context.Context) ([]domain.Ingredient, error) {
	var out []domain.Ingredient
	for id := 1; id < r.nextID; id++ {
		if ing, ok := r.ingredients[id]; ok {
			out = append(out, *ing)
		}
	}
	return out, nil
}

func (r *fakeIngredientRepo) Get(_ context.Context, id int) (*domain.Ingredient, error) {
	ing, ok := r.ingredients[id]
	if !ok {
		return nil, domain.NotFound("ingrediente")
	}
	out := *ing
	return &out, nil
}

func (r *fakeIngredientRepo) GetByName(_ context.Context, name string) (*domain.Ingredient, error) {
	for _, ing := range r.ingredients {
		if ing.Name == name {
			out := *ing
			return &out, nil
		}
	}
	return nil, domain.NotFound("ingrediente")
}

func (r *fakeIngredientRepo) Create(_ context.Context, ing *domain.Ingredient) error {
	ing.ID = r.nextID
	r.nextID++
	stored := *ing
	r.ingredients[ing.ID] = &stored
	return nil
}

func (r *fakeIngredientRepo) Update(_ context.Context, ing *domain.Ingredient) error {
	if _, ok := r.ingredients[ing.ID]; !ok {
		return domain.NotFound("ingrediente")
	}
	stored := *ing
	r.ingredients[ing.ID] = &stored
	return nil
}

func (r *fakeIngredientRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.ingredients[id]; !ok {
		return domain.NotFound("ingrediente")
	}
	delete(r.ingredients, id)
	return nil
}

func (r *fakeIngredientRepo) AdjustStock(_ context.Context, id int, delta decimal.Decimal) error {
	ing, ok := r.ingredients[id]
	if !ok {
		return domain.NotFound("ingrediente")
	}
	next := ing.Available.Add(delta)
	if next.IsNegative() {
		return domain.InsufficientStock(ing.Name)
	}
	ing.Available = next
	return nil
}

func (r *fakeIngredientRepo) ListLowStock(context.Context) ([]domain.Ingredient, error) {
	var out []domain.Ingredient
	for _, ing := range r.ingredients {
		if ing.LowStock() {
			out = append(out, *ing)
		}
	}
	return out, nil
}

func newTestService() (*Service, *fakeIngredientRepo) {
	repo := newFakeIngredientRepo()
	return NewService(repo, nopLogger{}), repo
}

func seedMilk(t *testing.T, svc *Service) *domain.Ingredient {
	t.Helper()
	ing, err := svc.Create(context.Background(), interfaces.CreateIngredientCommand{
		Name:      "Milk",
		Unit:      "litros",
		Available: decimal.RequireFromString("10"),
		Minimum:   decimal.RequireFromString("2"),
	})
	require.NoError(t, err)
	return ing
}

func TestCreateRequiresNameAndUnit(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), interfaces.CreateIngredientCommand{Name: "Milk"})

	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCreateRejectsNegativeQuantities(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), interfaces.CreateIngredientCommand{
		Name: "Milk", Unit: "litros", Available: decimal.RequireFromString("-1"),
	})

	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	svc, _ := newTestService()
	seedMilk(t, svc)

	_, err := svc.Create(context.Background(), interfaces.CreateIngredientCommand{
		Name: "Milk", Unit: "litros",
	})

	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	svc, _ := newTestService()
	milk := seedMilk(t, svc)

	minimum := decimal.RequireFromString("3")
	updated, err := svc.Update(context.Background(), milk.ID, interfaces.UpdateIngredientCommand{
		Minimum: &minimum,
	})

	require.NoError(t, err)
	assert.Equal(t, "Milk", updated.Name)
	assert.True(t, updated.Minimum.Equal(minimum))
	assert.True(t, updated.Available.Equal(decimal.RequireFromString("10")))
}

func TestUpdateRejectsNameCollision(t *testing.T) {
	svc, _ := newTestService()
	seedMilk(t, svc)
	sugar, err := svc.Create(context.Background(), interfaces.CreateIngredientCommand{
		Name: "Sugar", Unit: "kg",
	})
	require.NoError(t, err)

	name := "Milk"
	_, err = svc.Update(context.Background(), sugar.ID, interfaces.UpdateIngredientCommand{Name: &name})

	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestAdjustRejectsZeroDelta(t *testing.T) {
	svc, _ := newTestService()
	milk := seedMilk(t, svc)

	_, err := svc.Adjust(context.Background(), milk.ID, decimal.Zero)

	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestAdjustAppliesSignedDelta(t *testing.T) {
	svc, _ := newTestService()
	milk := seedMilk(t, svc)

	ing, err := svc.Adjust(context.Background(), milk.ID, decimal.RequireFromString("-3.5"))
	require.NoError(t, err)
	assert.True(t, ing.Available.Equal(decimal.RequireFromString("6.5")))

	ing, err = svc.Adjust(context.Background(), milk.ID, decimal.RequireFromString("1.5"))
	require.NoError(t, err)
	assert.True(t, ing.Available.Equal(decimal.RequireFromString("8")))
}

func TestAdjustRejectsNegativeResult(t *testing.T) {
	svc, repo := newTestService()
	milk := seedMilk(t, svc)

	_, err := svc.Adjust(context.Background(), milk.ID, decimal.RequireFromString("-10.001"))

	var ins *domain.InsufficientStockError
	require.ErrorAs(t, err, &ins)
	assert.Equal(t, "Milk", ins.Item)
	assert.True(t, repo.ingredients[milk.ID].Available.Equal(decimal.RequireFromString("10")))
}

func TestAdjustUnknownIngredient(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Adjust(context.Background(), 999, decimal.RequireFromString("1"))

	var nf *domain.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestListLowStock(t *testing.T) {
	svc, _ := newTestService()
	milk := seedMilk(t, svc)

	low, err := svc.ListLowStock(context.Background())
	require.NoError(t, err)
	assert.Empty(t, low)

	_, err = svc.Adjust(context.Background(), milk.ID, decimal.RequireFromString("-8"))
	require.NoError(t, err)

	low, err = svc.ListLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Milk", low[0].Name)
}
