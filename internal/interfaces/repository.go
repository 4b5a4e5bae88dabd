package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"cafeteria-backend/internal/domain"
)

// IngredientRepository is the stock ledger's persistence contract.
// AdjustStock must be atomic with respect to concurrent adjustments on the
// same ingredient: it fails with domain.InsufficientStockError instead of
// letting the quantity go negative.
type IngredientRepository interface {
	List(ctx context.Context) ([]domain.Ingredient, error)
	Get(ctx context.Context, id int) (*domain.Ingredient, error)
	GetByName(ctx context.Context, name string) (*domain.Ingredient, error)
	Create(ctx context.Context, ing *domain.Ingredient) error
	Update(ctx context.Context, ing *domain.Ingredient) error
	Delete(ctx context.Context, id int) error
	AdjustStock(ctx context.Context, id int, delta decimal.Decimal) error
	ListLowStock(ctx context.Context) ([]domain.Ingredient, error)
}

// MenuRepository is the menu catalog's persistence contract. Get resolves
// the item's recipe lines, joined with current ingredient availability.
type MenuRepository interface {
	ListAll(ctx context.Context) ([]domain.MenuItem, error)
	ListAvailable(ctx context.Context) ([]domain.MenuItem, error)
	Get(ctx context.Context, id int) (*domain.MenuItem, error)
	GetByName(ctx context.Context, name string) (*domain.MenuItem, error)
	Create(ctx context.Context, item *domain.MenuItem) error
	Update(ctx context.Context, item *domain.MenuItem) error
	Delete(ctx context.Context, id int) error
	AddRecipeLine(ctx context.Context, menuID, ingredientID int, qty decimal.Decimal) error
	UpdateRecipeLine(ctx context.Context, menuID, ingredientID int, qty decimal.Decimal) error
	RemoveRecipeLine(ctx context.Context, menuID, ingredientID int) error
}

// OrderRepository persists orders. Create and Cancel each run as a single
// database transaction: Create locks every debited ingredient row,
// re-validates availability, and inserts the order with its lines; Cancel
// flips the status (guarded on the expected prior status) and credits the
// ledger. Neither ever leaves a partial debit or a partial order behind.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order, debits []domain.StockMovement) error
	Get(ctx context.Context, id int) (*domain.Order, error)
	List(ctx context.Context, limit, offset int) ([]domain.Order, error)
	ListByCustomer(ctx context.Context, customerID, limit, offset int) ([]domain.Order, error)
	Count(ctx context.Context) (int, error)
	CountByCustomer(ctx context.Context, customerID int) (int, error)
	UpdateStatus(ctx context.Context, id int, status domain.Status, changedBy string) error
	Cancel(ctx context.Context, id int, expected domain.Status, credits []domain.StockMovement, changedBy string) error
	StatusHistory(ctx context.Context, orderID int) ([]domain.StatusLog, error)
}
