package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"cafeteria-backend/internal/domain"
)

// Commands carried from the HTTP adapter into the services.

type CreateOrderCommand struct {
	CustomerID int
	Lines      []CartLine
}

type CartLine struct {
	MenuItemID int
	Quantity   int
}

type CreateIngredientCommand struct {
	Name      string
	Unit      string
	Available decimal.Decimal
	Minimum   decimal.Decimal
}

type UpdateIngredientCommand struct {
	Name      *string
	Unit      *string
	Available *decimal.Decimal
	Minimum   *decimal.Decimal
}

type CreateMenuItemCommand struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Available   bool
	Category    string
}

type UpdateMenuItemCommand struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Available   *bool
	Category    *string
}

// Pagination metadata returned alongside order listings.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type OrderPage struct {
	Orders     []domain.Order
	Pagination Pagination
}

// OrderService orchestrates the order lifecycle.
type OrderService interface {
	Create(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error)
	Get(ctx context.Context, id int, requester domain.Requester) (*domain.Order, error)
	List(ctx context.Context, page, limit int, requester domain.Requester) (*OrderPage, error)
	UpdateStatus(ctx context.Context, id int, status domain.Status, requester domain.Requester) (*domain.Order, error)
	Cancel(ctx context.Context, id int, requester domain.Requester) (*domain.Order, error)
	History(ctx context.Context, id int, requester domain.Requester) ([]domain.StatusLog, error)
}

// MenuService manages the catalog.
type MenuService interface {
	ListAll(ctx context.Context) ([]domain.MenuItem, error)
	ListAvailable(ctx context.Context) ([]domain.MenuItem, error)
	Get(ctx context.Context, id int) (*domain.MenuItem, error)
	Create(ctx context.Context, cmd CreateMenuItemCommand) (*domain.MenuItem, error)
	Update(ctx context.Context, id int, cmd UpdateMenuItemCommand) (*domain.MenuItem, error)
	Delete(ctx context.Context, id int) error
	AddRecipeLine(ctx context.Context, menuID, ingredientID int, qty decimal.Decimal) (*domain.MenuItem, error)
	UpdateRecipeLine(ctx context.Context, menuID, ingredientID int, qty decimal.Decimal) (*domain.MenuItem, error)
	RemoveRecipeLine(ctx context.Context, menuID, ingredientID int) (*domain.MenuItem, error)
}

// InventoryService manages the stock ledger.
type InventoryService interface {
	List(ctx context.Context) ([]domain.Ingredient, error)
	Get(ctx context.Context, id int) (*domain.Ingredient, error)
	Create(ctx context.Context, cmd CreateIngredientCommand) (*domain.Ingredient, error)
	Update(ctx context.Context, id int, cmd UpdateIngredientCommand) (*domain.Ingredient, error)
	Delete(ctx context.Context, id int) error
	Adjust(ctx context.Context, id int, delta decimal.Decimal) (*domain.Ingredient, error)
	ListLowStock(ctx context.Context) ([]domain.Ingredient, error)
}
