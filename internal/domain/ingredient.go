package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ingredient is a stocked inventory item. Available is kept non-negative by
// the storage layer; Minimum is the low-stock threshold.
type Ingredient struct {
	ID        int
	Name      string
	Unit      string
	Available decimal.Decimal
	Minimum   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LowStock reports whether the ingredient is at or below its threshold.
func (i *Ingredient) LowStock() bool {
	return i.Available.LessThanOrEqual(i.Minimum)
}

// StockMovement is one signed quantity change against an ingredient,
// tagged with the menu item that caused it for error reporting.
type StockMovement struct {
	IngredientID int
	Quantity     decimal.Decimal
	MenuItemName string
}
