package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem is a sellable product with its recipe resolved.
type MenuItem struct {
	ID          int
	Name        string
	Description string
	Price       decimal.Decimal
	Available   bool
	Category    string
	Recipe      []RecipeLine
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecipeLine links a menu item to one ingredient with the quantity consumed
// per unit sold. AvailableStock carries the ingredient's current quantity as
// seen when the recipe was loaded; it is advisory only, since the order
// transaction re-checks under row locks.
type RecipeLine struct {
	IngredientID    int
	IngredientName  string
	Unit            string
	QuantityPerUnit decimal.Decimal
	AvailableStock  decimal.Decimal
}
