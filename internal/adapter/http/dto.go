package http

import (
	"time"

	"github.com/shopspring/decimal"

	"cafeteria-backend/internal/domain"
)

// Wire representations keep the Spanish field names the clients already use.

type ingredientResponse struct {
	ID                 int             `json:"id"`
	Nombre             string          `json:"nombre"`
	UnidadMedida       string          `json:"unidad_medida"`
	CantidadDisponible decimal.Decimal `json:"cantidad_disponible"`
	CantidadMinima     decimal.Decimal `json:"cantidad_minima"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func toIngredientResponse(ing *domain.Ingredient) ingredientResponse {
	return ingredientResponse{
		ID:                 ing.ID,
		Nombre:             ing.Name,
		UnidadMedida:       ing.Unit,
		CantidadDisponible: ing.Available,
		CantidadMinima:     ing.Minimum,
		CreatedAt:          ing.CreatedAt,
		UpdatedAt:          ing.UpdatedAt,
	}
}

func toIngredientResponses(ings []domain.Ingredient) []ingredientResponse {
	out := make([]ingredientResponse, 0, len(ings))
	for i := range ings {
		out = append(out, toIngredientResponse(&ings[i]))
	}
	return out
}

type recipeLineResponse struct {
	IngredienteID      int             `json:"ingrediente_id"`
	Nombre             string          `json:"nombre"`
	UnidadMedida       string          `json:"unidad_medida"`
	CantidadRequerida  decimal.Decimal `json:"cantidad_requerida"`
	CantidadDisponible decimal.Decimal `json:"cantidad_disponible"`
}

type menuItemResponse struct {
	ID           int                  `json:"id"`
	Nombre       string               `json:"nombre"`
	Descripcion  string               `json:"descripcion"`
	Precio       decimal.Decimal      `json:"precio"`
	Disponible   bool                 `json:"disponible"`
	Categoria    string               `json:"categoria"`
	Ingredientes []recipeLineResponse `json:"ingredientes"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

func toMenuItemResponse(item *domain.MenuItem) menuItemResponse {
	lines := make([]recipeLineResponse, 0, len(item.Recipe))
	for _, rl := range item.Recipe {
		lines = append(lines, recipeLineResponse{
			IngredienteID:      rl.IngredientID,
			Nombre:             rl.IngredientName,
			UnidadMedida:       rl.Unit,
			CantidadRequerida:  rl.QuantityPerUnit,
			CantidadDisponible: rl.AvailableStock,
		})
	}
	return menuItemResponse{
		ID:           item.ID,
		Nombre:       item.Name,
		Descripcion:  item.Description,
		Precio:       item.Price,
		Disponible:   item.Available,
		Categoria:    item.Category,
		Ingredientes: lines,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

func toMenuItemResponses(items []domain.MenuItem) []menuItemResponse {
	out := make([]menuItemResponse, 0, len(items))
	for i := range items {
		out = append(out, toMenuItemResponse(&items[i]))
	}
	return out
}

type orderLineResponse struct {
	ID             int             `json:"id"`
	MenuID         int             `json:"menu_id"`
	Nombre         string          `json:"nombre"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type orderResponse struct {
	ID        int                 `json:"id"`
	ClienteID int                 `json:"cliente_id"`
	Estado    domain.Status       `json:"estado"`
	Total     decimal.Decimal     `json:"total"`
	Items     []orderLineResponse `json:"items"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func toOrderResponse(order *domain.Order) orderResponse {
	items := make([]orderLineResponse, 0, len(order.Lines))
	for _, line := range order.Lines {
		items = append(items, orderLineResponse{
			ID:             line.ID,
			MenuID:         line.MenuItemID,
			Nombre:         line.MenuItemName,
			Cantidad:       line.Quantity,
			PrecioUnitario: line.UnitPrice,
			Subtotal:       line.Subtotal,
		})
	}
	return orderResponse{
		ID:        order.ID,
		ClienteID: order.CustomerID,
		Estado:    order.Status,
		Total:     order.Total,
		Items:     items,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
}

func toOrderResponses(orders []domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderResponse(&orders[i]))
	}
	return out
}

type statusLogResponse struct {
	ID        int           `json:"id"`
	Estado    domain.Status `json:"estado"`
	ChangedBy string        `json:"changed_by"`
	ChangedAt time.Time     `json:"changed_at"`
}

func toStatusLogResponses(logs []domain.StatusLog) []statusLogResponse {
	out := make([]statusLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, statusLogResponse{
			ID:        l.ID,
			Estado:    l.Status,
			ChangedBy: l.ChangedBy,
			ChangedAt: l.ChangedAt,
		})
	}
	return out
}
