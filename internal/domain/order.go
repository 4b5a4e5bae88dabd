package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status values are persisted and returned over the wire verbatim.
type Status string

const (
	StatusPending   Status = "pendiente"
	StatusPreparing Status = "en_preparacion"
	StatusReady     Status = "listo"
	StatusDelivered Status = "entregado"
	StatusCancelled Status = "cancelado"
)

// Valid reports whether s is a recognized status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is defined from s.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Order is a customer order with its line items and derived total.
type Order struct {
	ID         int
	CustomerID int
	Status     Status
	Total      decimal.Decimal
	Lines      []OrderLine
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OrderLine records one menu item purchase. UnitPrice is captured at order
// time; later menu price changes never alter it.
type OrderLine struct {
	ID           int
	OrderID      int
	MenuItemID   int
	MenuItemName string
	Quantity     int
	UnitPrice    decimal.Decimal
	Subtotal     decimal.Decimal
}

// CalculateTotal recomputes the order total from line subtotals.
func (o *Order) CalculateTotal() {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.Subtotal)
	}
	o.Total = total
}

// StatusLog is one entry in an order's status-change history.
type StatusLog struct {
	ID        int
	OrderID   int
	Status    Status
	ChangedBy string
	ChangedAt time.Time
}

// Role of the authenticated requester, as resolved by the upstream gateway.
type Role string

const (
	RoleCliente  Role = "cliente"
	RoleEmpleado Role = "empleado"
	RoleAdmin    Role = "admin"
)

// Requester identifies who is performing an operation.
type Requester struct {
	ID   int
	Role Role
}

// Staff reports whether the requester may manage orders beyond their own.
func (r Requester) Staff() bool {
	return r.Role == RoleEmpleado || r.Role == RoleAdmin
}
