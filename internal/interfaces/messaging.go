package interfaces

import (
	"context"
	"time"

	"cafeteria-backend/internal/domain"
)

// Order lifecycle event names, used as routing keys on the events exchange.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderCancelled     = "order.cancelled"
)

// OrderEvent is published after an order mutation commits. Total is the
// decimal rendered as a string to keep the wire format exact.
type OrderEvent struct {
	Event      string        `json:"event"`
	OrderID    int           `json:"order_id"`
	CustomerID int           `json:"customer_id"`
	Status     domain.Status `json:"status"`
	Total      string        `json:"total"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// EventPublisher delivers order lifecycle events to the notification bus.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, ev OrderEvent) error
}
