package order

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"cafeteria-backend/internal/adapter/logger"
	"cafeteria-backend/internal/domain"
	"cafeteria-backend/internal/interfaces"
)

// Service orchestrates the order lifecycle: creation with stock
// reservation, status transitions, cancellation with stock restoration.
type Service struct {
	orders    interfaces.OrderRepository
	menu      interfaces.MenuRepository
	publisher interfaces.EventPublisher
	logger    logger.Logger
}

func NewService(orders interfaces.OrderRepository, menu interfaces.MenuRepository, publisher interfaces.EventPublisher, lgr logger.Logger) *Service {
	return &Service{orders: orders, menu: menu, publisher: publisher, logger: lgr}
}

// Create validates the cart, prices it against the catalog, and persists the
// order together with the stock debits in one repository transaction. The
// availability pre-check here covers all lines before anything is written;
// the repository re-validates under row locks at debit time.
func (s *Service) Create(ctx context.Context, cmd interfaces.CreateOrderCommand) (*domain.Order, error) {
	if len(cmd.Lines) == 0 {
		return nil, domain.Validationf("order must have at least one item")
	}
	for _, line := range cmd.Lines {
		if line.Quantity <= 0 {
			return nil, domain.Validationf("item quantity must be positive")
		}
	}

	items, err := s.resolveItems(ctx, cmd.Lines)
	if err != nil {
		return nil, err
	}

	debits, available := aggregateRequirements(cmd.Lines, items)
	for _, d := range debits {
		if available[d.IngredientID].LessThan(d.Quantity) {
			return nil, domain.InsufficientStock(d.MenuItemName)
		}
	}

	order := &domain.Order{
		CustomerID: cmd.CustomerID,
		Status:     domain.StatusPending,
	}
	for _, line := range cmd.Lines {
		item := items[line.MenuItemID]
		qty := decimal.NewFromInt(int64(line.Quantity))
		order.Lines = append(order.Lines, domain.OrderLine{
			MenuItemID:   item.ID,
			MenuItemName: item.Name,
			Quantity:     line.Quantity,
			UnitPrice:    item.Price,
			Subtotal:     item.Price.Mul(qty),
		})
	}
	order.CalculateTotal()

	if err := s.orders.Create(ctx, order, debits); err != nil {
		return nil, err
	}

	s.logger.Info("order_created", "Order created", "", map[string]interface{}{
		"order_id":    order.ID,
		"customer_id": order.CustomerID,
		"total":       order.Total.String(),
	})

	s.publish(ctx, interfaces.EventOrderCreated, order)

	return order, nil
}

// resolveItems loads each distinct menu item once per call.
func (s *Service) resolveItems(ctx context.Context, lines []interfaces.CartLine) (map[int]*domain.MenuItem, error) {
	items := make(map[int]*domain.MenuItem)
	for _, line := range lines {
		if _, ok := items[line.MenuItemID]; ok {
			continue
		}
		item, err := s.menu.Get(ctx, line.MenuItemID)
		if err != nil {
			return nil, err
		}
		if !item.Available {
			return nil, domain.Validationf("menu item %q is not available", item.Name)
		}
		items[line.MenuItemID] = item
	}
	return items, nil
}

// aggregateRequirements folds the cart into one movement per ingredient,
// tagged with a menu item that consumes it, plus the availability snapshot
// from the recipe load.
func aggregateRequirements(lines []interfaces.CartLine, items map[int]*domain.MenuItem) ([]domain.StockMovement, map[int]decimal.Decimal) {
	required := make(map[int]*domain.StockMovement)
	available := make(map[int]decimal.Decimal)

	for _, line := range lines {
		item := items[line.MenuItemID]
		qty := decimal.NewFromInt(int64(line.Quantity))
		for _, rl := range item.Recipe {
			need := rl.QuantityPerUnit.Mul(qty)
			if mv, ok := required[rl.IngredientID]; ok {
				mv.Quantity = mv.Quantity.Add(need)
			} else {
				required[rl.IngredientID] = &domain.StockMovement{
					IngredientID: rl.IngredientID,
					Quantity:     need,
					MenuItemName: item.Name,
				}
				available[rl.IngredientID] = rl.AvailableStock
			}
		}
	}

	movements := make([]domain.StockMovement, 0, len(required))
	for _, mv := range required {
		movements = append(movements, *mv)
	}
	sort.Slice(movements, func(i, j int) bool { return movements[i].IngredientID < movements[j].IngredientID })

	return movements, available
}

func (s *Service) Get(ctx context.Context, id int, requester domain.Requester) (*domain.Order, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !requester.Staff() && order.CustomerID != requester.ID {
		return nil, domain.Unauthorizedf("cannot access this order")
	}
	return order, nil
}

func (s *Service) List(ctx context.Context, page, limit int, requester domain.Requester) (*interfaces.OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	offset := (page - 1) * limit

	var (
		orders []domain.Order
		total  int
		err    error
	)
	if requester.Staff() {
		if orders, err = s.orders.List(ctx, limit, offset); err != nil {
			return nil, err
		}
		if total, err = s.orders.Count(ctx); err != nil {
			return nil, err
		}
	} else {
		if orders, err = s.orders.ListByCustomer(ctx, requester.ID, limit, offset); err != nil {
			return nil, err
		}
		if total, err = s.orders.CountByCustomer(ctx, requester.ID); err != nil {
			return nil, err
		}
	}

	return &interfaces.OrderPage{
		Orders: orders,
		Pagination: interfaces.Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: (total + limit - 1) / limit,
		},
	}, nil
}

// UpdateStatus sets any recognized status except cancelado, which moves
// stock and has its own path. Enum membership is the only transition guard;
// backward transitions are allowed, matching the historical behavior.
func (s *Service) UpdateStatus(ctx context.Context, id int, status domain.Status, requester domain.Requester) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.Validationf("invalid estado %q", status)
	}
	if status == domain.StatusCancelled {
		return nil, domain.Validationf("use the cancellation endpoint to cancel an order")
	}

	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.orders.UpdateStatus(ctx, id, status, changedBy(requester)); err != nil {
		return nil, err
	}
	order.Status = status

	s.logger.Info("order_status_updated", "Order status updated", "", map[string]interface{}{
		"order_id": id,
		"estado":   string(status),
	})

	s.publish(ctx, interfaces.EventOrderStatusChanged, order)

	return order, nil
}

// Cancel restores every recipe ingredient consumed by the order and flips it
// to cancelado, atomically. Customers may only cancel their own pending
// orders; staff may cancel any order that is not already terminal.
func (s *Service) Cancel(ctx context.Context, id int, requester domain.Requester) (*domain.Order, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !requester.Staff() {
		if order.CustomerID != requester.ID {
			return nil, domain.Unauthorizedf("cannot cancel this order")
		}
		if order.Status != domain.StatusPending {
			return nil, domain.Validationf("can only cancel pending orders")
		}
	} else if order.Status.Terminal() {
		return nil, domain.Validationf("cannot cancel a %s order", order.Status)
	}

	credits, err := s.creditsFor(ctx, order)
	if err != nil {
		return nil, err
	}

	if err := s.orders.Cancel(ctx, id, order.Status, credits, changedBy(requester)); err != nil {
		return nil, err
	}
	order.Status = domain.StatusCancelled

	s.logger.Info("order_cancelled", "Order cancelled and stock restored", "", map[string]interface{}{
		"order_id": id,
	})

	s.publish(ctx, interfaces.EventOrderCancelled, order)

	return order, nil
}

// creditsFor computes the per-ingredient restoration from the current
// recipes of the ordered items.
func (s *Service) creditsFor(ctx context.Context, order *domain.Order) ([]domain.StockMovement, error) {
	items := make(map[int]*domain.MenuItem)
	credits := make(map[int]*domain.StockMovement)

	for _, line := range order.Lines {
		item, ok := items[line.MenuItemID]
		if !ok {
			var err error
			if item, err = s.menu.Get(ctx, line.MenuItemID); err != nil {
				return nil, err
			}
			items[line.MenuItemID] = item
		}

		qty := decimal.NewFromInt(int64(line.Quantity))
		for _, rl := range item.Recipe {
			amount := rl.QuantityPerUnit.Mul(qty)
			if mv, ok := credits[rl.IngredientID]; ok {
				mv.Quantity = mv.Quantity.Add(amount)
			} else {
				credits[rl.IngredientID] = &domain.StockMovement{
					IngredientID: rl.IngredientID,
					Quantity:     amount,
					MenuItemName: item.Name,
				}
			}
		}
	}

	movements := make([]domain.StockMovement, 0, len(credits))
	for _, mv := range credits {
		movements = append(movements, *mv)
	}
	sort.Slice(movements, func(i, j int) bool { return movements[i].IngredientID < movements[j].IngredientID })

	return movements, nil
}

func (s *Service) History(ctx context.Context, id int, requester domain.Requester) ([]domain.StatusLog, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !requester.Staff() && order.CustomerID != requester.ID {
		return nil, domain.Unauthorizedf("cannot access this order")
	}
	return s.orders.StatusHistory(ctx, order.ID)
}

// publish sends the event best-effort: the database is the source of truth,
// so a bus failure is logged but never fails the request.
func (s *Service) publish(ctx context.Context, event string, order *domain.Order) {
	ev := interfaces.OrderEvent{
		Event:      event,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Status:     order.Status,
		Total:      order.Total.String(),
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishOrderEvent(ctx, ev); err != nil {
		s.logger.Error("event_publish_failed", "Failed to publish order event", "", map[string]interface{}{
			"event":    event,
			"order_id": order.ID,
		}, err)
	}
}

func changedBy(r domain.Requester) string {
	return fmt.Sprintf("%s:%d", r.Role, r.ID)
}
