package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"cafeteria-backend/internal/domain"
	"cafeteria-backend/internal/interfaces"
)

type orderRepository struct {
	db DB
}

func NewOrderRepository(db DB) interfaces.OrderRepository {
	return &orderRepository{db: db}
}

// Create persists the order, its lines, and the stock debits in one
// transaction. Every debited ingredient row is locked (in ID order, so two
// competing orders acquire locks in the same sequence) and availability is
// re-checked under the lock before any write. Two concurrent orders racing
// for the same scarce ingredient therefore cannot both debit past zero.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order, debits []domain.StockMovement) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockAndVerifyStock(ctx, tx, debits); err != nil {
		return err
	}

	query := `
		INSERT INTO pedidos (cliente_id, estado, total)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(ctx, query, order.CustomerID, order.Status, decimal.Zero).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Lines {
		itemQuery := `
			INSERT INTO pedido_items (pedido_id, menu_id, nombre, cantidad, precio_unitario, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		line := &order.Lines[i]
		err = tx.QueryRow(ctx, itemQuery,
			order.ID, line.MenuItemID, line.MenuItemName, line.Quantity, line.UnitPrice, line.Subtotal,
		).Scan(&line.ID)
		if err != nil {
			return fmt.Errorf("failed to insert order line: %w", err)
		}
		line.OrderID = order.ID
	}

	for _, d := range debits {
		if err := applyMovement(ctx, tx, d.IngredientID, d.Quantity.Neg()); err != nil {
			return err
		}
	}

	updateQuery := `UPDATE pedidos SET total = $1, updated_at = NOW() WHERE id = $2`
	if _, err := tx.Exec(ctx, updateQuery, order.Total, order.ID); err != nil {
		return fmt.Errorf("failed to update order total: %w", err)
	}

	logQuery := `INSERT INTO pedido_status_log (pedido_id, estado, changed_by) VALUES ($1, $2, $3)`
	if _, err := tx.Exec(ctx, logQuery, order.ID, order.Status, fmt.Sprintf("cliente:%d", order.CustomerID)); err != nil {
		return fmt.Errorf("failed to log status: %w", err)
	}

	return tx.Commit(ctx)
}

// lockAndVerifyStock takes FOR UPDATE locks on every ingredient in the
// movement set and confirms each requirement is still covered.
func lockAndVerifyStock(ctx context.Context, tx Tx, movements []domain.StockMovement) error {
	ordered := make([]domain.StockMovement, len(movements))
	copy(ordered, movements)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].IngredientID < ordered[j].IngredientID })

	for _, m := range ordered {
		var available decimal.Decimal
		err := tx.QueryRow(ctx,
			`SELECT cantidad_disponible FROM ingredientes WHERE id = $1 FOR UPDATE`,
			m.IngredientID,
		).Scan(&available)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NotFound("ingredient")
		}
		if err != nil {
			return fmt.Errorf("failed to lock ingredient %d: %w", m.IngredientID, err)
		}

		if available.LessThan(m.Quantity) {
			return domain.InsufficientStock(m.MenuItemName)
		}
	}
	return nil
}

// applyMovement adjusts one ingredient's stock inside the transaction,
// refusing any delta that would take the quantity negative.
func applyMovement(ctx context.Context, tx Tx, ingredientID int, delta decimal.Decimal) error {
	tag, err := tx.Exec(ctx, `
		UPDATE ingredientes
		SET cantidad_disponible = cantidad_disponible + $2, updated_at = NOW()
		WHERE id = $1 AND cantidad_disponible + $2 >= 0
	`, ingredientID, delta)
	if err != nil {
		return fmt.Errorf("failed to move stock for ingredient %d: %w", ingredientID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.InsufficientStock("")
	}
	return nil
}

const orderColumns = `id, cliente_id, estado, total, created_at, updated_at`

func (r *orderRepository) Get(ctx context.Context, id int) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM pedidos WHERE id = $1`

	var order domain.Order
	err := r.db.QueryRow(ctx, query, id).Scan(
		&order.ID, &order.CustomerID, &order.Status, &order.Total, &order.CreatedAt, &order.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("order")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	lines, err := r.getLines(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Lines = lines

	return &order, nil
}

func (r *orderRepository) getLines(ctx context.Context, orderID int) ([]domain.OrderLine, error) {
	query := `
		SELECT id, pedido_id, menu_id, nombre, cantidad, precio_unitario, subtotal
		FROM pedido_items
		WHERE pedido_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.MenuItemID, &line.MenuItemName,
			&line.Quantity, &line.UnitPrice, &line.Subtotal); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order lines: %w", err)
	}
	return lines, nil
}

func (r *orderRepository) List(ctx context.Context, limit, offset int) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM pedidos ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.listOrders(ctx, query, limit, offset)
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID, limit, offset int) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM pedidos WHERE cliente_id = $3 ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.listOrders(ctx, query, limit, offset, customerID)
}

func (r *orderRepository) listOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.CustomerID, &order.Status, &order.Total,
			&order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM pedidos`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

func (r *orderRepository) CountByCustomer(ctx context.Context, customerID int) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM pedidos WHERE cliente_id = $1`, customerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int, status domain.Status, changedBy string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE pedidos SET estado = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("order")
	}

	logQuery := `INSERT INTO pedido_status_log (pedido_id, estado, changed_by) VALUES ($1, $2, $3)`
	if _, err := tx.Exec(ctx, logQuery, id, status, changedBy); err != nil {
		return fmt.Errorf("failed to log status: %w", err)
	}

	return tx.Commit(ctx)
}

// Cancel flips the order to cancelado and credits every recipe ingredient,
// all in one transaction. The status flip is guarded on the expected prior
// status so a concurrent transition makes the whole cancellation fail
// cleanly instead of double-crediting.
func (r *orderRepository) Cancel(ctx context.Context, id int, expected domain.Status, credits []domain.StockMovement, changedBy string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE pedidos SET estado = $1, updated_at = NOW() WHERE id = $2 AND estado = $3`,
		domain.StatusCancelled, id, expected,
	)
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Validationf("order is no longer %s", expected)
	}

	for _, c := range credits {
		if err := applyMovement(ctx, tx, c.IngredientID, c.Quantity); err != nil {
			return err
		}
	}

	logQuery := `INSERT INTO pedido_status_log (pedido_id, estado, changed_by) VALUES ($1, $2, $3)`
	if _, err := tx.Exec(ctx, logQuery, id, domain.StatusCancelled, changedBy); err != nil {
		return fmt.Errorf("failed to log status: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) StatusHistory(ctx context.Context, orderID int) ([]domain.StatusLog, error) {
	query := `
		SELECT id, pedido_id, estado, changed_by, changed_at
		FROM pedido_status_log
		WHERE pedido_id = $1
		ORDER BY changed_at ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	var logs []domain.StatusLog
	for rows.Next() {
		var entry domain.StatusLog
		if err := rows.Scan(&entry.ID, &entry.OrderID, &entry.Status, &entry.ChangedBy, &entry.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status log: %w", err)
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read status history: %w", err)
	}
	return logs, nil
}
