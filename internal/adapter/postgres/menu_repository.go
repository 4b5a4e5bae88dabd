package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"cafeteria-backend/internal/domain"
	"cafeteria-backend/internal/interfaces"
)

type menuRepository struct {
	db DB
}

func NewMenuRepository(db DB) interfaces.MenuRepository {
	return &menuRepository{db: db}
}

const menuColumns = `id, nombre, descripcion, precio, disponible, categoria, created_at, updated_at`

func (r *menuRepository) ListAll(ctx context.Context) ([]domain.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM menu ORDER BY categoria, nombre ASC`
	return r.list(ctx, query)
}

func (r *menuRepository) ListAvailable(ctx context.Context) ([]domain.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM menu WHERE disponible = TRUE ORDER BY categoria, nombre ASC`
	return r.list(ctx, query)
}

func (r *menuRepository) list(ctx context.Context, query string) ([]domain.MenuItem, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu: %w", err)
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price,
			&item.Available, &item.Category, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read menu items: %w", err)
	}
	return items, nil
}

// Get loads the item with its recipe. Each recipe line carries the
// ingredient's current availability for the lifecycle pre-check.
func (r *menuRepository) Get(ctx context.Context, id int) (*domain.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM menu WHERE id = $1`

	var item domain.MenuItem
	err := r.db.QueryRow(ctx, query, id).Scan(&item.ID, &item.Name, &item.Description,
		&item.Price, &item.Available, &item.Category, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("menu item")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}

	recipe, err := r.getRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Recipe = recipe

	return &item, nil
}

func (r *menuRepository) GetByName(ctx context.Context, name string) (*domain.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM menu WHERE nombre = $1`

	var item domain.MenuItem
	err := r.db.QueryRow(ctx, query, name).Scan(&item.ID, &item.Name, &item.Description,
		&item.Price, &item.Available, &item.Category, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("menu item")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get menu item by name: %w", err)
	}
	return &item, nil
}

func (r *menuRepository) getRecipe(ctx context.Context, menuID int) ([]domain.RecipeLine, error) {
	query := `
		SELECT mi.ingrediente_id, i.nombre, i.unidad_medida, mi.cantidad_requerida, i.cantidad_disponible
		FROM menu_ingredientes mi
		JOIN ingredientes i ON mi.ingrediente_id = i.id
		WHERE mi.menu_id = $1
		ORDER BY mi.ingrediente_id
	`
	rows, err := r.db.Query(ctx, query, menuID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe: %w", err)
	}
	defer rows.Close()

	var recipe []domain.RecipeLine
	for rows.Next() {
		var line domain.RecipeLine
		if err := rows.Scan(&line.IngredientID, &line.IngredientName, &line.Unit,
			&line.QuantityPerUnit, &line.AvailableStock); err != nil {
			return nil, fmt.Errorf("failed to scan recipe line: %w", err)
		}
		recipe = append(recipe, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recipe: %w", err)
	}
	return recipe, nil
}

func (r *menuRepository) Create(ctx context.Context, item *domain.MenuItem) error {
	query := `
		INSERT INTO menu (nombre, descripcion, precio, disponible, categoria)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, item.Name, item.Description, item.Price, item.Available, item.Category).
		Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}
	return nil
}

func (r *menuRepository) Update(ctx context.Context, item *domain.MenuItem) error {
	query := `
		UPDATE menu
		SET nombre = $1, descripcion = $2, precio = $3, disponible = $4, categoria = $5, updated_at = NOW()
		WHERE id = $6
	`
	tag, err := r.db.Exec(ctx, query, item.Name, item.Description, item.Price, item.Available, item.Category, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("menu item")
	}
	return nil
}

func (r *menuRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM menu WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("menu item")
	}
	return nil
}

func (r *menuRepository) AddRecipeLine(ctx context.Context, menuID, ingredientID int, qty decimal.Decimal) error {
	query := `
		INSERT INTO menu_ingredientes (menu_id, ingrediente_id, cantidad_requerida)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.Exec(ctx, query, menuID, ingredientID, qty); err != nil {
		return fmt.Errorf("failed to add recipe line: %w", err)
	}
	return nil
}

func (r *menuRepository) UpdateRecipeLine(ctx context.Context, menuID, ingredientID int, qty decimal.Decimal) error {
	query := `
		UPDATE menu_ingredientes SET cantidad_requerida = $3
		WHERE menu_id = $1 AND ingrediente_id = $2
	`
	tag, err := r.db.Exec(ctx, query, menuID, ingredientID, qty)
	if err != nil {
		return fmt.Errorf("failed to update recipe line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("recipe line")
	}
	return nil
}

func (r *menuRepository) RemoveRecipeLine(ctx context.Context, menuID, ingredientID int) error {
	query := `DELETE FROM menu_ingredientes WHERE menu_id = $1 AND ingrediente_id = $2`
	tag, err := r.db.Exec(ctx, query, menuID, ingredientID)
	if err != nil {
		return fmt.Errorf("failed to remove recipe line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("recipe line")
	}
	return nil
}
