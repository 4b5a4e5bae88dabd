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

type ingredientRepository struct {
	db DB
}

func NewIngredientRepository(db DB) interfaces.IngredientRepository {
	return &ingredientRepository{db: db}
}

const ingredientColumns = `id, nombre, unidad_medida, cantidad_disponible, cantidad_minima, created_at, updated_at`

func scanIngredient(row Row) (*domain.Ingredient, error) {
	var ing domain.Ingredient
	err := row.Scan(&ing.ID, &ing.Name, &ing.Unit, &ing.Available, &ing.Minimum, &ing.CreatedAt, &ing.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ing, nil
}

func (r *ingredientRepository) List(ctx context.Context) ([]domain.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredientes ORDER BY nombre ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingredients: %w", err)
	}
	defer rows.Close()

	return collectIngredients(rows)
}

func (r *ingredientRepository) Get(ctx context.Context, id int) (*domain.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredientes WHERE id = $1`

	ing, err := scanIngredient(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("ingredient")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	return ing, nil
}

func (r *ingredientRepository) GetByName(ctx context.Context, name string) (*domain.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredientes WHERE nombre = $1`

	ing, err := scanIngredient(r.db.QueryRow(ctx, query, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("ingredient")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredient by name: %w", err)
	}
	return ing, nil
}

func (r *ingredientRepository) Create(ctx context.Context, ing *domain.Ingredient) error {
	query := `
		INSERT INTO ingredientes (nombre, unidad_medida, cantidad_disponible, cantidad_minima)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, ing.Name, ing.Unit, ing.Available, ing.Minimum).
		Scan(&ing.ID, &ing.CreatedAt, &ing.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert ingredient: %w", err)
	}
	return nil
}

func (r *ingredientRepository) Update(ctx context.Context, ing *domain.Ingredient) error {
	query := `
		UPDATE ingredientes
		SET nombre = $1, unidad_medida = $2, cantidad_disponible = $3, cantidad_minima = $4, updated_at = NOW()
		WHERE id = $5
	`
	tag, err := r.db.Exec(ctx, query, ing.Name, ing.Unit, ing.Available, ing.Minimum, ing.ID)
	if err != nil {
		return fmt.Errorf("failed to update ingredient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("ingredient")
	}
	return nil
}

func (r *ingredientRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM ingredientes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("ingredient")
	}
	return nil
}

// AdjustStock applies a signed delta as one conditional statement so that
// concurrent adjustments cannot race the quantity below zero.
func (r *ingredientRepository) AdjustStock(ctx context.Context, id int, delta decimal.Decimal) error {
	query := `
		UPDATE ingredientes
		SET cantidad_disponible = cantidad_disponible + $2, updated_at = NOW()
		WHERE id = $1 AND cantidad_disponible + $2 >= 0
	`
	tag, err := r.db.Exec(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the row is missing or the delta would go negative.
		ing, getErr := r.Get(ctx, id)
		if getErr != nil {
			return getErr
		}
		return domain.InsufficientStock(ing.Name)
	}
	return nil
}

func (r *ingredientRepository) ListLowStock(ctx context.Context) ([]domain.Ingredient, error) {
	query := `
		SELECT ` + ingredientColumns + `
		FROM ingredientes
		WHERE cantidad_disponible <= cantidad_minima
		ORDER BY cantidad_disponible ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query low stock: %w", err)
	}
	defer rows.Close()

	return collectIngredients(rows)
}

func collectIngredients(rows Rows) ([]domain.Ingredient, error) {
	var ingredients []domain.Ingredient
	for rows.Next() {
		var ing domain.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.Unit, &ing.Available, &ing.Minimum, &ing.CreatedAt, &ing.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ingredients: %w", err)
	}
	return ingredients, nil
}
