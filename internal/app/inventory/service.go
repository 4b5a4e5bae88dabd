package inventory

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"cafeteria-backend/internal/adapter/logger"
	"cafeteria-backend/internal/domain"
	"cafeteria-backend/internal/interfaces"
)

// Service manages the stock ledger.
type Service struct {
	repo   interfaces.IngredientRepository
	logger logger.Logger
}

func NewService(repo interfaces.IngredientRepository, lgr logger.Logger) *Service {
	return &Service{repo: repo, logger: lgr}
}

func (s *Service) List(ctx context.Context) ([]domain.Ingredient, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int) (*domain.Ingredient, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, cmd interfaces.CreateIngredientCommand) (*domain.Ingredient, error) {
	if cmd.Name == "" || cmd.Unit == "" {
		return nil, domain.Validationf("nombre and unidad_medida are required")
	}
	if cmd.Available.IsNegative() {
		return nil, domain.Validationf("available quantity must not be negative")
	}
	if cmd.Minimum.IsNegative() {
		return nil, domain.Validationf("minimum quantity must not be negative")
	}

	existing, err := s.repo.GetByName(ctx, cmd.Name)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Validationf("ingredient %q already exists", cmd.Name)
	}

	ing := &domain.Ingredient{
		Name:      cmd.Name,
		Unit:      cmd.Unit,
		Available: cmd.Available,
		Minimum:   cmd.Minimum,
	}
	if err := s.repo.Create(ctx, ing); err != nil {
		return nil, err
	}

	s.logger.Info("ingredient_created", "Ingredient created", "", map[string]interface{}{
		"ingredient_id": ing.ID,
		"name":          ing.Name,
	})

	return ing, nil
}

func (s *Service) Update(ctx context.Context, id int, cmd interfaces.UpdateIngredientCommand) (*domain.Ingredient, error) {
	ing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil && *cmd.Name != ing.Name {
		existing, err := s.repo.GetByName(ctx, *cmd.Name)
		if err != nil && !isNotFound(err) {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, domain.Validationf("ingredient name %q already in use", *cmd.Name)
		}
		ing.Name = *cmd.Name
	}
	if cmd.Unit != nil {
		ing.Unit = *cmd.Unit
	}
	if cmd.Available != nil {
		if cmd.Available.IsNegative() {
			return nil, domain.Validationf("available quantity must not be negative")
		}
		ing.Available = *cmd.Available
	}
	if cmd.Minimum != nil {
		if cmd.Minimum.IsNegative() {
			return nil, domain.Validationf("minimum quantity must not be negative")
		}
		ing.Minimum = *cmd.Minimum
	}

	if err := s.repo.Update(ctx, ing); err != nil {
		return nil, err
	}

	return ing, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// Adjust applies a signed delta to an ingredient's stock. The repository
// rejects deltas that would take the quantity negative.
func (s *Service) Adjust(ctx context.Context, id int, delta decimal.Decimal) (*domain.Ingredient, error) {
	if delta.IsZero() {
		return nil, domain.Validationf("adjustment must not be zero")
	}

	if err := s.repo.AdjustStock(ctx, id, delta); err != nil {
		return nil, err
	}

	ing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock_adjusted", "Ingredient stock adjusted", "", map[string]interface{}{
		"ingredient_id": id,
		"delta":         delta.String(),
		"available":     ing.Available.String(),
	})

	if ing.LowStock() {
		s.logger.Warn("low_stock", "Ingredient at or below minimum threshold", "", map[string]interface{}{
			"ingredient_id": id,
			"name":          ing.Name,
			"available":     ing.Available.String(),
			"minimum":       ing.Minimum.String(),
		})
	}

	return ing, nil
}

func (s *Service) ListLowStock(ctx context.Context) ([]domain.Ingredient, error) {
	return s.repo.ListLowStock(ctx)
}

func isNotFound(err error) bool {
	var nf *domain.NotFoundError
	return errors.As(err, &nf)
}
