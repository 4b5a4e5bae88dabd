package menu

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"cafeteria-backend/internal/adapter/logger"
	"cafeteria-backend/internal/domain"
	"cafeteria-backend/internal/interfaces"
)

// Service manages the menu catalog and its recipes.
type Service struct {
	repo        interfaces.MenuRepository
	ingredients interfaces.IngredientRepository
	logger      logger.Logger
}

func NewService(repo interfaces.MenuRepository, ingredients interfaces.IngredientRepository, lgr logger.Logger) *Service {
	return &Service{repo: repo, ingredients: ingredients, logger: lgr}
}

func (s *Service) ListAll(ctx context.Context) ([]domain.MenuItem, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) ListAvailable(ctx context.Context) ([]domain.MenuItem, error) {
	return s.repo.ListAvailable(ctx)
}

func (s *Service) Get(ctx context.Context, id int) (*domain.MenuItem, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, cmd interfaces.CreateMenuItemCommand) (*domain.MenuItem, error) {
	if cmd.Name == "" {
		return nil, domain.Validationf("nombre is required")
	}
	if cmd.Price.IsNegative() {
		return nil, domain.Validationf("precio must not be negative")
	}

	existing, err := s.repo.GetByName(ctx, cmd.Name)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Validationf("menu item %q already exists", cmd.Name)
	}

	item := &domain.MenuItem{
		Name:        cmd.Name,
		Description: cmd.Description,
		Price:       cmd.Price,
		Available:   cmd.Available,
		Category:    cmd.Category,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("menu_item_created", "Menu item created", "", map[string]interface{}{
		"menu_id": item.ID,
		"name":    item.Name,
	})

	return item, nil
}

func (s *Service) Update(ctx context.Context, id int, cmd interfaces.UpdateMenuItemCommand) (*domain.MenuItem, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil && *cmd.Name != item.Name {
		existing, err := s.repo.GetByName(ctx, *cmd.Name)
		if err != nil && !isNotFound(err) {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, domain.Validationf("menu item name %q already in use", *cmd.Name)
		}
		item.Name = *cmd.Name
	}
	if cmd.Description != nil {
		item.Description = *cmd.Description
	}
	if cmd.Price != nil {
		if cmd.Price.IsNegative() {
			return nil, domain.Validationf("precio must not be negative")
		}
		item.Price = *cmd.Price
	}
	if cmd.Available != nil {
		item.Available = *cmd.Available
	}
	if cmd.Category != nil {
		item.Category = *cmd.Category
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) AddRecipeLine(ctx context.Context, menuID, ingredientID int, qty decimal.Decimal) (*domain.MenuItem, error) {
	if !qty.IsPositive() {
		return nil, domain.Validationf("cantidad_requerida must be positive")
	}

	item, err := s.repo.Get(ctx, menuID)
	if err != nil {
		return nil, err
	}
	for _, line := range item.Recipe {
		if line.IngredientID == ingredientID {
			return nil, domain.Validationf("ingredient already in recipe")
		}
	}

	if _, err := s.ingredients.Get(ctx, ingredientID); err != nil {
		return nil, err
	}

	if err := s.repo.AddRecipeLine(ctx, menuID, ingredientID, qty); err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, menuID)
}

func (s *Service) UpdateRecipeLine(ctx context.Context, menuID, ingredientID int, qty decimal.Decimal) (*domain.MenuItem, error) {
	if !qty.IsPositive() {
		return nil, domain.Validationf("cantidad_requerida must be positive")
	}

	if err := s.repo.UpdateRecipeLine(ctx, menuID, ingredientID, qty); err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, menuID)
}

func (s *Service) RemoveRecipeLine(ctx context.Context, menuID, ingredientID int) (*domain.MenuItem, error) {
	if err := s.repo.RemoveRecipeLine(ctx, menuID, ingredientID); err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, menuID)
}

func isNotFound(err error) bool {
	var nf *domain.NotFoundError
	return errors.As(err, &nf)
}
