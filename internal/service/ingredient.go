package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/pageza/cookbook/backend/internal/models"
)

const maxIngredientNameLength = 100

// IngredientService manages the shared ingredient catalog.
type IngredientService struct {
	db *gorm.DB
}

var _ IIngredientService = (*IngredientService)(nil)

func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

func (s *IngredientService) ListIngredients(ctx context.Context) ([]*models.Ingredient, error) {
	var ingredients []*models.Ingredient
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// CreateIngredient adds name to the catalog. Names are unique ignoring case.
func (s *IngredientService) CreateIngredient(ctx context.Context, name string) (*models.Ingredient, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, NewValidationError("name", "is required")
	case utf8.RuneCountInString(name) > maxIngredientNameLength:
		return nil, NewValidationError("name", fmt.Sprintf("must be at most %d characters", maxIngredientNameLength))
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.Ingredient{}).Where("LOWER(name) = ?", strings.ToLower(name)).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, NewValidationError("name", "an ingredient with this name already exists")
	}

	ingredient := models.Ingredient{Name: name}
	if err := db.Create(&ingredient).Error; err != nil {
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}
	return &ingredient, nil
}
