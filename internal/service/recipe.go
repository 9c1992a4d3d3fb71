package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/cookbook/backend/internal/models"
	"github.com/pageza/cookbook/backend/internal/types"
)

const maxTitleLength = 100

// RecipeService handles recipe operations
type RecipeService struct {
	db *gorm.DB
}

var _ IRecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// CreateRecipe stores a recipe, its tags and its ingredient usages in one
// transaction.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, in *types.RecipeInput) (*models.Recipe, error) {
	drafts, err := validateInput(in)
	if err != nil {
		return nil, err
	}

	var recipeID uuid.UUID
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := ensureTags(tx, in.Tags)
		if err != nil {
			return err
		}

		recipe := models.Recipe{
			Title:              strings.TrimSpace(in.Title),
			Instructions:       strings.TrimSpace(in.Instructions),
			PreparationMinutes: in.PreparationMinutes,
			CookingMinutes:     in.CookingMinutes,
			Servings:           in.Servings,
			AuthorID:           authorID,
			Tags:               tags,
		}
		if err := tx.Omit("Author", "Usages", "Comments").Create(&recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		recipeID = recipe.ID

		return insertUsages(tx, recipe.ID, drafts)
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, recipeID)
}

// GetRecipe loads a recipe with its author, usages in submission order, tags
// and comments in chronological order.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Usages", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Usages.Ingredient").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Comments.User").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// UpdateRecipe replaces the scalar fields, tags and the whole usage set of a
// recipe owned by actorID. Any failure leaves the recipe as it was.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id, actorID uuid.UUID, in *types.RecipeInput) (*models.Recipe, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := authorize(tx, id, actorID)
		if err != nil {
			return err
		}

		drafts, err := validateInput(in)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Recipe{}).Where("id = ?", id).Updates(map[string]interface{}{
			"title":               strings.TrimSpace(in.Title),
			"title_search":        models.FoldTitle(strings.TrimSpace(in.Title)),
			"instructions":        strings.TrimSpace(in.Instructions),
			"preparation_minutes": in.PreparationMinutes,
			"cooking_minutes":     in.CookingMinutes,
			"servings":            in.Servings,
		}).Error; err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}

		tags, err := ensureTags(tx, in.Tags)
		if err != nil {
			return err
		}
		if len(tags) == 0 {
			err = tx.Model(recipe).Association("Tags").Clear()
		} else {
			err = tx.Model(recipe).Association("Tags").Replace(tags)
		}
		if err != nil {
			return fmt.Errorf("failed to replace tags: %w", err)
		}

		if err := tx.Where("recipe_id = ?", id).Delete(&models.IngredientUsage{}).Error; err != nil {
			return fmt.Errorf("failed to clear ingredient usages: %w", err)
		}
		return insertUsages(tx, id, drafts)
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, id)
}

// DeleteRecipe removes a recipe owned by actorID together with its usages,
// comments and tag links. Catalog ingredients are kept.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id, actorID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := authorize(tx, id, actorID)
		if err != nil {
			return err
		}

		if err := tx.Where("recipe_id = ?", id).Delete(&models.IngredientUsage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", id).Error
	})
}

// ListRecipes lists recipes for an author or all recipes if authorID is nil
func (s *RecipeService) ListRecipes(ctx context.Context, authorID *uuid.UUID) ([]*models.Recipe, error) {
	query := s.summaries(ctx)
	if authorID != nil {
		query = query.Where("author_id = ?", *authorID)
	}

	var recipes []*models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// SearchRecipes matches query as a case-insensitive substring of the title.
// A blank query matches nothing.
func (s *RecipeService) SearchRecipes(ctx context.Context, query string) ([]*models.Recipe, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*models.Recipe{}, nil
	}

	like := "%" + escapeLike(models.FoldTitle(query)) + "%"
	var recipes []*models.Recipe
	if err := s.summaries(ctx).
		Where(`title_search LIKE ? ESCAPE '\'`, like).
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// SetRecipeImage records the storage key of the recipe's photo.
func (s *RecipeService) SetRecipeImage(ctx context.Context, id, actorID uuid.UUID, key string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := authorize(tx, id, actorID); err != nil {
			return err
		}
		return tx.Model(&models.Recipe{}).Where("id = ?", id).Update("image_key", key).Error
	})
}

func (s *RecipeService) summaries(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Order("created_at ASC")
}

// authorize loads recipe id and checks that actorID wrote it.
func authorize(tx *gorm.DB, id, actorID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := tx.First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	if recipe.AuthorID != actorID {
		return nil, ErrNotOwner
	}
	return &recipe, nil
}

func validateInput(in *types.RecipeInput) ([]UsageDraft, error) {
	verr := &ValidationError{}

	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		verr.Add("title", "is required")
	case utf8.RuneCountInString(title) > maxTitleLength:
		verr.Add("title", fmt.Sprintf("must be at most %d characters", maxTitleLength))
	}
	if strings.TrimSpace(in.Instructions) == "" {
		verr.Add("instructions", "is required")
	}
	if in.PreparationMinutes < 0 || in.PreparationMinutes > types.MaxMinutes {
		verr.Add("preparation_time", "is out of range")
	}
	if in.CookingMinutes < 0 || in.CookingMinutes > types.MaxMinutes {
		verr.Add("cooking_time", "is out of range")
	}
	if in.Servings <= 0 {
		verr.Add("servings", "must be greater than zero")
	}
	for i, name := range in.Tags {
		if !name.Valid() {
			verr.Add(fmt.Sprintf("tag[%d]", i), fmt.Sprintf("%q is not a known tag", name))
		}
	}

	drafts, err := ComposeUsages(in.IngredientIDs, in.Amounts, in.Units)
	var composeErr *ValidationError
	if errors.As(err, &composeErr) {
		for field, msg := range composeErr.Fields {
			verr.Add(field, msg)
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return drafts, nil
}

// ensureTags returns the tag rows for names, creating missing ones.
func ensureTags(tx *gorm.DB, names []models.TagName) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	seen := make(map[models.TagName]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		var tag models.Tag
		if err := tx.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return nil, fmt.Errorf("failed to load tag %q: %w", name, err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func insertUsages(tx *gorm.DB, recipeID uuid.UUID, drafts []UsageDraft) error {
	usages, err := resolveUsages(tx, recipeID, drafts)
	if err != nil {
		return err
	}
	if len(usages) == 0 {
		return nil
	}
	if err := tx.Omit(clause.Associations).Create(&usages).Error; err != nil {
		return fmt.Errorf("failed to create ingredient usages: %w", err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
