package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/cookbook/backend/internal/models"
	"github.com/pageza/cookbook/backend/internal/types"
)

// UsageDraft is one accepted ingredient/amount/unit triple. Index is its
// position in the submitted lists.
type UsageDraft struct {
	Index        int
	IngredientID uuid.UUID
	Quantity     int
	Unit         models.Unit
}

// ComposeUsages walks the three parallel lists and returns a draft for every
// index where ingredient, amount and unit are all present. Indices with any
// empty entry are skipped; positions past the end of a shorter list count as
// empty. Present but malformed values are reported as field errors.
func ComposeUsages(ingredientIDs, amounts, units []string) ([]UsageDraft, error) {
	verr := &ValidationError{}
	drafts := make([]UsageDraft, 0, len(ingredientIDs))

	for i := range ingredientIDs {
		rawID := strings.TrimSpace(ingredientIDs[i])
		rawAmount := strings.TrimSpace(at(amounts, i))
		rawUnit := strings.TrimSpace(at(units, i))
		if rawID == "" || rawAmount == "" || rawUnit == "" {
			continue
		}

		id, err := uuid.Parse(rawID)
		if err != nil {
			verr.Add(fmt.Sprintf("ingredient[%d]", i), "unknown ingredient")
		}
		qty, err := types.ParsePositiveInt(rawAmount)
		if err != nil {
			verr.Add(fmt.Sprintf("amount[%d]", i), err.Error())
		}
		unit := models.Unit(rawUnit)
		if !unit.Valid() {
			verr.Add(fmt.Sprintf("unit[%d]", i), fmt.Sprintf("%q is not one of g, kg, ml, l", rawUnit))
		}

		drafts = append(drafts, UsageDraft{Index: i, IngredientID: id, Quantity: qty, Unit: unit})
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return drafts, nil
}

func at(list []string, i int) string {
	if i < len(list) {
		return list[i]
	}
	return ""
}

// resolveUsages checks every draft against the catalog and builds the usage
// rows for recipeID. An id missing from the catalog is a field error, not a
// skip.
func resolveUsages(tx *gorm.DB, recipeID uuid.UUID, drafts []UsageDraft) ([]models.IngredientUsage, error) {
	if len(drafts) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(drafts))
	seen := make(map[uuid.UUID]bool, len(drafts))
	for _, d := range drafts {
		if !seen[d.IngredientID] {
			seen[d.IngredientID] = true
			ids = append(ids, d.IngredientID)
		}
	}

	var found []models.Ingredient
	if err := tx.Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve ingredients: %w", err)
	}
	catalog := make(map[uuid.UUID]models.Ingredient, len(found))
	for _, ing := range found {
		catalog[ing.ID] = ing
	}

	verr := &ValidationError{}
	usages := make([]models.IngredientUsage, 0, len(drafts))
	for pos, d := range drafts {
		ing, ok := catalog[d.IngredientID]
		if !ok {
			verr.Add(fmt.Sprintf("ingredient[%d]", d.Index), "unknown ingredient")
			continue
		}
		usages = append(usages, models.IngredientUsage{
			RecipeID:     recipeID,
			IngredientID: ing.ID,
			Ingredient:   ing,
			Quantity:     d.Quantity,
			Unit:         d.Unit,
			Position:     pos,
		})
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return usages, nil
}
