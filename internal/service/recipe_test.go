package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/cookbook/backend/internal/models"
	"github.com/pageza/cookbook/backend/internal/service"
	"github.com/pageza/cookbook/backend/internal/testhelpers"
	"github.com/pageza/cookbook/backend/internal/types"
)

type recipeFixture struct {
	db      *gorm.DB
	svc     *service.RecipeService
	author  *models.User
	other   *models.User
	salt    *models.Ingredient
	water   *models.Ingredient
	carrots *models.Ingredient
}

func setupRecipeTest(t *testing.T) *recipeFixture {
	db := testhelpers.SetupTestDatabase(t)
	ings := testhelpers.CreateTestIngredients(t, db, "salt", "water", "carrots")
	return &recipeFixture{
		db:      db,
		svc:     service.NewRecipeService(db),
		author:  testhelpers.CreateTestUser(t, db, "alice"),
		other:   testhelpers.CreateTestUser(t, db, "bob"),
		salt:    ings[0],
		water:   ings[1],
		carrots: ings[2],
	}
}

func soupInput(f *recipeFixture) *types.RecipeInput {
	return &types.RecipeInput{
		Title:              "Soup",
		Instructions:       "Boil the water, add salt.",
		PreparationMinutes: 5,
		CookingMinutes:     30,
		Servings:           4,
		Tags:               []models.TagName{models.TagSoups},
		IngredientIDs:      []string{f.salt.ID.String(), f.water.ID.String()},
		Amounts:            []string{"5", "1"},
		Units:              []string{"g", "l"},
	}
}

func usageCount(t *testing.T, db *gorm.DB, recipeID uuid.UUID) int64 {
	var n int64
	require.NoError(t, db.Model(&models.IngredientUsage{}).Where("recipe_id = ?", recipeID).Count(&n).Error)
	return n
}

func TestCreateRecipe(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	recipe, err := f.svc.CreateRecipe(ctx, f.author.ID, soupInput(f))
	require.NoError(t, err)

	assert.Equal(t, "Soup", recipe.Title)
	assert.Equal(t, f.author.ID, recipe.AuthorID)
	assert.Equal(t, "alice", recipe.Author.Username)
	assert.Equal(t, 30, recipe.CookingMinutes)
	require.Len(t, recipe.Usages, 2)
	assert.Equal(t, "salt", recipe.Usages[0].Ingredient.Name)
	assert.Equal(t, 5, recipe.Usages[0].Quantity)
	assert.Equal(t, models.UnitGram, recipe.Usages[0].Unit)
	assert.Equal(t, "water", recipe.Usages[1].Ingredient.Name)
	assert.Equal(t, models.UnitLitre, recipe.Usages[1].Unit)
	require.Len(t, recipe.Tags, 1)
	assert.Equal(t, models.TagSoups, recipe.Tags[0].Name)
}

func TestCreateRecipeSkipsIncompleteTriples(t *testing.T) {
	f := setupRecipeTest(t)

	in := soupInput(f)
	in.IngredientIDs = []string{f.salt.ID.String(), f.water.ID.String(), f.carrots.ID.String()}
	in.Amounts = []string{"5", "", "200"}
	in.Units = []string{"g", "l", "g"}

	recipe, err := f.svc.CreateRecipe(context.Background(), f.author.ID, in)
	require.NoError(t, err)
	require.Len(t, recipe.Usages, 2)
	assert.Equal(t, "salt", recipe.Usages[0].Ingredient.Name)
	assert.Equal(t, "carrots", recipe.Usages[1].Ingredient.Name)
	assert.Equal(t, 200, recipe.Usages[1].Quantity)
}

func TestCreateRecipeUnknownIngredientWritesNothing(t *testing.T) {
	f := setupRecipeTest(t)

	in := soupInput(f)
	in.IngredientIDs[1] = uuid.NewString()

	_, err := f.svc.CreateRecipe(context.Background(), f.author.ID, in)
	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "ingredient[1]")

	var recipes, usages int64
	require.NoError(t, f.db.Model(&models.Recipe{}).Count(&recipes).Error)
	require.NoError(t, f.db.Model(&models.IngredientUsage{}).Count(&usages).Error)
	assert.Zero(t, recipes)
	assert.Zero(t, usages)
}

func TestCreateRecipeValidation(t *testing.T) {
	f := setupRecipeTest(t)

	in := soupInput(f)
	in.Title = "   "
	in.Servings = 0
	in.Tags = []models.TagName{"breakfast"}

	_, err := f.svc.CreateRecipe(context.Background(), f.author.ID, in)
	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "title")
	assert.Contains(t, verr.Fields, "servings")
	assert.Contains(t, verr.Fields, "tag[0]")
}

func TestUpdateRecipeReplacesUsages(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	recipe, err := f.svc.CreateRecipe(ctx, f.author.ID, soupInput(f))
	require.NoError(t, err)

	in := soupInput(f)
	in.Title = "Carrot Soup"
	in.Tags = []models.TagName{models.TagSoups, models.TagMainCourses}
	in.IngredientIDs = []string{f.carrots.ID.String()}
	in.Amounts = []string{"300"}
	in.Units = []string{"g"}

	updated, err := f.svc.UpdateRecipe(ctx, recipe.ID, f.author.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Carrot Soup", updated.Title)
	assert.Equal(t, f.author.ID, updated.AuthorID)
	require.Len(t, updated.Usages, 1)
	assert.Equal(t, "carrots", updated.Usages[0].Ingredient.Name)
	assert.Len(t, updated.Tags, 2)
	assert.Equal(t, int64(1), usageCount(t, f.db, recipe.ID))

	var catalog int64
	require.NoError(t, f.db.Model(&models.Ingredient{}).Count(&catalog).Error)
	assert.Equal(t, int64(3), catalog)
}

func TestUpdateRecipeWithNoTriplesClearsUsages(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	recipe, err := f.svc.CreateRecipe(ctx, f.author.ID, soupInput(f))
	require.NoError(t, err)

	in := soupInput(f)
	in.Tags = nil
	in.IngredientIDs, in.Amounts, in.Units = nil, nil, nil

	updated, err := f.svc.UpdateRecipe(ctx, recipe.ID, f.author.ID, in)
	require.NoError(t, err)
	assert.Empty(t, updated.Usages)
	assert.Empty(t, updated.Tags)
	assert.Zero(t, usageCount(t, f.db, recipe.ID))
}

func TestUpdateRecipeRollsBackOnInvalidIngredient(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	recipe, err := f.svc.CreateRecipe(ctx, f.author.ID, soupInput(f))
	require.NoError(t, err)

	in := soupInput(f)
	in.Title = "Changed"
	in.IngredientIDs = []string{uuid.NewString()}
	in.Amounts = []string{"1"}
	in.Units = []string{"kg"}

	_, err = f.svc.UpdateRecipe(ctx, recipe.ID, f.author.ID, in)
	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))

	reloaded, err := f.svc.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Soup", reloaded.Title)
	assert.Len(t, reloaded.Usages, 2)
}

func TestUpdateRecipeNotOwner(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	recipe, err := f.svc.CreateRecipe(ctx, f.author.ID, soupInput(f))
	require.NoError(t, err)

	in := soupInput(f)
	in.Title = "Hijacked"
	_, err = f.svc.UpdateRecipe(ctx, recipe.ID, f.other.ID, in)
	assert.ErrorIs(t, err, service.ErrNotOwner)

	reloaded, err := f.svc.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Soup", reloaded.Title)
	assert.Len(t, reloaded.Usages, 2)
}

func TestDeleteRecipe(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	recipe, err := f.svc.CreateRecipe(ctx, f.author.ID, soupInput(f))
	require.NoError(t, err)
	_, err = service.NewCommentService(f.db).AddComment(ctx, recipe.ID, f.other.ID, "Tasty")
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.DeleteRecipe(ctx, recipe.ID, f.other.ID), service.ErrNotOwner)

	require.NoError(t, f.svc.DeleteRecipe(ctx, recipe.ID, f.author.ID))
	_, err = f.svc.GetRecipe(ctx, recipe.ID)
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
	assert.Zero(t, usageCount(t, f.db, recipe.ID))

	var catalog int64
	require.NoError(t, f.db.Model(&models.Ingredient{}).Count(&catalog).Error)
	assert.Equal(t, int64(3), catalog)

	assert.ErrorIs(t, f.svc.DeleteRecipe(ctx, recipe.ID, f.author.ID), service.ErrRecipeNotFound)
}

func TestGetRecipeNotFound(t *testing.T) {
	f := setupRecipeTest(t)
	_, err := f.svc.GetRecipe(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
}

func TestListRecipes(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	_, err := f.svc.CreateRecipe(ctx, f.author.ID, soupInput(f))
	require.NoError(t, err)
	in := soupInput(f)
	in.Title = "Bob's Stew"
	_, err = f.svc.CreateRecipe(ctx, f.other.ID, in)
	require.NoError(t, err)

	all, err := f.svc.ListRecipes(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := f.svc.ListRecipes(ctx, &f.other.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Bob's Stew", mine[0].Title)
}

func TestSearchRecipes(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	for _, title := range []string{"Chocolate Cake", "Cheesecake", "Tomato Soup", "100% Rye", "ŻUREK Śląski"} {
		in := soupInput(f)
		in.Title = title
		_, err := f.svc.CreateRecipe(ctx, f.author.ID, in)
		require.NoError(t, err)
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"cake", []string{"Chocolate Cake", "Cheesecake"}},
		{"CAKE", []string{"Chocolate Cake", "Cheesecake"}},
		{"soup", []string{"Tomato Soup"}},
		{"%", []string{"100% Rye"}},
		{"żurek", []string{"ŻUREK Śląski"}},
		{"ŚLĄSKI", []string{"ŻUREK Śląski"}},
		{"_", nil},
		{"pie", nil},
		{"", nil},
		{"   ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := f.svc.SearchRecipes(ctx, tt.query)
			require.NoError(t, err)
			titles := make([]string, 0, len(got))
			for _, r := range got {
				titles = append(titles, r.Title)
			}
			assert.ElementsMatch(t, tt.want, titles)
		})
	}
}

func TestSearchRecipesFollowsEdits(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	recipe, err := f.svc.CreateRecipe(ctx, f.author.ID, soupInput(f))
	require.NoError(t, err)

	in := soupInput(f)
	in.Title = "Barszcz Czerwony"
	_, err = f.svc.UpdateRecipe(ctx, recipe.ID, f.author.ID, in)
	require.NoError(t, err)

	got, err := f.svc.SearchRecipes(ctx, "barszcz")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, recipe.ID, got[0].ID)

	got, err = f.svc.SearchRecipes(ctx, "soup")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSetRecipeImage(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	recipe, err := f.svc.CreateRecipe(ctx, f.author.ID, soupInput(f))
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.SetRecipeImage(ctx, recipe.ID, f.other.ID, "recipes/x.png"), service.ErrNotOwner)
	require.NoError(t, f.svc.SetRecipeImage(ctx, recipe.ID, f.author.ID, "recipes/x.png"))

	reloaded, err := f.svc.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "recipes/x.png", reloaded.ImageKey)
}
