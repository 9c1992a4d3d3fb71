package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/cookbook/backend/internal/api"
	"github.com/pageza/cookbook/backend/internal/middleware"
	"github.com/pageza/cookbook/backend/internal/mocks"
	"github.com/pageza/cookbook/backend/internal/models"
	"github.com/pageza/cookbook/backend/internal/testhelpers"
)

func soupForm(ings []*models.Ingredient) url.Values {
	return url.Values{
		"title":            {"Soup"},
		"instructions":     {"Boil water with salt."},
		"preparation_time": {"5 min"},
		"cooking_time":     {"1h30m"},
		"servings":         {"4"},
		"tag":              {"soups"},
		"ingredient":       {ings[0].ID.String(), ings[1].ID.String()},
		"amount":           {"5", "1"},
		"unit":             {"g", "l"},
	}
}

func TestSoupEndToEnd(t *testing.T) {
	env := setupAPI(t, nil)
	ings := testhelpers.CreateTestIngredients(t, env.db, "salt", "water")
	_, aliceToken := env.login(t, "alice")
	_, bobToken := env.login(t, "bob")

	w := env.do(http.MethodPost, "/add_recipe/", soupForm(ings), aliceToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created api.RecipeDetail
	decode(t, w, &created)
	assert.Equal(t, 5, created.PreparationMinutes)
	assert.Equal(t, 90, created.CookingMinutes)
	assert.True(t, created.IsOwner)

	detailPath := "/recipe/" + created.ID.String() + "/"
	w = env.do(http.MethodGet, detailPath, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Soup")
	assert.Contains(t, w.Body.String(), "salt")
	assert.Contains(t, w.Body.String(), "water")

	var detail api.RecipeDetail
	decode(t, w, &detail)
	require.Len(t, detail.Ingredients, 2)
	assert.Equal(t, api.UsageView{IngredientID: ings[0].ID, Name: "salt", Quantity: 5, Unit: models.UnitGram}, detail.Ingredients[0])
	assert.Equal(t, api.UsageView{IngredientID: ings[1].ID, Name: "water", Quantity: 1, Unit: models.UnitLitre}, detail.Ingredients[1])
	assert.Equal(t, "alice", detail.Author)
	assert.False(t, detail.IsOwner)

	hijack := soupForm(ings)
	hijack.Set("title", "Bob's Soup")
	w = env.do(http.MethodPost, detailPath+"edit/", hijack, bobToken)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = env.do(http.MethodGet, detailPath+"edit/", nil, bobToken)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = env.do(http.MethodPost, detailPath+"delete/", nil, bobToken)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	reloaded, err := env.recipes.GetRecipe(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Soup", reloaded.Title)
	assert.Len(t, reloaded.Usages, 2)
}

func TestEditRecipeReplacesIngredients(t *testing.T) {
	env := setupAPI(t, nil)
	ings := testhelpers.CreateTestIngredients(t, env.db, "salt", "water", "leek")
	alice, token := env.login(t, "alice")

	w := env.do(http.MethodPost, "/add_recipe/", soupForm(ings), token)
	require.Equal(t, http.StatusCreated, w.Code)
	var created api.RecipeDetail
	decode(t, w, &created)

	w = env.do(http.MethodGet, "/recipe/"+created.ID.String()+"/edit/", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"units":["g","kg","ml","l"]`)

	edit := soupForm(ings)
	edit.Set("title", "Leek Soup")
	edit["ingredient"] = []string{ings[2].ID.String(), ings[0].ID.String(), ""}
	edit["amount"] = []string{"2", "", "7"}
	edit["unit"] = []string{"kg", "g", "g"}

	w = env.do(http.MethodPost, "/recipe/"+created.ID.String()+"/edit/", edit, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated api.RecipeDetail
	decode(t, w, &updated)
	assert.Equal(t, "Leek Soup", updated.Title)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, "leek", updated.Ingredients[0].Name)
	assert.Equal(t, models.UnitKilogram, updated.Ingredients[0].Unit)

	reloaded, err := env.recipes.GetRecipe(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, reloaded.AuthorID)
}

func TestDeleteRecipeByOwner(t *testing.T) {
	env := setupAPI(t, nil)
	ings := testhelpers.CreateTestIngredients(t, env.db, "salt", "water")
	_, token := env.login(t, "alice")

	w := env.do(http.MethodPost, "/add_recipe/", soupForm(ings), token)
	require.Equal(t, http.StatusCreated, w.Code)
	var created api.RecipeDetail
	decode(t, w, &created)
	path := "/recipe/" + created.ID.String() + "/"

	w = env.do(http.MethodGet, path+"delete/", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPost, path+"delete/", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"recipe not found"}`, w.Body.String())
}

func TestCreateRecipeValidation(t *testing.T) {
	env := setupAPI(t, nil)
	ings := testhelpers.CreateTestIngredients(t, env.db, "salt", "water")
	_, token := env.login(t, "alice")

	tests := []struct {
		name  string
		edit  func(url.Values)
		field string
	}{
		{"unknown unit", func(v url.Values) { v["unit"] = []string{"g", "cup"} }, "unit[1]"},
		{"unknown tag", func(v url.Values) { v["tag"] = []string{"breakfast"} }, "tag[0]"},
		{"missing title", func(v url.Values) { v.Del("title") }, "title"},
		{"bad time", func(v url.Values) { v.Set("cooking_time", "forever") }, "cooking_time"},
		{"negative time", func(v url.Values) { v.Set("preparation_time", "-5") }, "preparation_time"},
		{"zero servings", func(v url.Values) { v.Set("servings", "0") }, "servings"},
		{"bad amount", func(v url.Values) { v["amount"] = []string{"five", "1"} }, "amount[0]"},
		{"unknown ingredient", func(v url.Values) { v["ingredient"] = []string{uuid.NewString(), ings[1].ID.String()} }, "ingredient[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := soupForm(ings)
			tt.edit(form)

			w := env.do(http.MethodPost, "/add_recipe/", form, token)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			var body validationBody
			decode(t, w, &body)
			assert.Equal(t, "validation failed", body.Error)
			assert.Contains(t, body.Fields, tt.field)
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateRecipeIgnoresIncompleteTriples(t *testing.T) {
	env := setupAPI(t, nil)
	ings := testhelpers.CreateTestIngredients(t, env.db, "salt", "water")
	_, token := env.login(t, "alice")

	form := soupForm(ings)
	form["ingredient"] = []string{ings[0].ID.String(), ""}
	form["amount"] = []string{"5", ""}
	form["unit"] = []string{"g", "cup"}

	w := env.do(http.MethodPost, "/add_recipe/", form, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created api.RecipeDetail
	decode(t, w, &created)
	require.Len(t, created.Ingredients, 1)
	assert.Equal(t, "salt", created.Ingredients[0].Name)
	assert.Equal(t, models.UnitGram, created.Ingredients[0].Unit)
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	env := setupAPI(t, nil)
	id := uuid.NewString()

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/my_recipes/"},
		{http.MethodGet, "/add_recipe/"},
		{http.MethodPost, "/add_recipe/"},
		{http.MethodGet, "/recipe/" + id + "/edit/"},
		{http.MethodPost, "/recipe/" + id + "/delete/"},
		{http.MethodGet, "/profile/"},
		{http.MethodPost, "/ingredients/"},
	} {
		w := env.do(tc.method, tc.path, nil, "")
		assert.Equal(t, http.StatusFound, w.Code, tc.path)
		assert.Equal(t, "/login/?next="+url.QueryEscape(tc.path), w.Header().Get("Location"))
	}
}

func TestComments(t *testing.T) {
	env := setupAPI(t, nil)
	ings := testhelpers.CreateTestIngredients(t, env.db, "salt", "water")
	_, aliceToken := env.login(t, "alice")
	_, bobToken := env.login(t, "bob")

	w := env.do(http.MethodPost, "/add_recipe/", soupForm(ings), aliceToken)
	require.Equal(t, http.StatusCreated, w.Code)
	var created api.RecipeDetail
	decode(t, w, &created)
	path := "/recipe/" + created.ID.String() + "/"

	w = env.do(http.MethodPost, path, url.Values{"text": {"sneaky"}}, "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/?next="+url.QueryEscape(path), w.Header().Get("Location"))

	var count int64
	require.NoError(t, env.db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)

	w = env.do(http.MethodPost, path, url.Values{"text": {"Delicious"}}, bobToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = env.do(http.MethodPost, path, url.Values{"text": {"Thank you"}}, aliceToken)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(http.MethodPost, path, url.Values{"text": {""}}, bobToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, path, nil, "")
	var detail api.RecipeDetail
	decode(t, w, &detail)
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, "bob", detail.Comments[0].Author)
	assert.Equal(t, "Delicious", detail.Comments[0].Text)
	assert.Equal(t, "Thank you", detail.Comments[1].Text)

	w = env.do(http.MethodGet, path+"comments/", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var thread struct {
		Comments []api.CommentView `json:"comments"`
	}
	decode(t, w, &thread)
	require.Len(t, thread.Comments, 2)
	assert.Equal(t, "Delicious", thread.Comments[0].Text)
	assert.Equal(t, "alice", thread.Comments[1].Author)

	w = env.do(http.MethodPost, "/recipe/"+uuid.NewString()+"/", url.Values{"text": {"hello"}}, bobToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(http.MethodGet, "/recipe/"+uuid.NewString()+"/comments/", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAndSearch(t *testing.T) {
	env := setupAPI(t, nil)
	ings := testhelpers.CreateTestIngredients(t, env.db, "salt", "water")
	_, aliceToken := env.login(t, "alice")
	_, bobToken := env.login(t, "bob")

	for _, tc := range []struct{ title, token string }{
		{"Chocolate Cake", aliceToken},
		{"Soup", aliceToken},
		{"Carrot cake", bobToken},
		{"Żurek Śląski", bobToken},
	} {
		form := soupForm(ings)
		form.Set("title", tc.title)
		require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/add_recipe/", form, tc.token).Code)
	}

	type list struct {
		Recipes []api.RecipeSummary `json:"recipes"`
	}
	titles := func(l list) []string {
		out := make([]string, 0, len(l.Recipes))
		for _, r := range l.Recipes {
			out = append(out, r.Title)
		}
		return out
	}

	var all list
	decode(t, env.do(http.MethodGet, "/", nil, ""), &all)
	assert.ElementsMatch(t, []string{"Chocolate Cake", "Soup", "Carrot cake", "Żurek Śląski"}, titles(all))

	var mine list
	decode(t, env.do(http.MethodGet, "/my_recipes/", nil, bobToken), &mine)
	assert.ElementsMatch(t, []string{"Carrot cake", "Żurek Śląski"}, titles(mine))

	var found list
	decode(t, env.do(http.MethodGet, "/search/?q=cake", nil, ""), &found)
	assert.ElementsMatch(t, []string{"Chocolate Cake", "Carrot cake"}, titles(found))

	var polish list
	decode(t, env.do(http.MethodGet, "/search/?q="+url.QueryEscape("ŻUREK"), nil, ""), &polish)
	assert.Equal(t, []string{"Żurek Śląski"}, titles(polish))

	for _, path := range []string{"/search/", "/search/?q=", "/search/?q=%20%20"} {
		var empty list
		w := env.do(http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		decode(t, w, &empty)
		assert.Empty(t, empty.Recipes, path)
	}
}

func TestJSONRecipeBody(t *testing.T) {
	env := setupAPI(t, nil)
	ings := testhelpers.CreateTestIngredients(t, env.db, "salt", "water")
	_, token := env.login(t, "alice")

	w := env.doJSON(http.MethodPost, "/add_recipe/", map[string]interface{}{
		"title":            "Salted Water",
		"instructions":     "Stir.",
		"preparation_time": "1",
		"cooking_time":     "0",
		"servings":         "1",
		"ingredient":       []string{ings[0].ID.String()},
		"amount":           []string{"3"},
		"unit":             []string{"g"},
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created api.RecipeDetail
	decode(t, w, &created)
	require.Len(t, created.Ingredients, 1)
	assert.Empty(t, created.Tags)
}

func TestJSONRecipeBodyNumericAmounts(t *testing.T) {
	env := setupAPI(t, nil)
	ings := testhelpers.CreateTestIngredients(t, env.db, "salt", "water")
	_, token := env.login(t, "alice")

	w := env.doJSON(http.MethodPost, "/add_recipe/", map[string]interface{}{
		"title":            "Brine",
		"instructions":     "Dissolve.",
		"preparation_time": "2",
		"cooking_time":     "0",
		"servings":         "1",
		"ingredient":       []string{ings[0].ID.String(), ings[1].ID.String(), ""},
		"amount":           []interface{}{5, 1, nil},
		"unit":             []string{"g", "l", ""},
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created api.RecipeDetail
	decode(t, w, &created)
	require.Len(t, created.Ingredients, 2)
	assert.Equal(t, 5, created.Ingredients[0].Quantity)
	assert.Equal(t, 1, created.Ingredients[1].Quantity)
}

func TestUnknownRecipe(t *testing.T) {
	env := setupAPI(t, nil)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/recipe/"+uuid.NewString()+"/", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/recipe/not-a-uuid/", nil, "").Code)
}

func TestInternalErrorsBecome500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recipes := new(mocks.MockRecipeService)
	recipes.On("ListRecipes", mock.Anything, (*uuid.UUID)(nil)).Return(nil, errors.New("connection reset"))

	router := gin.New()
	router.Use(middleware.ErrorHandler(zap.NewNop()), middleware.OptionalAuth(new(mocks.MockAuthService)))
	api.RegisterRoutes(router, api.Services{Auth: new(mocks.MockAuthService), Recipes: recipes}, api.Limiters{}, false)

	env := &testEnv{router: router}
	w := env.do(http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	recipes.AssertExpectations(t)
}
