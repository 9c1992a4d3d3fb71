package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/cookbook/backend/internal/middleware"
	"github.com/pageza/cookbook/backend/internal/models"
	"github.com/pageza/cookbook/backend/internal/service"
	"github.com/pageza/cookbook/backend/internal/types"
)

type RecipeHandler struct {
	recipes         service.IRecipeService
	ingredients     service.IIngredientService
	comments        service.ICommentService
	images          service.IImageService
	creationLimiter gin.HandlerFunc
	commentLimiter  gin.HandlerFunc
}

func NewRecipeHandler(svc Services, limiters Limiters) *RecipeHandler {
	return &RecipeHandler{
		recipes:         svc.Recipes,
		ingredients:     svc.Ingredients,
		comments:        svc.Comments,
		images:          svc.Images,
		creationLimiter: limiters.recipeCreation(),
		commentLimiter:  limiters.comments(),
	}
}

func (h *RecipeHandler) RegisterRoutes(router gin.IRouter) {
	login := middleware.RequireLogin()

	router.GET("/", h.ListRecipes)
	router.GET("/my_recipes/", login, h.MyRecipes)
	router.GET("/add_recipe/", login, h.NewRecipeForm)
	router.POST("/add_recipe/", login, h.creationLimiter, h.CreateRecipe)
	router.GET("/recipe/:id/", h.GetRecipe)
	router.POST("/recipe/:id/", login, h.commentLimiter, h.AddComment)
	router.GET("/recipe/:id/comments/", h.ListComments)
	router.GET("/recipe/:id/edit/", login, h.EditRecipeForm)
	router.POST("/recipe/:id/edit/", login, h.UpdateRecipe)
	router.GET("/recipe/:id/delete/", login, h.ConfirmDelete)
	router.POST("/recipe/:id/delete/", login, h.DeleteRecipe)
	router.POST("/recipe/:id/image/", login, h.UploadImage)
	router.GET("/search/", h.SearchRecipes)
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.recipes.ListRecipes(c.Request.Context(), nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": toSummaries(recipes)})
}

func (h *RecipeHandler) MyRecipes(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	recipes, err := h.recipes.ListRecipes(c.Request.Context(), &userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": toSummaries(recipes)})
}

func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	query := c.Query("q")
	recipes, err := h.recipes.SearchRecipes(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"recipes": toSummaries(recipes),
	})
}

func (h *RecipeHandler) NewRecipeForm(c *gin.Context) {
	options, err := h.formOptions(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"options": options})
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	in, ok := bindRecipeForm(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.detail(c, recipe, userID))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, ok := h.loadRecipe(c)
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)
	c.JSON(http.StatusOK, h.detail(c, recipe, userID))
}

func (h *RecipeHandler) AddComment(c *gin.Context) {
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	var req types.CommentRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	comment, err := h.comments.AddComment(c.Request.Context(), recipeID, userID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": toCommentView(comment)})
}

func (h *RecipeHandler) ListComments(c *gin.Context) {
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	comments, err := h.comments.ListComments(c.Request.Context(), recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	views := make([]CommentView, 0, len(comments))
	for _, comment := range comments {
		views = append(views, toCommentView(comment))
	}
	c.JSON(http.StatusOK, gin.H{"comments": views})
}

func (h *RecipeHandler) EditRecipeForm(c *gin.Context) {
	recipe, ok := h.loadOwnedRecipe(c)
	if !ok {
		return
	}
	options, err := h.formOptions(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"recipe":  h.detail(c, recipe, recipe.AuthorID),
		"options": options,
	})
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	recipe, ok := h.loadOwnedRecipe(c)
	if !ok {
		return
	}

	in, ok := bindRecipeForm(c)
	if !ok {
		return
	}

	updated, err := h.recipes.UpdateRecipe(c.Request.Context(), recipe.ID, recipe.AuthorID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.detail(c, updated, recipe.AuthorID))
}

func (h *RecipeHandler) ConfirmDelete(c *gin.Context) {
	recipe, ok := h.loadOwnedRecipe(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"recipe":  toSummary(recipe),
		"message": "Are you sure you want to delete this recipe?",
	})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	recipe, ok := h.loadOwnedRecipe(c)
	if !ok {
		return
	}
	if err := h.recipes.DeleteRecipe(c.Request.Context(), recipe.ID, recipe.AuthorID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe deleted"})
}

// UploadImage stores the multipart field "image" as the recipe photo.
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	recipe, ok := h.loadOwnedRecipe(c)
	if !ok {
		return
	}
	if !h.images.Enabled() {
		respondError(c, service.ErrStorageDisabled)
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		validationFailed(c, map[string]string{"image": "is required"})
		return
	}
	file, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	key, err := h.images.UploadRecipeImage(c.Request.Context(), recipe.ID, recipe.AuthorID, fh.Filename, file, fh.Size)
	if err != nil {
		respondError(c, err)
		return
	}

	url, err := h.images.ImageURL(c.Request.Context(), key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"image_url": url})
}

func (h *RecipeHandler) loadRecipe(c *gin.Context) (*models.Recipe, bool) {
	id, ok := recipeIDParam(c)
	if !ok {
		return nil, false
	}
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return recipe, true
}

// loadOwnedRecipe loads the recipe of the path and redirects to the home
// page unless the requester wrote it.
func (h *RecipeHandler) loadOwnedRecipe(c *gin.Context) (*models.Recipe, bool) {
	recipe, ok := h.loadRecipe(c)
	if !ok {
		return nil, false
	}
	userID, _ := middleware.UserID(c)
	if recipe.AuthorID != userID {
		respondError(c, service.ErrNotOwner)
		return nil, false
	}
	return recipe, true
}

func (h *RecipeHandler) formOptions(c *gin.Context) (*FormOptions, error) {
	ingredients, err := h.ingredients.ListIngredients(c.Request.Context())
	if err != nil {
		return nil, err
	}
	return &FormOptions{
		Units:       models.Units,
		Tags:        models.TagNames,
		Ingredients: ingredients,
	}, nil
}

func (h *RecipeHandler) detail(c *gin.Context, recipe *models.Recipe, viewer uuid.UUID) RecipeDetail {
	d := toDetail(recipe, viewer)
	if recipe.ImageKey != "" && h.images.Enabled() {
		url, err := h.images.ImageURL(c.Request.Context(), recipe.ImageKey)
		if err != nil {
			// Logged by the error middleware; the page renders without a photo.
			_ = c.Error(err)
		} else {
			d.ImageURL = url
		}
	}
	return d
}

func recipeIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.ErrRecipeNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// bindRecipeForm binds the recipe form and parses its time and serving
// fields. On failure the response has been written.
func bindRecipeForm(c *gin.Context) (*types.RecipeInput, bool) {
	var form types.RecipeForm
	if err := c.ShouldBind(&form); err != nil {
		respondBindError(c, err)
		return nil, false
	}

	verr := &service.ValidationError{}
	prep, err := types.ParseMinutes(form.PreparationTime)
	if err != nil {
		verr.Add("preparation_time", err.Error())
	}
	cook, err := types.ParseMinutes(form.CookingTime)
	if err != nil {
		verr.Add("cooking_time", err.Error())
	}
	servings, err := types.ParsePositiveInt(form.Servings)
	if err != nil {
		verr.Add("servings", err.Error())
	}
	if verr.OrNil() != nil {
		validationFailed(c, verr.Fields)
		return nil, false
	}

	tags := make([]models.TagName, 0, len(form.Tags))
	for _, t := range form.Tags {
		tags = append(tags, models.TagName(t))
	}

	return &types.RecipeInput{
		Title:              form.Title,
		Instructions:       form.Instructions,
		PreparationMinutes: prep,
		CookingMinutes:     cook,
		Servings:           servings,
		Tags:               tags,
		IngredientIDs:      form.Ingredients,
		Amounts:            form.Amounts,
		Units:              form.Units,
	}, true
}
