package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/cookbook/backend/internal/middleware"
	"github.com/pageza/cookbook/backend/internal/models"
	"github.com/pageza/cookbook/backend/internal/service"
	"github.com/pageza/cookbook/backend/internal/types"
)

// CatalogHandler serves the ingredient catalog and the tag list.
type CatalogHandler struct {
	ingredients service.IIngredientService
}

func NewCatalogHandler(ingredients service.IIngredientService) *CatalogHandler {
	return &CatalogHandler{ingredients: ingredients}
}

func (h *CatalogHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/ingredients/", h.ListIngredients)
	router.POST("/ingredients/", middleware.RequireLogin(), h.CreateIngredient)
	router.GET("/tags/", h.ListTags)
}

func (h *CatalogHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.ingredients.ListIngredients(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": ingredients})
}

func (h *CatalogHandler) CreateIngredient(c *gin.Context) {
	var req types.IngredientRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ingredient, err := h.ingredients.CreateIngredient(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ingredient": ingredient})
}

func (h *CatalogHandler) ListTags(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tags": models.TagNames})
}
