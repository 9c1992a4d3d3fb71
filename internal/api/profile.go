package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/cookbook/backend/internal/middleware"
	"github.com/pageza/cookbook/backend/internal/service"
)

type ProfileHandler struct {
	profileService service.IProfileService
	recipes        service.IRecipeService
}

func NewProfileHandler(profileService service.IProfileService, recipes service.IRecipeService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		recipes:        recipes,
	}
}

func (h *ProfileHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/profile/", middleware.RequireLogin(), h.GetProfile)
}

// GetProfile returns the requester's account details, activity counts and
// recipes.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	recipes, err := h.recipes.ListRecipes(c.Request.Context(), &userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": profile,
		"recipes": toSummaries(recipes),
	})
}
