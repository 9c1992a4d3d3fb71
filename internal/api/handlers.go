package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageza/cookbook/backend/internal/database"
	"github.com/pageza/cookbook/backend/internal/middleware"
	"github.com/pageza/cookbook/backend/internal/service"
)

// Services bundles the services behind the HTTP surface.
type Services struct {
	Auth        service.IAuthService
	Recipes     service.IRecipeService
	Ingredients service.IIngredientService
	Comments    service.ICommentService
	Profiles    service.IProfileService
	Images      service.IImageService
}

// Limiters holds the per-user rate limiters. Nil limiters are skipped.
type Limiters struct {
	RecipeCreation *middleware.RateLimiter
	Comments       *middleware.RateLimiter
}

func (l Limiters) recipeCreation() gin.HandlerFunc {
	return limiterOrPass(l.RecipeCreation)
}

func (l Limiters) comments() gin.HandlerFunc {
	return limiterOrPass(l.Comments)
}

func limiterOrPass(rl *middleware.RateLimiter) gin.HandlerFunc {
	if rl == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return rl.RateLimitMiddleware()
}

// HealthCheck returns the health status of the API
func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := database.HealthCheck(ctx, db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Cookbook API is running",
		})
	}
}

// RegisterRoutes registers all API routes. Session identification must
// already be installed on router with middleware.OptionalAuth.
func RegisterRoutes(router gin.IRouter, svc Services, limiters Limiters, secureCookies bool) {
	NewAuthHandler(svc.Auth, secureCookies).RegisterRoutes(router)
	NewRecipeHandler(svc, limiters).RegisterRoutes(router)
	NewCatalogHandler(svc.Ingredients).RegisterRoutes(router)
	NewProfileHandler(svc.Profiles, svc.Recipes).RegisterRoutes(router)
}
