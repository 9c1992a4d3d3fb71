package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/cookbook/backend/internal/middleware"
	"github.com/pageza/cookbook/backend/internal/models"
	"github.com/pageza/cookbook/backend/internal/service"
	"github.com/pageza/cookbook/backend/internal/types"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	authService   service.IAuthService
	secureCookies bool
}

func NewAuthHandler(authService service.IAuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		secureCookies: secureCookies,
	}
}

func (h *AuthHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/login/", h.LoginPage)
	router.POST("/login/", h.Login)
	router.POST("/register/", h.Register)
	router.POST("/logout/", middleware.RequireLogin(), h.Logout)
}

// LoginPage describes the login form and echoes the page to return to.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"fields": []string{"username", "password"},
		"next":   safeNext(c.Query("next")),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.startSession(c, user, http.StatusOK)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.startSession(c, user, http.StatusCreated)
}

// Logout revokes the current token and clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if claims, ok := middleware.Claims(c); ok {
		if err := h.authService.RevokeToken(c.Request.Context(), claims); err != nil {
			respondError(c, err)
			return
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookies, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) startSession(c *gin.Context, user *models.User, status int) {
	token, claims, err := h.authService.GenerateToken(user)
	if err != nil {
		respondError(c, err)
		return
	}

	maxAge := int(time.Until(claims.ExpiresAt.Time).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.secureCookies, true)

	c.JSON(status, gin.H{
		"token": token,
		"user":  UserView{ID: user.ID, Username: user.Username},
		"next":  safeNext(c.Query("next")),
	})
}

// safeNext keeps only local absolute paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
