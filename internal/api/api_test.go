package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/cookbook/backend/internal/api"
	"github.com/pageza/cookbook/backend/internal/middleware"
	"github.com/pageza/cookbook/backend/internal/models"
	"github.com/pageza/cookbook/backend/internal/service"
	"github.com/pageza/cookbook/backend/internal/testhelpers"
)

type testEnv struct {
	router  *gin.Engine
	db      *gorm.DB
	auth    *service.AuthService
	recipes *service.RecipeService
}

func setupAPI(t *testing.T, store service.ImageStore) *testEnv {
	gin.SetMode(gin.TestMode)
	require.NoError(t, api.RegisterValidators())

	db := testhelpers.SetupTestDatabase(t)
	auth := service.NewAuthService(db, nil, testhelpers.TestJWTSecret, time.Hour)
	recipes := service.NewRecipeService(db)

	svc := api.Services{
		Auth:        auth,
		Recipes:     recipes,
		Ingredients: service.NewIngredientService(db),
		Comments:    service.NewCommentService(db),
		Profiles:    service.NewProfileService(db),
		Images:      service.NewImageService(store, recipes),
	}

	router := gin.New()
	router.Use(middleware.ErrorHandler(zap.NewNop()), middleware.OptionalAuth(auth))
	api.RegisterRoutes(router, svc, api.Limiters{}, false)

	return &testEnv{router: router, db: db, auth: auth, recipes: recipes}
}

// login returns a session token for a fresh user.
func (e *testEnv) login(t *testing.T, username string) (*models.User, string) {
	user := testhelpers.CreateTestUser(t, e.db, username)
	token, _, err := e.auth.GenerateToken(user)
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) do(method, path string, form url.Values, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

type validationBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}
