package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/cookbook/backend/internal/models"
	"github.com/pageza/cookbook/backend/internal/types"
)

// IAuthService defines the interface for account and session operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, error)
	GenerateToken(user *models.User) (string, *types.TokenClaims, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	RevokeToken(ctx context.Context, claims *types.TokenClaims) error
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, authorID uuid.UUID, in *types.RecipeInput) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, id, actorID uuid.UUID, in *types.RecipeInput) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, id, actorID uuid.UUID) error
	ListRecipes(ctx context.Context, authorID *uuid.UUID) ([]*models.Recipe, error)
	SearchRecipes(ctx context.Context, query string) ([]*models.Recipe, error)
	SetRecipeImage(ctx context.Context, id, actorID uuid.UUID, key string) error
}

// IIngredientService defines the interface for the ingredient catalog
type IIngredientService interface {
	ListIngredients(ctx context.Context) ([]*models.Ingredient, error)
	CreateIngredient(ctx context.Context, name string) (*models.Ingredient, error)
}

// ICommentService defines the interface for recipe comment threads
type ICommentService interface {
	AddComment(ctx context.Context, recipeID, userID uuid.UUID, text string) (*models.Comment, error)
	ListComments(ctx context.Context, recipeID uuid.UUID) ([]*models.Comment, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error)
}

// IImageService defines the interface for recipe photos
type IImageService interface {
	UploadRecipeImage(ctx context.Context, recipeID, actorID uuid.UUID, filename string, body io.Reader, size int64) (string, error)
	ImageURL(ctx context.Context, key string) (string, error)
	Enabled() bool
}

// ImageStore is the object storage behind IImageService. config.S3Config
// satisfies it.
type ImageStore interface {
	PutObject(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	GeneratePresignedURL(ctx context.Context, key string, expiration time.Duration) (string, error)
}
