package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxImageSize is the largest accepted recipe photo.
	MaxImageSize = 5 << 20

	imageURLExpiry = 15 * time.Minute
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageService stores recipe photos in object storage
type ImageService struct {
	store   ImageStore
	recipes IRecipeService
}

var _ IImageService = (*ImageService)(nil)

// NewImageService creates a new ImageService instance. A nil store disables
// uploads.
func NewImageService(store ImageStore, recipes IRecipeService) *ImageService {
	return &ImageService{store: store, recipes: recipes}
}

func (s *ImageService) Enabled() bool {
	return s.store != nil
}

// UploadRecipeImage checks ownership, sniffs the content type, stores the
// photo and records its key on the recipe.
func (s *ImageService) UploadRecipeImage(ctx context.Context, recipeID, actorID uuid.UUID, filename string, body io.Reader, size int64) (string, error) {
	if !s.Enabled() {
		return "", ErrStorageDisabled
	}

	recipe, err := s.recipes.GetRecipe(ctx, recipeID)
	if err != nil {
		return "", err
	}
	if recipe.AuthorID != actorID {
		return "", ErrNotOwner
	}

	if size > MaxImageSize {
		return "", NewValidationError("image", fmt.Sprintf("must be at most %d bytes", MaxImageSize))
	}
	data, err := io.ReadAll(io.LimitReader(body, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return "", NewValidationError("image", "is required")
	}
	if len(data) > MaxImageSize {
		return "", NewValidationError("image", fmt.Sprintf("must be at most %d bytes", MaxImageSize))
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", NewValidationError("image", fmt.Sprintf("%s is not a JPEG, PNG or WebP image", filename))
	}

	key := fmt.Sprintf("recipes/%s/%s%s", recipeID, uuid.NewString(), ext)
	if err := s.store.PutObject(ctx, key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	if err := s.recipes.SetRecipeImage(ctx, recipeID, actorID, key); err != nil {
		return "", err
	}
	return key, nil
}

// ImageURL returns a short-lived GET URL for key.
func (s *ImageService) ImageURL(ctx context.Context, key string) (string, error) {
	if !s.Enabled() {
		return "", ErrStorageDisabled
	}
	if key == "" {
		return "", nil
	}
	return s.store.GeneratePresignedURL(ctx, key, imageURLExpiry)
}
