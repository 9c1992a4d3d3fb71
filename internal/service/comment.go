package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/cookbook/backend/internal/models"
)

// CommentService appends to and reads recipe comment threads.
type CommentService struct {
	db *gorm.DB
}

var _ ICommentService = (*CommentService)(nil)

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// AddComment appends text to the thread of recipeID. The creation time is
// assigned here and never changes.
func (s *CommentService) AddComment(ctx context.Context, recipeID, userID uuid.UUID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, NewValidationError("text", "is required")
	}

	db := s.db.WithContext(ctx)
	if err := recipeExists(db, recipeID); err != nil {
		return nil, err
	}

	comment := models.Comment{
		RecipeID: recipeID,
		UserID:   userID,
		Text:     text,
	}
	if err := db.Omit("User").Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if err := db.Preload("User").First(&comment, "id = ?", comment.ID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListComments returns the thread of recipeID, oldest first.
func (s *CommentService) ListComments(ctx context.Context, recipeID uuid.UUID) ([]*models.Comment, error) {
	db := s.db.WithContext(ctx)
	if err := recipeExists(db, recipeID); err != nil {
		return nil, err
	}

	var comments []*models.Comment
	if err := db.
		Preload("User").
		Where("recipe_id = ?", recipeID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func recipeExists(db *gorm.DB, id uuid.UUID) error {
	if err := db.Select("id").First(&models.Recipe{}, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	return nil
}
