package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/cookbook/backend/internal/models"
	"github.com/pageza/cookbook/backend/internal/types"
)

type ProfileService struct {
	db *gorm.DB
}

var _ IProfileService = (*ProfileService)(nil)

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	profile := &types.Profile{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		JoinedAt: user.CreatedAt,
	}
	if err := db.Model(&models.Recipe{}).Where("author_id = ?", userID).Count(&profile.RecipeCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Comment{}).Where("user_id = ?", userID).Count(&profile.CommentCount).Error; err != nil {
		return nil, err
	}
	return profile, nil
}
