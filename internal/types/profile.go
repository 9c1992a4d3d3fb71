package types

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the authenticated user's profile page.
type Profile struct {
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	JoinedAt     time.Time `json:"joined_at"`
	RecipeCount  int64     `json:"recipe_count"`
	CommentCount int64     `json:"comment_count"`
}
