package testhelpers

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/cookbook/backend/internal/models"
)

// TestPassword is the password of every user made by CreateTestUser.
const TestPassword = "correct-horse-battery"

// TestJWTSecret signs tokens in tests.
const TestJWTSecret = "test-jwt-secret-that-is-long-enough-123"

// CreateTestUser inserts a user with TestPassword.
func CreateTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

// CreateTestIngredients inserts one catalog entry per name, in order.
func CreateTestIngredients(t *testing.T, db *gorm.DB, names ...string) []*models.Ingredient {
	t.Helper()

	out := make([]*models.Ingredient, 0, len(names))
	for _, name := range names {
		ing := &models.Ingredient{Name: name}
		if err := db.Create(ing).Error; err != nil {
			t.Fatalf("failed to create ingredient %s: %v", name, err)
		}
		out = append(out, ing)
	}
	return out
}
