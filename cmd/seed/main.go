package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/cookbook/backend/config"
	"github.com/pageza/cookbook/backend/internal/database"
	"github.com/pageza/cookbook/backend/internal/logger"
	"github.com/pageza/cookbook/backend/internal/models"
)

var ingredients = []string{
	"salt", "black pepper", "sugar", "flour", "butter", "eggs", "milk",
	"water", "olive oil", "garlic", "onion", "carrots", "potatoes",
	"tomatoes", "rice", "chicken", "beef", "cream", "cocoa", "lemon juice",
}

// seed fills the ingredient catalog and the tag table. Running it again is
// a no-op.
func seed(db *gorm.DB) (int64, error) {
	var created int64
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, name := range models.TagNames {
			if err := tx.Where(models.Tag{Name: name}).FirstOrCreate(&models.Tag{}).Error; err != nil {
				return fmt.Errorf("failed to seed tag %s: %w", name, err)
			}
		}
		for _, name := range ingredients {
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Ingredient{Name: name})
			if res.Error != nil {
				return fmt.Errorf("failed to seed ingredient %s: %w", name, res.Error)
			}
			created += res.RowsAffected
		}
		return nil
	})
	return created, err
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Environment)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync(log)

	db, err := database.New(cfg, log)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	created, err := seed(db)
	if err != nil {
		log.Fatal("seeding failed", zap.Error(err))
	}
	log.Info("catalog seeded", zap.Int64("ingredients_created", created), zap.Int("tags", len(models.TagNames)))
}
