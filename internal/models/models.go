// Package models holds the gorm entities of the cookbook.
package models

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Ingredient{},
		&Tag{},
		&Recipe{},
		&IngredientUsage{},
		&Comment{},
	}
}
