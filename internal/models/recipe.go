package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Unit is the unit of measure of an ingredient usage.
type Unit string

const (
	UnitGram       Unit = "g"
	UnitKilogram   Unit = "kg"
	UnitMillilitre Unit = "ml"
	UnitLitre      Unit = "l"
)

// Units lists the accepted units in display order.
var Units = []Unit{UnitGram, UnitKilogram, UnitMillilitre, UnitLitre}

// Valid reports whether u is one of Units.
func (u Unit) Valid() bool {
	for _, known := range Units {
		if u == known {
			return true
		}
	}
	return false
}

// TagName is the fixed set of recipe categories.
type TagName string

const (
	TagDesserts    TagName = "desserts"
	TagSoups       TagName = "soups"
	TagMainCourses TagName = "main-courses"
)

var TagNames = []TagName{TagDesserts, TagSoups, TagMainCourses}

func (n TagName) Valid() bool {
	for _, known := range TagNames {
		if n == known {
			return true
		}
	}
	return false
}

// Ingredient is an entry of the global catalog. Catalog entries are not
// owned by any recipe and outlive the recipes that reference them.
type Ingredient struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type Tag struct {
	ID   uuid.UUID `gorm:"type:varchar(36);primarykey" json:"-"`
	Name TagName   `gorm:"size:50;not null;uniqueIndex" json:"name"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type Recipe struct {
	ID                 uuid.UUID         `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
	Title              string            `gorm:"size:100;not null" json:"title"`
	TitleSearch        string            `gorm:"size:200;not null;default:'';index" json:"-"`
	Instructions       string            `gorm:"type:text;not null" json:"instructions"`
	PreparationMinutes int               `gorm:"not null" json:"preparation_minutes"`
	CookingMinutes     int               `gorm:"not null" json:"cooking_minutes"`
	Servings           int               `gorm:"not null" json:"servings"`
	ImageKey           string            `gorm:"size:255" json:"-"`
	AuthorID           uuid.UUID         `gorm:"type:varchar(36);not null;index" json:"author_id"`
	Author             User              `gorm:"foreignKey:AuthorID" json:"author"`
	Usages             []IngredientUsage `gorm:"foreignKey:RecipeID" json:"ingredients"`
	Tags               []Tag             `gorm:"many2many:recipe_tags" json:"tags"`
	Comments           []Comment         `gorm:"foreignKey:RecipeID" json:"comments,omitempty"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps TitleSearch in step with Title. Updates through a column
// map bypass the struct and must set title_search themselves.
func (r *Recipe) BeforeSave(tx *gorm.DB) error {
	r.TitleSearch = FoldTitle(r.Title)
	return nil
}

// FoldTitle is the case-folded form of a title used for search. Folding
// happens in Go because SQLite's LOWER only handles ASCII.
func FoldTitle(title string) string {
	return strings.ToLower(title)
}

// IngredientUsage ties one recipe to one catalog ingredient with a quantity.
// Position keeps the order in which the usages were submitted.
type IngredientUsage struct {
	ID           uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"-"`
	CreatedAt    time.Time  `json:"-"`
	RecipeID     uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"-"`
	IngredientID uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"ingredient_id"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient"`
	Quantity     int        `gorm:"not null" json:"quantity"`
	Unit         Unit       `gorm:"size:2;not null" json:"unit"`
	Position     int        `gorm:"not null" json:"position"`
}

func (u *IngredientUsage) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (IngredientUsage) TableName() string {
	return "ingredient_usages"
}
