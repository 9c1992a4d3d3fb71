package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/pageza/cookbook/backend/internal/models"
)

// RecipeSummary is a recipe as shown in lists and search results.
type RecipeSummary struct {
	ID                 uuid.UUID        `json:"id"`
	Title              string           `json:"title"`
	Author             string           `json:"author"`
	PreparationMinutes int              `json:"preparation_minutes"`
	CookingMinutes     int              `json:"cooking_minutes"`
	Servings           int              `json:"servings"`
	Tags               []models.TagName `json:"tags"`
	CreatedAt          time.Time        `json:"created_at"`
}

// RecipeDetail is the full recipe page.
type RecipeDetail struct {
	RecipeSummary
	Instructions string        `json:"instructions"`
	Ingredients  []UsageView   `json:"ingredients"`
	Comments     []CommentView `json:"comments"`
	ImageURL     string        `json:"image_url,omitempty"`
	IsOwner      bool          `json:"is_owner"`
}

type UsageView struct {
	IngredientID uuid.UUID   `json:"ingredient_id"`
	Name         string      `json:"name"`
	Quantity     int         `json:"quantity"`
	Unit         models.Unit `json:"unit"`
}

type CommentView struct {
	ID        uuid.UUID `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// FormOptions lists the choices of the recipe form.
type FormOptions struct {
	Units       []models.Unit        `json:"units"`
	Tags        []models.TagName     `json:"tags"`
	Ingredients []*models.Ingredient `json:"ingredients"`
}

type UserView struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

func toSummary(r *models.Recipe) RecipeSummary {
	tags := make([]models.TagName, 0, len(r.Tags))
	for _, t := range r.Tags {
		tags = append(tags, t.Name)
	}
	return RecipeSummary{
		ID:                 r.ID,
		Title:              r.Title,
		Author:             r.Author.Username,
		PreparationMinutes: r.PreparationMinutes,
		CookingMinutes:     r.CookingMinutes,
		Servings:           r.Servings,
		Tags:               tags,
		CreatedAt:          r.CreatedAt,
	}
}

func toSummaries(recipes []*models.Recipe) []RecipeSummary {
	out := make([]RecipeSummary, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, toSummary(r))
	}
	return out
}

func toDetail(r *models.Recipe, viewer uuid.UUID) RecipeDetail {
	d := RecipeDetail{
		RecipeSummary: toSummary(r),
		Instructions:  r.Instructions,
		Ingredients:   make([]UsageView, 0, len(r.Usages)),
		Comments:      make([]CommentView, 0, len(r.Comments)),
		IsOwner:       viewer != uuid.Nil && viewer == r.AuthorID,
	}
	for _, u := range r.Usages {
		d.Ingredients = append(d.Ingredients, UsageView{
			IngredientID: u.IngredientID,
			Name:         u.Ingredient.Name,
			Quantity:     u.Quantity,
			Unit:         u.Unit,
		})
	}
	for i := range r.Comments {
		d.Comments = append(d.Comments, toCommentView(&r.Comments[i]))
	}
	return d
}

func toCommentView(c *models.Comment) CommentView {
	return CommentView{
		ID:        c.ID,
		Author:    c.User.Username,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}
