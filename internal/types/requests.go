package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pageza/cookbook/backend/internal/models"
)

// RegisterRequest mirrors the registration form.
type RegisterRequest struct {
	Username  string `json:"username" form:"username" binding:"required,max=150"`
	Email     string `json:"email" form:"email" binding:"required,email"`
	Password1 string `json:"password1" form:"password1" binding:"required,min=8"`
	Password2 string `json:"password2" form:"password2" binding:"required,eqfield=Password1"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// RecipeForm is the submitted recipe form. Ingredients arrive as three
// positionally aligned lists; an index with any empty entry is skipped.
type RecipeForm struct {
	Title           string   `json:"title" form:"title" binding:"required,max=100"`
	Instructions    string   `json:"instructions" form:"instructions" binding:"required"`
	PreparationTime string   `json:"preparation_time" form:"preparation_time" binding:"required"`
	CookingTime     string   `json:"cooking_time" form:"cooking_time" binding:"required"`
	Servings        string   `json:"servings" form:"servings" binding:"required"`
	Tags            []string `json:"tag" form:"tag" binding:"dive,tagname"`
	Ingredients     []string `json:"ingredient" form:"ingredient"`
	Amounts         Amounts  `json:"amount" form:"amount"`
	Units           []string `json:"unit" form:"unit"`
}

// Amounts is the amount list of a recipe form. JSON bodies may carry each
// entry as a string or a number; null counts as empty.
type Amounts []string

func (a *Amounts) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*a = nil
		return nil
	}

	out := make(Amounts, len(raw))
	for i, item := range raw {
		item = bytes.TrimSpace(item)
		switch {
		case bytes.Equal(item, []byte("null")):
		case len(item) > 0 && item[0] == '"':
			if err := json.Unmarshal(item, &out[i]); err != nil {
				return err
			}
		default:
			var n json.Number
			if err := json.Unmarshal(item, &n); err != nil {
				return fmt.Errorf("amount[%d]: %w", i, err)
			}
			out[i] = n.String()
		}
	}
	*a = out
	return nil
}

// RecipeInput is a RecipeForm after boundary parsing.
type RecipeInput struct {
	Title              string
	Instructions       string
	PreparationMinutes int
	CookingMinutes     int
	Servings           int
	Tags               []models.TagName
	IngredientIDs      []string
	Amounts            []string
	Units              []string
}

type CommentRequest struct {
	Text string `json:"text" form:"text" binding:"required"`
}

type IngredientRequest struct {
	Name string `json:"name" form:"name" binding:"required,max=100"`
}
