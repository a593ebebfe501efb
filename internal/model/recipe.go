package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// PlaceholderImageURL is used when a recipe has no uploaded image.
const PlaceholderImageURL = "https://placehold.co/1200x800.png"

// DefaultListLimit is the number of recipes returned by a listing when no limit is given.
const DefaultListLimit = 20

// Ingredient is a single line of a recipe's ingredient list
type Ingredient struct {
	Name     string  `json:"name" bson:"name" validate:"min=1"`
	Quantity float64 `json:"quantity" bson:"quantity" validate:"gt=0"`
	Unit     string  `json:"unit" bson:"unit" validate:"min=1"`
}

// Step is one instruction of a recipe. StepNumber is 1-based and matches the
// step's position in the recipe.
type Step struct {
	StepNumber  int    `json:"step_number" bson:"step_number"`
	Instruction string `json:"instruction" bson:"instruction" validate:"min=5"`
}

// Ingredients is stored as a JSON column
type Ingredients []Ingredient

// Value implements the driver.Valuer interface
func (a Ingredients) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *Ingredients) Scan(value interface{}) error {
	data, err := jsonColumnBytes(value)
	if err != nil || data == nil {
		*a = Ingredients{}
		return err
	}
	return json.Unmarshal(data, a)
}

// Steps is stored as a JSON column
type Steps []Step

// Value implements the driver.Valuer interface
func (s Steps) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (s *Steps) Scan(value interface{}) error {
	data, err := jsonColumnBytes(value)
	if err != nil || data == nil {
		*s = Steps{}
		return err
	}
	return json.Unmarshal(data, s)
}

func jsonColumnBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported JSON column type %T", value)
	}
}

// Recipe is the recipe aggregate: the recipe with its embedded ingredients and steps.
// Author is resolved at read time and never persisted.
type Recipe struct {
	ID           string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID       string      `gorm:"type:varchar(191);not null;index" json:"user_id"`
	Title        string      `gorm:"size:255;not null" json:"title"`
	Description  string      `gorm:"type:text;not null" json:"description"`
	CuisineType  string      `gorm:"size:100;not null" json:"cuisine_type"`
	Servings     int         `gorm:"not null" json:"servings"`
	MainImageURL string      `gorm:"type:text" json:"main_image_url"`
	ImageHint    string      `gorm:"column:data_ai_hint;size:255" json:"data_ai_hint"`
	Ingredients  Ingredients `gorm:"type:jsonb;not null" json:"ingredients"`
	Steps        Steps       `gorm:"type:jsonb;not null" json:"steps"`
	CreatedAt    time.Time   `gorm:"not null;index" json:"created_at"`
	Author       *Profile    `gorm:"-" json:"author,omitempty"`
}

// RecipeUpdate holds the mutable fields of a recipe. Nil fields are left untouched.
type RecipeUpdate struct {
	Title        *string
	Description  *string
	CuisineType  *string
	Servings     *int
	MainImageURL *string
	ImageHint    *string
	Ingredients  Ingredients
	Steps        Steps
}

// Columns returns the update as a column→value map for SQL stores.
func (u RecipeUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if u.Title != nil {
		cols["title"] = *u.Title
	}
	if u.Description != nil {
		cols["description"] = *u.Description
	}
	if u.CuisineType != nil {
		cols["cuisine_type"] = *u.CuisineType
	}
	if u.Servings != nil {
		cols["servings"] = *u.Servings
	}
	if u.MainImageURL != nil {
		cols["main_image_url"] = *u.MainImageURL
	}
	if u.ImageHint != nil {
		cols["data_ai_hint"] = *u.ImageHint
	}
	if u.Ingredients != nil {
		cols["ingredients"] = u.Ingredients
	}
	if u.Steps != nil {
		cols["steps"] = u.Steps
	}
	return cols
}

// Apply copies the set fields of the update onto r.
func (u RecipeUpdate) Apply(r *Recipe) {
	if u.Title != nil {
		r.Title = *u.Title
	}
	if u.Description != nil {
		r.Description = *u.Description
	}
	if u.CuisineType != nil {
		r.CuisineType = *u.CuisineType
	}
	if u.Servings != nil {
		r.Servings = *u.Servings
	}
	if u.MainImageURL != nil {
		r.MainImageURL = *u.MainImageURL
	}
	if u.ImageHint != nil {
		r.ImageHint = *u.ImageHint
	}
	if u.Ingredients != nil {
		r.Ingredients = append(Ingredients(nil), u.Ingredients...)
	}
	if u.Steps != nil {
		r.Steps = append(Steps(nil), u.Steps...)
	}
}

// ImageHint builds the image search hint from a title: the first two words, lowercased.
func ImageHint(title string) string {
	words := strings.Fields(strings.ToLower(title))
	if len(words) > 2 {
		words = words[:2]
	}
	return strings.Join(words, " ")
}

// NumberSteps returns a copy of steps numbered sequentially from 1.
func NumberSteps(steps []Step) Steps {
	out := make(Steps, len(steps))
	for i, s := range steps {
		out[i] = Step{StepNumber: i + 1, Instruction: s.Instruction}
	}
	return out
}
