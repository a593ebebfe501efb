package model

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RecipeForm carries the raw values of a recipe create/update submission.
// Ingredients and Steps are JSON arrays.
type RecipeForm struct {
	Title                string
	Description          string
	CuisineType          string
	Servings             string
	Ingredients          string
	Steps                string
	UserID               string
	ExistingMainImageURL string
}

// RecipeInput is a validated recipe submission.
type RecipeInput struct {
	Title       string       `json:"title" validate:"min=3"`
	Description string       `json:"description" validate:"min=10"`
	CuisineType string       `json:"cuisine_type" validate:"min=2"`
	Servings    int          `json:"servings" validate:"min=1"`
	Ingredients []Ingredient `json:"ingredients" validate:"min=1,dive"`
	Steps       []Step       `json:"steps" validate:"min=1,dive"`
	UserID      string       `json:"user_id" validate:"required"`
}

// FieldErrors maps a form field to its validation messages.
type FieldErrors map[string][]string

// Add appends msg to field unless it is already recorded.
func (e FieldErrors) Add(field, msg string) {
	for _, m := range e[field] {
		if m == msg {
			return
		}
	}
	e[field] = append(e[field], msg)
}

// Has reports whether field has at least one error.
func (e FieldErrors) Has(field string) bool {
	return len(e[field]) > 0
}

var fieldMessages = map[string]string{
	"title.min":               "Title must be at least 3 characters long.",
	"description.min":         "Description must be at least 10 characters long.",
	"cuisine_type.min":        "Cuisine type is required.",
	"servings.min":            "Servings must be at least 1.",
	"ingredients.min":         "At least one ingredient is required.",
	"ingredients.name.min":    "Ingredient name is required.",
	"ingredients.quantity.gt": "Quantity must be positive.",
	"ingredients.unit.min":    "Unit is required.",
	"steps.min":               "At least one step is required.",
	"steps.instruction.min":   "Instruction is too short.",
	"user_id.required":        "You must be logged in.",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// quantity accepts a JSON number or a numeric string.
type quantity float64

func (q *quantity) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*q = quantity(num)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		// not a number; rejected by the positive-quantity rule
		*q = 0
		return nil
	}
	*q = quantity(f)
	return nil
}

type formIngredient struct {
	Name     string   `json:"name"`
	Quantity quantity `json:"quantity"`
	Unit     string   `json:"unit"`
}

type formStep struct {
	Instruction string `json:"instruction"`
}

// ValidateRecipeForm parses and validates a raw recipe submission. Text
// values are trimmed before the length rules apply. It returns either the
// validated input or a non-empty FieldErrors map.
func ValidateRecipeForm(form RecipeForm) (*RecipeInput, FieldErrors) {
	errs := FieldErrors{}
	input := &RecipeInput{
		Title:       strings.TrimSpace(form.Title),
		Description: strings.TrimSpace(form.Description),
		CuisineType: strings.TrimSpace(form.CuisineType),
		UserID:      form.UserID,
	}

	servings, err := strconv.Atoi(strings.TrimSpace(form.Servings))
	if err != nil {
		errs.Add("servings", "Servings must be a number.")
	}
	input.Servings = servings

	var ingredients []formIngredient
	if err := json.Unmarshal([]byte(form.Ingredients), &ingredients); err != nil {
		errs.Add("ingredients", "Ingredients must be a valid list.")
	}
	for _, ing := range ingredients {
		input.Ingredients = append(input.Ingredients, Ingredient{
			Name:     strings.TrimSpace(ing.Name),
			Quantity: float64(ing.Quantity),
			Unit:     strings.TrimSpace(ing.Unit),
		})
	}

	var steps []formStep
	if err := json.Unmarshal([]byte(form.Steps), &steps); err != nil {
		errs.Add("steps", "Steps must be a valid list.")
	}
	for _, s := range steps {
		input.Steps = append(input.Steps, Step{Instruction: strings.TrimSpace(s.Instruction)})
	}

	// fields that failed to parse keep their parse message only
	parseFailed := FieldErrors{}
	for k, v := range errs {
		parseFailed[k] = v
	}

	if err := validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			errs.Add("form", err.Error())
			return nil, errs
		}
		for _, fe := range verrs {
			field, key := fieldKey(fe)
			if parseFailed.Has(field) {
				continue
			}
			msg, ok := fieldMessages[key]
			if !ok {
				msg = "Invalid value."
			}
			errs.Add(field, msg)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return input, nil
}

// fieldKey returns the top-level form field of fe and its message key,
// e.g. "ingredients" and "ingredients.quantity.gt".
func fieldKey(fe validator.FieldError) (string, string) {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	field := ns
	if i := strings.IndexAny(ns, ".["); i >= 0 {
		field = ns[:i]
	}
	if fe.Field() == field {
		return field, field + "." + fe.Tag()
	}
	return field, field + "." + fe.Field() + "." + fe.Tag()
}
