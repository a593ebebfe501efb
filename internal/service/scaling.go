package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pageza/recipe-share/backend/internal/model"
	"github.com/pageza/recipe-share/backend/internal/types"
)

var (
	// ErrInvalidScaleInput is returned for a scale request that fails validation.
	ErrInvalidScaleInput = errors.New("invalid scale input")
	// ErrScalingUnavailable is returned when the model call fails or its reply is unusable.
	ErrScalingUnavailable = errors.New("ingredient scaling unavailable")
)

const chefPrompt = `You are a professional chef skilled in scaling recipes.
Given a list of ingredients for a recipe and its original serving size, scale every ingredient to the target serving size.
Pay close attention to the units of measurement. Convert to a more practical unit when the scaled amount becomes awkward (for example teaspoons to tablespoons, or tablespoons to cups), and take volume and density conversions into account for ingredients such as flour, sugar and butter.
Return only a JSON object of the form {"ingredients":[{"name":"...","quantity":1.5,"unit":"..."}]} with one entry per original ingredient, in the same order.`

// ScalingService rescales ingredient quantities through a language model
type ScalingService struct {
	llm Completer
	log *zap.Logger
}

var _ IScalingService = (*ScalingService)(nil)

// NewScalingService creates a new ScalingService
func NewScalingService(llm Completer, log *zap.Logger) *ScalingService {
	return &ScalingService{llm: llm, log: log.Named("scaling")}
}

// Scale returns the ingredients of req scaled from OriginalServings to TargetServings.
func (s *ScalingService) Scale(ctx context.Context, req types.ScaleRequest) ([]model.Ingredient, error) {
	if err := validateScaleRequest(req); err != nil {
		return nil, err
	}

	reply, err := s.llm.Complete(ctx, []Message{
		{Role: "system", Content: chefPrompt},
		{Role: "user", Content: buildScalePrompt(req)},
	})
	if err != nil {
		s.log.Error("scale completion failed", zap.Error(err))
		return nil, ErrScalingUnavailable
	}

	scaled, err := parseScaledIngredients(reply)
	if err != nil {
		s.log.Error("unusable scale reply", zap.Error(err), zap.String("reply", truncate(reply, 500)))
		return nil, ErrScalingUnavailable
	}
	return scaled, nil
}

func validateScaleRequest(req types.ScaleRequest) error {
	if !validServings(req.OriginalServings) || !validServings(req.TargetServings) {
		return fmt.Errorf("%w: servings must be at least 1", ErrInvalidScaleInput)
	}
	if len(req.Ingredients) == 0 {
		return fmt.Errorf("%w: at least one ingredient is required", ErrInvalidScaleInput)
	}
	for i, ing := range req.Ingredients {
		if strings.TrimSpace(ing.Name) == "" || strings.TrimSpace(ing.Unit) == "" {
			return fmt.Errorf("%w: ingredient %d needs a name and a unit", ErrInvalidScaleInput, i)
		}
		if !finite(ing.Quantity) || ing.Quantity <= 0 {
			return fmt.Errorf("%w: ingredient %d quantity must be positive", ErrInvalidScaleInput, i)
		}
	}
	return nil
}

func validServings(v float64) bool {
	return finite(v) && v >= 1
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func buildScalePrompt(req types.ScaleRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Original Servings: %s\n", formatNumber(req.OriginalServings))
	fmt.Fprintf(&b, "Target Servings: %s\n", formatNumber(req.TargetServings))
	b.WriteString("Ingredients:\n")
	for _, ing := range req.Ingredients {
		fmt.Fprintf(&b, "- %s %s %s\n", formatNumber(ing.Quantity), ing.Unit, ing.Name)
	}
	return b.String()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type scaledIngredient struct {
	Name     string      `json:"name"`
	Quantity json.Number `json:"quantity"`
	Unit     string      `json:"unit"`
}

// parseScaledIngredients accepts {"ingredients":[...]} or a bare array,
// optionally wrapped in a markdown code fence.
func parseScaledIngredients(reply string) ([]model.Ingredient, error) {
	raw := stripCodeFence(reply)
	if raw == "" {
		return nil, errors.New("empty reply")
	}

	var items []scaledIngredient
	if strings.HasPrefix(raw, "[") {
		if err := decodeNumbers(raw, &items); err != nil {
			return nil, fmt.Errorf("failed to parse ingredient array: %w", err)
		}
	} else {
		var wrapped struct {
			Ingredients []scaledIngredient `json:"ingredients"`
		}
		if err := decodeNumbers(raw, &wrapped); err != nil {
			return nil, fmt.Errorf("failed to parse ingredient object: %w", err)
		}
		items = wrapped.Ingredients
	}
	if len(items) == 0 {
		return nil, errors.New("no ingredients in reply")
	}

	out := make([]model.Ingredient, 0, len(items))
	for _, it := range items {
		q, err := strconv.ParseFloat(strings.TrimSpace(it.Quantity.String()), 64)
		if err != nil || !finite(q) {
			return nil, fmt.Errorf("invalid quantity %q for %q", it.Quantity, it.Name)
		}
		if strings.TrimSpace(it.Name) == "" {
			return nil, errors.New("ingredient without name")
		}
		out = append(out, model.Ingredient{Name: it.Name, Quantity: q, Unit: it.Unit})
	}
	return out, nil
}

func decodeNumbers(raw string, v interface{}) error {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		// drop a language tag such as ```json
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
