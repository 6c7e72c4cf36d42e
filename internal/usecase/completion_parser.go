package usecase

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hinote/backend/internal/domain"
)

var (
	// greedy: first "{" through last "}", models like to wrap JSON in prose or fences
	jsonObjectRegex = regexp.MustCompile(`(?s)\{.*\}`)

	trailingCommaArrayRegex  = regexp.MustCompile(`,\s*]`)
	trailingCommaObjectRegex = regexp.MustCompile(`,\s*}`)

	validate = validator.New(validator.WithRequiredStructEnabled())
)

// completionItem mirrors one element of "items" in the model output
type completionItem struct {
	Name             string  `json:"name" validate:"required"`
	Quantity         *int    `json:"quantity" validate:"omitnil,min=1"`
	MatchedProductID *string `json:"matchedProductId"`
	Price            *int64  `json:"price" validate:"omitnil,min=0"`
}

// completionResult is the typed shape the model is asked to return
type completionResult struct {
	Items       []completionItem `json:"items" validate:"required,dive"`
	Table       *tableLabel      `json:"table"`
	Note        *string          `json:"note"`
	NewProducts []string         `json:"newProducts"`
}

// tableLabel accepts "table": "3" as well as the bare number models often
// emit. Booleans, arrays and objects are still a decode error.
type tableLabel string

func (t *tableLabel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = tableLabel(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("table must be a string or a number, got %s", data)
	}
	*t = tableLabel(n.String())
	return nil
}

// extractJSONObject returns the first {...} span of text with trailing
// commas removed
func extractJSONObject(text string) (string, error) {
	raw := jsonObjectRegex.FindString(text)
	if raw == "" {
		return "", domain.ErrNoJSONObject
	}

	raw = trailingCommaArrayRegex.ReplaceAllString(raw, "]")
	raw = trailingCommaObjectRegex.ReplaceAllString(raw, "}")
	return raw, nil
}

// ParseCompletion turns the model's reply into an ExtractionResult.
// Any type mismatch or failed validation is an error; the caller falls back.
func ParseCompletion(text string) (domain.ExtractionResult, error) {
	raw, err := extractJSONObject(text)
	if err != nil {
		return domain.ExtractionResult{}, err
	}

	var parsed completionResult
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("%w: %v", domain.ErrMalformedCompletion, err)
	}
	if err := validate.Struct(&parsed); err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("%w: %v", domain.ErrMalformedCompletion, err)
	}

	return parsed.toDomain(), nil
}

func (c *completionResult) toDomain() domain.ExtractionResult {
	result := domain.NewExtractionResult()
	result.Note = c.Note
	if c.Table != nil && strings.TrimSpace(string(*c.Table)) != "" {
		result.Table = domain.StringPtr(string(*c.Table))
	}

	unmatched := make(map[string]bool)
	for _, item := range c.Items {
		out := domain.ExtractedItem{
			Name:     item.Name,
			Quantity: 1,
			Price:    item.Price,
		}
		if item.Quantity != nil {
			out.Quantity = *item.Quantity
		}
		if item.MatchedProductID != nil && *item.MatchedProductID != "" {
			out.MatchedProductID = item.MatchedProductID
		} else {
			unmatched[item.Name] = true
		}
		result.Items = append(result.Items, out)
	}

	// keep only names that really are unmatched items, once each
	seen := make(map[string]bool)
	for _, name := range c.NewProducts {
		if !unmatched[name] || seen[name] {
			continue
		}
		seen[name] = true
		result.NewProducts = append(result.NewProducts, name)
	}

	return result
}
