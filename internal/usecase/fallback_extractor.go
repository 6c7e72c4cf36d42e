package usecase

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hinote/backend/internal/domain"
	"golang.org/x/text/unicode/norm"
)

var (
	// "bài" is how speech recognition often hears "bàn"
	tablePattern = regexp.MustCompile(`(?i)(?:bàn|bài)\s*(?:số\s*)?(\d+)`)

	// name, then a number, then a thousand marker: "phở bò 35k", "trà đá 5 nghìn"
	itemPattern = regexp.MustCompile(`(?i)([a-zA-ZÀ-ỹ\s]+?)\s*(\d+)\s*(?:k|nghìn|ngàn)`)
)

// FallbackExtract is the rule-based extractor used when the model is
// unavailable. It only understands "<name> <amount><k|nghìn|ngàn>" and
// always reports a quantity of 1.
func FallbackExtract(utterance string, catalog []domain.Product) domain.ExtractionResult {
	result := domain.NewExtractionResult()
	text := foldSpaces(norm.NFC.String(utterance))

	if m := tablePattern.FindStringSubmatch(text); m != nil {
		result.Table = domain.StringPtr(m[1])
	}

	seen := make(map[string]bool)
	for _, m := range itemPattern.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if utf8.RuneCountInString(name) <= 1 {
			continue
		}

		amount, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil || amount > (1<<63-1)/domain.Thousand {
			continue
		}
		price := amount * domain.Thousand

		if product, ok := FindByContainment(name, catalog); ok {
			// catalog price wins unless the product has none recorded yet
			if product.Price > 0 {
				price = product.Price
			}
			result.Items = append(result.Items, domain.ExtractedItem{
				Name:             product.Name,
				Quantity:         1,
				MatchedProductID: domain.StringPtr(product.ID),
				Price:            domain.Int64Ptr(price),
			})
			continue
		}

		result.Items = append(result.Items, domain.ExtractedItem{
			Name:     name,
			Quantity: 1,
			Price:    domain.Int64Ptr(price),
		})
		if key := normalizeName(name); !seen[key] {
			seen[key] = true
			result.NewProducts = append(result.NewProducts, name)
		}
	}

	return result
}

// foldSpaces turns Unicode spaces (NBSP from mobile keyboards, thin spaces,
// BOM) into plain spaces so the ASCII \s in the patterns sees them
func foldSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if r != ' ' && (unicode.IsSpace(r) || r == '\uFEFF') {
			return ' '
		}
		return r
	}, s)
}
