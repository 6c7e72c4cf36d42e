package usecase

import (
	"strings"

	"github.com/hinote/backend/internal/domain"
	"golang.org/x/text/unicode/norm"
)

// normalizeName folds a product name for comparison: NFC so decomposed
// diacritics from speech transcripts compare equal to typed ones, then
// lowercase and trimmed.
func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}

// FindByName resolves a name to a catalog entry by case-insensitive exact
// match against the canonical name or any alias. Catalog order decides ties.
func FindByName(name string, catalog []domain.Product) (*domain.Product, bool) {
	needle := normalizeName(name)
	if needle == "" {
		return nil, false
	}

	for i := range catalog {
		if normalizeName(catalog[i].Name) == needle {
			return &catalog[i], true
		}
		for _, alias := range catalog[i].Aliases {
			if normalizeName(alias) == needle {
				return &catalog[i], true
			}
		}
	}

	return nil, false
}

// FindByContainment is the looser lookup used by the fallback extractor:
// an entry matches when its name contains the extracted name or the other
// way round. Aliases are not consulted and entries without a name never match.
func FindByContainment(name string, catalog []domain.Product) (*domain.Product, bool) {
	needle := normalizeName(name)
	if needle == "" {
		return nil, false
	}

	for i := range catalog {
		candidate := normalizeName(catalog[i].Name)
		if candidate == "" {
			continue
		}
		if strings.Contains(candidate, needle) || strings.Contains(needle, candidate) {
			return &catalog[i], true
		}
	}

	return nil, false
}
