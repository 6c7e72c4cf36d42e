package usecase

import (
	"testing"

	"github.com/hinote/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestBuildExtractionPrompt(t *testing.T) {
	prompt := BuildExtractionPrompt([]domain.Product{{ID: "p9", Name: "Bánh cuốn", Price: 30000}})

	assert.Contains(t, prompt, `"id": "p9"`)
	assert.Contains(t, prompt, `"aliases": []`)
	assert.Contains(t, prompt, `"k", "nghìn", "ngàn" nghĩa là nhân 1000`)
	assert.Contains(t, prompt, `"newProducts"`)
	assert.NotContains(t, prompt, "%!")
}

func TestBuildExtractionPrompt_EmptyCatalog(t *testing.T) {
	prompt := BuildExtractionPrompt(nil)

	assert.Contains(t, prompt, "SẢN PHẨM ĐÃ CÓ TRONG CỬA HÀNG:\n[]\n")
}
