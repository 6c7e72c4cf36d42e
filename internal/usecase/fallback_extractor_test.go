package usecase

import (
	"testing"

	"github.com/hinote/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

func TestFallbackExtract_ShorthandMarkers(t *testing.T) {
	for _, utterance := range []string{"trà đá 5k", "trà đá 5 nghìn", "trà đá 5 ngàn", "Trà đá 5K"} {
		t.Run(utterance, func(t *testing.T) {
			result := FallbackExtract(utterance, nil)

			require.Len(t, result.Items, 1)
			require.NotNil(t, result.Items[0].Price)
			assert.Equal(t, int64(5000), *result.Items[0].Price)
			assert.Equal(t, 1, result.Items[0].Quantity)
		})
	}
}

func TestFallbackExtract_CatalogPriceWins(t *testing.T) {
	catalog := []domain.Product{{ID: "pho-1", Name: "Phở bò", Price: 35000}}

	result := FallbackExtract("phở bò 30k", catalog)

	require.Len(t, result.Items, 1)
	item := result.Items[0]
	assert.Equal(t, "Phở bò", item.Name)
	require.NotNil(t, item.MatchedProductID)
	assert.Equal(t, "pho-1", *item.MatchedProductID)
	require.NotNil(t, item.Price)
	assert.Equal(t, int64(35000), *item.Price)
	assert.Empty(t, result.NewProducts)
}

func TestFallbackExtract_UnpricedCatalogEntryKeepsStatedPrice(t *testing.T) {
	catalog := []domain.Product{{ID: "bm", Name: "Bánh mì", Price: 0}}

	result := FallbackExtract("bánh mì 15k", catalog)

	require.Len(t, result.Items, 1)
	assert.Equal(t, "bm", *result.Items[0].MatchedProductID)
	assert.Equal(t, int64(15000), *result.Items[0].Price)
}

func TestFallbackExtract_NewProduct(t *testing.T) {
	result := FallbackExtract("trà sữa 20k", nil)

	require.Len(t, result.Items, 1)
	item := result.Items[0]
	assert.Equal(t, "trà sữa", item.Name)
	assert.Nil(t, item.MatchedProductID)
	assert.Equal(t, int64(20000), *item.Price)
	assert.Equal(t, []string{"trà sữa"}, result.NewProducts)
}

func TestFallbackExtract_NewProductsHaveNoDuplicates(t *testing.T) {
	result := FallbackExtract("trà đá 5k, trà đá 5k", nil)

	assert.Len(t, result.Items, 2)
	assert.Equal(t, []string{"trà đá"}, result.NewProducts)
}

func TestFallbackExtract_NewProductsIgnoreCase(t *testing.T) {
	result := FallbackExtract("Trà Đá 5k trà đá 5k", nil)

	assert.Len(t, result.Items, 2)
	assert.Equal(t, []string{"Trà Đá"}, result.NewProducts)
}

func TestFallbackExtract_UnicodeSpaces(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
	}{
		{"no-break space", "trà\u00a0sữa 20k bàn\u00a05"},
		{"narrow no-break space", "trà\u202fsữa\u202f20k bàn\u202f5"},
		{"ideographic space", "trà\u3000sữa 20k bàn\u30005"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FallbackExtract(tt.utterance, nil)

			require.Len(t, result.Items, 1)
			assert.Equal(t, "trà sữa", result.Items[0].Name)
			assert.Equal(t, []string{"trà sữa"}, result.NewProducts)
			require.NotNil(t, result.Table)
			assert.Equal(t, "5", *result.Table)
		})
	}
}

func TestFallbackExtract_Table(t *testing.T) {
	tests := []struct {
		utterance string
		want      string
	}{
		{"2 cà phê 20k bàn 5", "5"},
		{"bàn số 12 phở bò 35k", "12"},
		{"BÀN 7", "7"},
		{"bài 2 trà đá 5k", "2"},
		{"bàn3", "3"},
		{"bàn 4 rồi bàn 9", "4"},
	}

	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			result := FallbackExtract(tt.utterance, nil)
			require.NotNil(t, result.Table)
			assert.Equal(t, tt.want, *result.Table)
		})
	}
}

func TestFallbackExtract_NoTable(t *testing.T) {
	result := FallbackExtract("2 cà phê 20k", nil)
	assert.Nil(t, result.Table)

	result = FallbackExtract("bàn ghế mới", nil)
	assert.Nil(t, result.Table)
}

func TestFallbackExtract_TableAndItems(t *testing.T) {
	result := FallbackExtract("2 cà phê 20k bàn 5", nil)

	require.Len(t, result.Items, 1)
	assert.Equal(t, "cà phê", result.Items[0].Name)
	assert.Equal(t, int64(20000), *result.Items[0].Price)
	assert.Equal(t, "5", *result.Table)
}

func TestFallbackExtract_MultipleItemsKeepOrder(t *testing.T) {
	catalog := []domain.Product{{ID: "p1", Name: "Phở bò", Price: 35000}}

	result := FallbackExtract("phở bò 35k, trà đá 5k và bánh flan 10 ngàn bàn 3", catalog)

	require.Len(t, result.Items, 3)
	assert.Equal(t, "Phở bò", result.Items[0].Name)
	assert.Equal(t, "trà đá", result.Items[1].Name)
	assert.Equal(t, "và bánh flan", result.Items[2].Name)
	assert.Equal(t, []string{"trà đá", "và bánh flan"}, result.NewProducts)
	assert.Equal(t, "3", *result.Table)
}

func TestFallbackExtract_QuantityAlwaysOne(t *testing.T) {
	result := FallbackExtract("hai phở gà 40k", nil)

	require.Len(t, result.Items, 1)
	assert.Equal(t, "hai phở gà", result.Items[0].Name)
	assert.Equal(t, 1, result.Items[0].Quantity)
}

func TestFallbackExtract_RejectsSingleLetterNames(t *testing.T) {
	result := FallbackExtract("x 5k", nil)
	assert.Empty(t, result.Items)
	assert.Empty(t, result.NewProducts)

	result = FallbackExtract("x 5k trà đá 10k", nil)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "trà đá", result.Items[0].Name)
}

func TestFallbackExtract_DecomposedInput(t *testing.T) {
	result := FallbackExtract(norm.NFD.String("trà sữa 20k bàn 2"), nil)

	require.Len(t, result.Items, 1)
	assert.Equal(t, "trà sữa", result.Items[0].Name)
	assert.Equal(t, "2", *result.Table)
}

func TestFallbackExtract_SkipsOverflowingAmounts(t *testing.T) {
	result := FallbackExtract("vàng 99999999999999999999k", nil)
	assert.Empty(t, result.Items)
}

func TestFallbackExtract_NeverFails(t *testing.T) {
	catalogs := [][]domain.Product{
		nil,
		{},
		{{ID: "", Name: ""}},
		testCatalog(),
	}
	inputs := []string{
		"",
		"   ",
		"không có số nào",
		"🍜🍜🍜",
		"!!!???...",
		"12345",
		"k k k nghìn ngàn",
		"bàn",
		"\x00\xff\xfe",
	}

	for _, catalog := range catalogs {
		for _, input := range inputs {
			assert.NotPanics(t, func() {
				result := FallbackExtract(input, catalog)
				assert.NotNil(t, result.Items)
				assert.NotNil(t, result.NewProducts)
				assert.Nil(t, result.Note)
			})
		}
	}
}
