package usecase

import (
	"encoding/json"
	"fmt"

	"github.com/hinote/backend/internal/domain"
)

// catalogPromptEntry is the compact catalog view embedded in the prompt
type catalogPromptEntry struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
	Price   int64    `json:"price"`
}

const extractionPromptTemplate = `Bạn là bộ phân tích đơn hàng cho ứng dụng bán hàng của tiểu thương Việt Nam. Đọc câu nói của người bán và trích xuất đơn hàng.

SẢN PHẨM ĐÃ CÓ TRONG CỬA HÀNG:
%s

NHIỆM VỤ:
- Lấy ra từng món: tên món và số lượng (không nói số lượng thì là 1)
- Tìm số bàn nếu có (VD: "bàn 3", "bàn số 5"). Nhận dạng giọng nói hay nghe nhầm "bàn" thành "bài", nên "bài 2" nghĩa là bàn 2
- Món nào trùng với sản phẩm đã có (theo tên hoặc tên khác) thì ghi id vào matchedProductId và dùng đúng tên trong danh sách
- Nếu câu nói có giá (VD: "phở 35k") thì ghi vào price
- Món không có trong danh sách thì để matchedProductId là null và liệt kê tên món đó trong newProducts

QUY TẮC TIẾNG VIỆT:
- "tô", "ly", "cốc", "cái", "phần", "suất", "đĩa" là đơn vị đếm, không phải tên món
- "k", "nghìn", "ngàn" nghĩa là nhân 1000: "35k" = 35000, "5 nghìn" = 5000, "20 ngàn" = 20000
- "2 tô phở bò 35k" = {"name": "Phở bò", "quantity": 2, "price": 35000}

CHỈ TRẢ VỀ JSON, không giải thích, không markdown, đúng cấu trúc:
{
  "items": [{"name": "Tên món", "quantity": 1, "matchedProductId": null, "price": 35000}],
  "table": "2",
  "note": null,
  "newProducts": ["Tên món mới"]
}`

// BuildExtractionPrompt renders the system instruction for one extraction,
// embedding the catalog snapshot
func BuildExtractionPrompt(catalog []domain.Product) string {
	entries := make([]catalogPromptEntry, 0, len(catalog))
	for _, p := range catalog {
		aliases := p.Aliases
		if aliases == nil {
			aliases = []string{}
		}
		entries = append(entries, catalogPromptEntry{
			ID:      p.ID,
			Name:    p.Name,
			Aliases: aliases,
			Price:   p.Price,
		})
	}

	catalogJSON, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		// plain strings and ints always marshal
		catalogJSON = []byte("[]")
	}

	return fmt.Sprintf(extractionPromptTemplate, catalogJSON)
}
