package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/hinote/backend/internal/domain"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
)

// ErrMissingNameColumn is returned when no header row names a product column
var ErrMissingNameColumn = errors.New("catalog sheet has no name column")

type column int

const (
	colUnknown column = iota
	colID
	colName
	colAliases
	colPrice
)

// headerAliases maps normalized header labels to catalog columns
var headerAliases = map[string]column{
	"id":           colID,
	"mã":           colID,
	"mã sp":        colID,
	"name":         colName,
	"tên":          colName,
	"tên món":      colName,
	"sản phẩm":     colName,
	"tên sản phẩm": colName,
	"aliases":      colAliases,
	"alias":        colAliases,
	"tên khác":     colAliases,
	"price":        colPrice,
	"giá":          colPrice,
	"đơn giá":      colPrice,
	"giá bán":      colPrice,
}

// LoadCatalog reads a product catalog from an .xlsx file. An empty sheet
// name means the first sheet.
func LoadCatalog(path, sheet string) ([]domain.Product, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()

	return readCatalog(f, sheet)
}

// ReadCatalog reads a product catalog from an .xlsx stream
func ReadCatalog(r io.Reader, sheet string) ([]domain.Product, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return readCatalog(f, sheet)
}

func readCatalog(f *excelize.File, sheet string) ([]domain.Product, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("catalog workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	headerRow := -1
	var columns []column
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		headerRow = i
		columns = mapHeader(row)
		break
	}
	if headerRow < 0 || !hasColumn(columns, colName) {
		return nil, ErrMissingNameColumn
	}

	products := make([]domain.Product, 0, len(rows)-headerRow-1)
	for i := headerRow + 1; i < len(rows); i++ {
		product, ok, err := parseRow(rows[i], columns)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if ok {
			products = append(products, product)
		}
	}

	return products, nil
}

func parseRow(row []string, columns []column) (domain.Product, bool, error) {
	var p domain.Product
	for i, cell := range row {
		if i >= len(columns) {
			break
		}
		cell = strings.TrimSpace(norm.NFC.String(cell))

		switch columns[i] {
		case colID:
			p.ID = cell
		case colName:
			p.Name = cell
		case colAliases:
			p.Aliases = splitAliases(cell)
		case colPrice:
			if cell == "" {
				continue
			}
			price, err := domain.ParseMoney(cell)
			if err != nil {
				return domain.Product{}, false, err
			}
			p.Price = price
		}
	}

	if p.Name == "" {
		return domain.Product{}, false, nil
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return p, true, nil
}

func mapHeader(row []string) []column {
	columns := make([]column, len(row))
	for i, cell := range row {
		columns[i] = headerAliases[strings.ToLower(strings.TrimSpace(norm.NFC.String(cell)))]
	}
	return columns
}

func splitAliases(cell string) []string {
	parts := strings.FieldsFunc(cell, func(r rune) bool {
		return r == ',' || r == ';' || r == '|'
	})

	aliases := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			aliases = append(aliases, part)
		}
	}
	return aliases
}

func hasColumn(columns []column, want column) bool {
	for _, c := range columns {
		if c == want {
			return true
		}
	}
	return false
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
