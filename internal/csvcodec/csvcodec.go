// Package csvcodec converts inventory items to and from CSV.
//
// Export always writes the fixed column set in ExportHeader. Import matches
// columns by header name, ignoring case, spaces, dashes and underscores, so both
// camelCase headers ("unitPrice") and the export titles ("Unit Price") work.
package csvcodec

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"inventory-service/internal/domain"

	"github.com/shopspring/decimal"
)

// ExportHeader is the column set written by Encode
var ExportHeader = []string{"ID", "Name", "Category", "Subcategory", "Stock", "Unit Price", "Manufacturer", "Expiry Date"}

// ImportError reports a CSV row that could not be parsed or converted
type ImportError struct {
	Row    int // 1-based data row, 0 for header problems
	Column string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("invalid csv header: %v", e.Err)
	}
	if e.Column == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d, column %s: %v", e.Row, e.Column, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

var errMissingName = errors.New("name column is required")

type fieldSetter func(f *domain.ItemFields, value string) error

var setters = map[string]fieldSetter{
	"name":         func(f *domain.ItemFields, v string) error { f.Name = v; return nil },
	"category":     func(f *domain.ItemFields, v string) error { f.Category = v; return nil },
	"subcategory":  func(f *domain.ItemFields, v string) error { f.Subcategory = v; return nil },
	"manufacturer": func(f *domain.ItemFields, v string) error { f.Manufacturer = v; return nil },
	"unit":         func(f *domain.ItemFields, v string) error { f.Unit = v; return nil },
	"location":     func(f *domain.ItemFields, v string) error { f.Location = v; return nil },
	"description":  func(f *domain.ItemFields, v string) error { f.Description = v; return nil },
	"expirydate":   func(f *domain.ItemFields, v string) error { f.ExpiryDate = v; return nil },
	"stock":        intSetter(func(f *domain.ItemFields, n int) { f.Stock = n }),
	"minstock":     intSetter(func(f *domain.ItemFields, n int) { f.MinStock = n }),
	"reorderlevel": intSetter(func(f *domain.ItemFields, n int) { f.ReorderLevel = n }),
	"unitprice": func(f *domain.ItemFields, v string) error {
		price, err := ParsePrice(v)
		if err != nil {
			return err
		}
		f.UnitPrice = price
		return nil
	},
}

func intSetter(assign func(f *domain.ItemFields, n int)) fieldSetter {
	return func(f *domain.ItemFields, v string) error {
		if v == "" {
			assign(f, 0)
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%q is not an integer", v)
		}
		assign(f, n)
		return nil
	}
}

// Decode reads every data row of r into item fields. The first record is the
// header. Any failure aborts the whole decode and returns an *ImportError.
func Decode(r io.Reader) ([]domain.ItemFields, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return []domain.ItemFields{}, nil
	}
	if err != nil {
		return nil, &ImportError{Err: err}
	}

	columns := make([]string, len(header))
	hasName := false
	for i, h := range header {
		columns[i] = normalizeHeader(h)
		if columns[i] == "name" {
			hasName = true
		}
	}
	if !hasName {
		return nil, &ImportError{Err: errMissingName}
	}

	result := make([]domain.ItemFields, 0)
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ImportError{Row: row, Err: err}
		}
		if isBlank(record) {
			continue
		}

		var fields domain.ItemFields
		for i, value := range record {
			if i >= len(columns) {
				break
			}
			set, ok := setters[columns[i]]
			if !ok {
				continue
			}
			if err := set(&fields, strings.TrimSpace(value)); err != nil {
				return nil, &ImportError{Row: row, Column: header[i], Err: err}
			}
		}
		if err := fields.Validate(); err != nil {
			return nil, &ImportError{Row: row, Err: err}
		}
		result = append(result, fields)
	}

	return result, nil
}

// Encode writes items with ExportHeader columns
func Encode(w io.Writer, items []domain.InventoryItem) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(ExportHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, item := range items {
		record := []string{
			strconv.FormatInt(item.ID, 10),
			item.Name,
			item.Category,
			item.Subcategory,
			strconv.Itoa(item.Stock),
			FormatPrice(item.UnitPrice),
			item.Manufacturer,
			item.ExpiryDate,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write item %d: %w", item.ID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// ParsePrice converts a decimal string into a non-negative price. An empty
// value is zero; a leading currency sign is tolerated.
func ParsePrice(value string) (float64, error) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "$")
	if value == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("%q is not a decimal", value)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("price %s is negative", d.String())
	}
	return d.InexactFloat64(), nil
}

// FormatPrice renders a price with the shortest exact decimal representation
func FormatPrice(price float64) string {
	return decimal.NewFromFloat(price).String()
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
