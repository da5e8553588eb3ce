package csvcodec

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"inventory-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_CamelCaseHeaders(t *testing.T) {
	input := "name,category,subcategory,stock,unitPrice,manufacturer,minStock,expiryDate\n" +
		"Aspirin,Medication,Analgesic,100,2.50,Bayer,10,2027-01-31\n" +
		"Gauze,Supplies,Dressing,40,0.35,3M,5,\n"

	fields, err := Decode(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, domain.ItemFields{
		Name:         "Aspirin",
		Category:     "Medication",
		Subcategory:  "Analgesic",
		Manufacturer: "Bayer",
		Stock:        100,
		MinStock:     10,
		UnitPrice:    2.5,
		ExpiryDate:   "2027-01-31",
	}, fields[0])
	assert.Equal(t, 40, fields[1].Stock)
	assert.Equal(t, 0.35, fields[1].UnitPrice)
	assert.Empty(t, fields[1].ExpiryDate)
}

func TestDecode_ExportTitlesAndUnknownColumns(t *testing.T) {
	input := "\ufeffID,Name,Unit Price,Stock,Shelf\n" +
		"123,Mask,$1.10,7,B2\n"

	fields, err := Decode(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "Mask", fields[0].Name)
	assert.Equal(t, 1.1, fields[0].UnitPrice)
	assert.Equal(t, 7, fields[0].Stock)
}

func TestDecode_EmptyInput(t *testing.T) {
	fields, err := Decode(strings.NewReader(""))

	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestDecode_SkipsBlankRows(t *testing.T) {
	input := "name,stock\nA,1\n,\nB,2\n"

	fields, err := Decode(strings.NewReader(input))

	require.NoError(t, err)
	assert.Len(t, fields, 2)
}

func TestDecode_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		row    int
		column string
	}{
		{"MissingNameColumn", "category,stock\nx,1\n", 0, ""},
		{"BadStock", "name,stock\nA,1\nB,many\n", 2, "stock"},
		{"BadPrice", "name,unitPrice\nA,abc\n", 1, "unitPrice"},
		{"NegativePrice", "name,unitPrice\nA,-1\n", 1, "unitPrice"},
		{"MissingNameValue", "name,stock\n,4\n", 1, ""},
		{"MalformedQuote", "name,stock\n\"A,1\n", 1, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fields, err := Decode(strings.NewReader(tc.input))

			assert.Nil(t, fields)
			var importErr *ImportError
			require.ErrorAs(t, err, &importErr)
			assert.Equal(t, tc.row, importErr.Row)
			assert.Equal(t, tc.column, importErr.Column)
			assert.NotEmpty(t, importErr.Error())
		})
	}
}

func TestEncode_FixedColumns(t *testing.T) {
	items := []domain.InventoryItem{
		domain.NewInventoryItem(1700000000001, domain.ItemFields{
			Name:         "Aspirin, 500mg",
			Category:     "Medication",
			Subcategory:  "Analgesic",
			Stock:        100,
			UnitPrice:    2.5,
			Manufacturer: "Bayer",
			ExpiryDate:   "2027-01-31",
			Location:     "not exported",
		}, time.Now()),
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, items))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID,Name,Category,Subcategory,Stock,Unit Price,Manufacturer,Expiry Date", lines[0])
	assert.Equal(t, `1700000000001,"Aspirin, 500mg",Medication,Analgesic,100,2.5,Bayer,2027-01-31`, lines[1])
}

func TestEncodeDecode_RoundTripNumbers(t *testing.T) {
	now := time.Now()
	items := []domain.InventoryItem{
		domain.NewInventoryItem(1, domain.ItemFields{Name: "A", Stock: 0, UnitPrice: 0}, now),
		domain.NewInventoryItem(2, domain.ItemFields{Name: "B", Stock: 12, UnitPrice: 0.1}, now),
		domain.NewInventoryItem(3, domain.ItemFields{Name: "C", Stock: 99999, UnitPrice: 1234.5678}, now),
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, items))

	fields, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, fields, len(items))
	for i, f := range fields {
		assert.Equal(t, items[i].Name, f.Name)
		assert.Equal(t, items[i].Stock, f.Stock)
		assert.Equal(t, items[i].UnitPrice, f.UnitPrice)
	}
}

func TestParseAndFormatPrice(t *testing.T) {
	price, err := ParsePrice(" 19.990 ")
	require.NoError(t, err)
	assert.Equal(t, 19.99, price)

	price, err = ParsePrice("")
	require.NoError(t, err)
	assert.Zero(t, price)

	assert.Equal(t, "19.99", FormatPrice(19.99))
	assert.Equal(t, "3", FormatPrice(3))
}
