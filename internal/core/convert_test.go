package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		wantValue string
	}{
		// Basic numbers
		{name: "positive integer", input: "123", wantValid: true, wantValue: "123"},
		{name: "zero", input: "0", wantValid: true, wantValue: "0"},
		{name: "negative integer", input: "-456", wantValid: true, wantValue: "-456"},
		{name: "decimal number", input: "123.45", wantValid: true, wantValue: "123.45"},
		{name: "leading decimal point", input: ".99", wantValid: true, wantValue: "0.99"},
		{name: "trailing decimal point", input: "99.", wantValid: true, wantValue: "99"},
		{name: "scientific notation", input: "1.5e3", wantValid: true, wantValue: "1500"},

		// Spreadsheet artifacts
		{name: "dollar sign", input: "$1,234.50", wantValid: true, wantValue: "1234.5"},
		{name: "euro sign", input: "€12", wantValid: true, wantValue: "12"},
		{name: "real prefix", input: "R$ 10,00", wantValid: true, wantValue: "1000"},
		{name: "accounting negative", input: "(12.50)", wantValid: true, wantValue: "-12.5"},
		{name: "formula prefix", input: `="42"`, wantValid: true, wantValue: "42"},
		{name: "surrounding whitespace", input: "  7  ", wantValid: true, wantValue: "7"},

		// Invalid
		{name: "empty", input: "", wantValid: false},
		{name: "letters", input: "abc", wantValid: false},
		{name: "mixed", input: "12abc", wantValid: false},
		{name: "two dots", input: "1.2.3", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDecimal(tt.input)
			assert.Equal(t, tt.wantValid, ok)
			if tt.wantValid {
				assert.Equal(t, tt.wantValue, got.String())
			}
		})
	}
}

func TestCoerceQuantity(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"10", 10},
		{"10.9", 10},
		{"-5", 0},
		{"", 0},
		{"n/a", 0},
		{"1,500", 1500},
		{"1e19", 0},
		{"18446744073709551617", 0},
		{"9223372036854775807", math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceQuantity(tt.input))
		})
	}
}

func TestCoerceMoney(t *testing.T) {
	assert.Equal(t, "19.99", CoerceMoney("19.99").String())
	assert.Equal(t, "0", CoerceMoney("free").String())
	assert.Equal(t, "0", CoerceMoney("(3)").String(), "negative clamps to zero")
}

func TestCoerceText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		numeric bool
		want    string
	}{
		{name: "plain", input: " Lamp ", want: "Lamp"},
		{name: "float-looking number cell", input: "123.0", numeric: true, want: "123"},
		{name: "float-looking text cell kept", input: "1.0", want: "1.0"},
		{name: "real decimal kept", input: "12.5", numeric: true, want: "12.5"},
		{name: "non-numeric suffix kept", input: "v1.0", numeric: true, want: "v1.0"},
		{name: "formula-looking text kept", input: "=lamp", want: "=lamp"},
		{name: "quotes kept", input: `Pipe 12"`, want: `Pipe 12"`},
		{name: "single quotes kept", input: "'quoted'", want: "'quoted'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceText(tt.input, tt.numeric))
		})
	}
}

func TestMakeHeaderIndex(t *testing.T) {
	idx := MakeHeaderIndex([]string{" SKU ", "description", "", "Quantity", "sku"})

	assert.Equal(t, 0, idx["sku"], "first occurrence wins")
	assert.Equal(t, 1, idx["description"])
	assert.Equal(t, 3, idx["quantity"])
	assert.Len(t, idx, 3)

	row := []string{"A1", "Lamp"}
	assert.Equal(t, "A1", idx.Cell(row, ColSKU))
	assert.Equal(t, "Lamp", idx.Cell(row, ColDescription))
	assert.Equal(t, "", idx.Cell(row, ColQuantity), "short row")
	assert.Equal(t, "", idx.Cell(row, ColTotalValue), "missing column")
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`  hello  `, "hello"},
		{`="ABC"`, "ABC"},
		{`=123`, "123"},
		{`"quoted"`, "quoted"},
		{`'single'`, "single"},
		{``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanCell(tt.input))
		})
	}
}
