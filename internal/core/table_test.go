package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleTable() Table {
	return Table{
		NewProduct("A1", "Red widget", 10, dec("2.50")),
		NewProduct("B2", "Blue lamp", 3, dec("20")),
	}
}

func TestAddProduct(t *testing.T) {
	tests := []struct {
		name      string
		in        ProductInput
		wantErr   bool
		wantField string
		wantDup   bool
		wantTotal string
	}{
		{
			name:      "adds valid product",
			in:        ProductInput{SKU: "C3", Description: "Chair", Quantity: 4, PurchaseValue: dec("12.25")},
			wantTotal: "49",
		},
		{
			name:      "trims SKU",
			in:        ProductInput{SKU: "  C3 ", Quantity: 1, PurchaseValue: dec("1")},
			wantTotal: "1",
		},
		{
			name:      "zero quantity allowed",
			in:        ProductInput{SKU: "C3", Quantity: 0, PurchaseValue: dec("5")},
			wantTotal: "0",
		},
		{
			name:      "empty SKU rejected",
			in:        ProductInput{SKU: "   ", Quantity: 1},
			wantErr:   true,
			wantField: "SKU",
		},
		{
			name:      "negative quantity rejected",
			in:        ProductInput{SKU: "C3", Quantity: -1},
			wantErr:   true,
			wantField: "Quantity",
		},
		{
			name:      "negative purchase value rejected",
			in:        ProductInput{SKU: "C3", Quantity: 1, PurchaseValue: dec("-0.01")},
			wantErr:   true,
			wantField: "PurchaseValue",
		},
		{
			name:    "duplicate SKU rejected",
			in:      ProductInput{SKU: "A1", Quantity: 1},
			wantErr: true,
			wantDup: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := sampleTable()
			snapshot := before.Clone()

			next, p, err := AddProduct(before, tt.in)
			assert.Equal(t, snapshot, before, "input table must not change")

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, before, next)
				if tt.wantDup {
					var dup *DuplicateKeyError
					assert.True(t, errors.As(err, &dup))
				} else {
					var verr ValidationError
					require.True(t, errors.As(err, &verr))
					assert.Equal(t, tt.wantField, verr.Field)
				}
				return
			}

			require.NoError(t, err)
			require.Len(t, next, len(before)+1)
			assert.Equal(t, p, next[len(next)-1], "appended at the end")
			assert.Equal(t, "C3", p.SKU)
			assert.True(t, dec(tt.wantTotal).Equal(p.TotalValue), "total = %s", p.TotalValue)
		})
	}
}

func TestAddProduct_TotalValue(t *testing.T) {
	next, p, err := AddProduct(Table{}, ProductInput{
		SKU:           "A1",
		Description:   "Lamp",
		Quantity:      3,
		PurchaseValue: dec("12.50"),
	})
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.True(t, dec("37.50").Equal(p.TotalValue))
}

func TestEditProduct(t *testing.T) {
	t.Run("updates fields and recomputes total", func(t *testing.T) {
		before := sampleTable()
		next, p, err := EditProduct(before, EditInput{
			SKU:           "A1",
			Description:   "Green widget",
			Quantity:      4,
			PurchaseValue: dec("3"),
		})
		require.NoError(t, err)

		assert.Equal(t, "Green widget", p.Description)
		assert.True(t, dec("12").Equal(p.TotalValue))
		assert.Equal(t, p, next[0])
		assert.Equal(t, "Red widget", before[0].Description, "input table must not change")
		assert.Equal(t, before[1], next[1])
	})

	t.Run("unknown SKU", func(t *testing.T) {
		before := sampleTable()
		next, _, err := EditProduct(before, EditInput{SKU: "ZZ", Quantity: 1})

		var nf *NotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, "ZZ", nf.SKU)
		assert.Equal(t, before, next)
	})

	t.Run("negative quantity", func(t *testing.T) {
		_, _, err := EditProduct(sampleTable(), EditInput{SKU: "A1", Quantity: -2})

		var verr ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "Quantity", verr.Field)
	})

	t.Run("duplicate rows are all updated", func(t *testing.T) {
		before := append(sampleTable(), NewProduct("A1", "Copy", 1, dec("1")))
		next, _, err := EditProduct(before, EditInput{SKU: "A1", Description: "Same", Quantity: 2, PurchaseValue: dec("1")})
		require.NoError(t, err)

		assert.Equal(t, "Same", next[0].Description)
		assert.Equal(t, "Same", next[2].Description)
	})
}

func TestRemoveProduct(t *testing.T) {
	t.Run("removes row", func(t *testing.T) {
		before := sampleTable()
		next, p, err := RemoveProduct(before, "A1")
		require.NoError(t, err)

		assert.Equal(t, "A1", p.SKU)
		require.Len(t, next, 1)
		assert.Equal(t, "B2", next[0].SKU)
		assert.Len(t, before, 2, "input table must not change")
	})

	t.Run("unknown SKU", func(t *testing.T) {
		before := sampleTable()
		next, _, err := RemoveProduct(before, "nope")

		var nf *NotFoundError
		assert.True(t, errors.As(err, &nf))
		assert.Equal(t, before, next)
	})

	t.Run("removes duplicates", func(t *testing.T) {
		before := append(sampleTable(), NewProduct("A1", "Copy", 1, dec("1")))
		next, _, err := RemoveProduct(before, "A1")
		require.NoError(t, err)
		assert.False(t, next.Contains("A1"))
	})
}

func TestTable_SKUs(t *testing.T) {
	tbl := Table{
		{SKU: "A1"},
		{SKU: ""},
		{SKU: "B2"},
		{SKU: "A1"},
	}
	assert.Equal(t, []string{"A1", "B2"}, tbl.SKUs())
}

func TestStockThresholds_Level(t *testing.T) {
	th := DefaultStockThresholds
	assert.Equal(t, StockLow, th.Level(0))
	assert.Equal(t, StockLow, th.Level(199))
	assert.Equal(t, StockMedium, th.Level(200))
	assert.Equal(t, StockMedium, th.Level(1000))
	assert.Equal(t, StockHigh, th.Level(1001))
}
