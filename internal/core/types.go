package core

import (
	"github.com/shopspring/decimal"
)

// Column names of the backing spreadsheet, in file order.
const (
	ColSKU           = "SKU"
	ColDescription   = "Description"
	ColQuantity      = "Quantity"
	ColPurchaseValue = "PurchaseValue"
	ColTotalValue    = "TotalValue"
)

// Columns is the fixed header written to every spreadsheet.
var Columns = []string{ColSKU, ColDescription, ColQuantity, ColPurchaseValue, ColTotalValue}

// Product is a single inventory row keyed by SKU.
type Product struct {
	SKU           string          `json:"sku"`
	Description   string          `json:"description"`
	Quantity      int             `json:"quantity"`
	PurchaseValue decimal.Decimal `json:"purchaseValue"`
	TotalValue    decimal.Decimal `json:"totalValue"`
}

// Recompute sets TotalValue from Quantity and PurchaseValue.
func (p *Product) Recompute() {
	p.TotalValue = decimal.NewFromInt(int64(p.Quantity)).Mul(p.PurchaseValue)
}

// NewProduct builds a product with its derived total already computed.
func NewProduct(sku, description string, quantity int, purchase decimal.Decimal) Product {
	p := Product{
		SKU:           sku,
		Description:   description,
		Quantity:      quantity,
		PurchaseValue: purchase,
	}
	p.Recompute()
	return p
}

// Table is the in-memory product collection. Order is insertion order and is
// used for display only.
type Table []Product

// Len returns the number of rows.
func (t Table) Len() int { return len(t) }

// Clone returns a copy that shares no backing array with t.
func (t Table) Clone() Table {
	if t == nil {
		return Table{}
	}
	out := make(Table, len(t))
	copy(out, t)
	return out
}

// Contains reports whether any row has the given SKU.
func (t Table) Contains(sku string) bool {
	return t.IndexOf(sku) >= 0
}

// IndexOf returns the position of the first row with the given SKU, or -1.
func (t Table) IndexOf(sku string) int {
	for i := range t {
		if t[i].SKU == sku {
			return i
		}
	}
	return -1
}

// Find returns the first row with the given SKU.
func (t Table) Find(sku string) (Product, bool) {
	if i := t.IndexOf(sku); i >= 0 {
		return t[i], true
	}
	return Product{}, false
}

// SKUs returns the distinct non-empty SKUs in table order.
func (t Table) SKUs() []string {
	seen := make(map[string]bool, len(t))
	out := make([]string, 0, len(t))
	for _, p := range t {
		if p.SKU == "" || seen[p.SKU] {
			continue
		}
		seen[p.SKU] = true
		out = append(out, p.SKU)
	}
	return out
}

// ProductInput carries the add-form fields after parsing.
type ProductInput struct {
	SKU           string          `validate:"required"`
	Description   string
	Quantity      int             `validate:"gte=0"`
	PurchaseValue decimal.Decimal `validate:"gte=0"`
}

// EditInput carries the edit-form fields. SKU selects the row and is never
// changed.
type EditInput struct {
	SKU           string          `validate:"required"`
	Description   string
	Quantity      int             `validate:"gte=0"`
	PurchaseValue decimal.Decimal `validate:"gte=0"`
}

// Summary aggregates the full table.
type Summary struct {
	TotalItems int64           `json:"totalItems"`
	TotalValue decimal.Decimal `json:"totalValue"`
	Count      int             `json:"count"`
}

// StockLevel classifies a quantity for display.
type StockLevel string

const (
	StockLow    StockLevel = "low"
	StockMedium StockLevel = "medium"
	StockHigh   StockLevel = "high"
)

// StockThresholds bounds the stock levels: below Low is low, up to and
// including High is medium, above High is high.
type StockThresholds struct {
	Low  int
	High int
}

// DefaultStockThresholds matches the UI_STOCK_* config defaults.
var DefaultStockThresholds = StockThresholds{Low: 200, High: 1000}

// Level returns the stock level for a quantity.
func (s StockThresholds) Level(quantity int) StockLevel {
	switch {
	case quantity < s.Low:
		return StockLow
	case quantity <= s.High:
		return StockMedium
	default:
		return StockHigh
	}
}
