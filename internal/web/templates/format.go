package templates

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/JonMunkholm/inventory/internal/core"
)

// Formatter renders numbers for display with locale grouping.
type Formatter struct {
	printer  *message.Printer
	currency string
	stock    core.StockThresholds
}

// NewFormatter builds a formatter for a BCP 47 locale. An unparseable locale
// falls back to English.
func NewFormatter(locale, currency string, stock core.StockThresholds) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Formatter{
		printer:  message.NewPrinter(tag),
		currency: strings.TrimSpace(currency),
		stock:    stock,
	}
}

// Money formats d with exactly two decimals and grouping, e.g. "1,234.50".
func (f *Formatter) Money(d decimal.Decimal) string {
	return f.printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}

// Currency formats d as Money prefixed by the currency label.
func (f *Formatter) Currency(d decimal.Decimal) string {
	if f.currency == "" {
		return f.Money(d)
	}
	return f.currency + " " + f.Money(d)
}

// Int formats a count with grouping.
func (f *Formatter) Int(n int64) string {
	return f.printer.Sprint(number.Decimal(n))
}

// StockLevel classifies a quantity for highlighting.
func (f *Formatter) StockLevel(quantity int) core.StockLevel {
	return f.stock.Level(quantity)
}
