// Package templates renders the inventory page and its fragments as templ
// components. The *_templ.go files are generated from the .templ sources.
package templates

//go:generate templ generate

import "github.com/JonMunkholm/inventory/internal/core"

// FlashLevel selects the styling of a flash message.
type FlashLevel string

const (
	FlashSuccess FlashLevel = "success"
	FlashWarning FlashLevel = "warning"
	FlashError   FlashLevel = "error"
	FlashInfo    FlashLevel = "info"
)

// Flash is a one-shot message shown after a redirect.
type Flash struct {
	Level   FlashLevel
	Message string
	Action  string // optional follow-up hint
	Code    string // optional support code
}

// PageData is everything the inventory page shows.
type PageData struct {
	Title      string
	View       core.View
	Flashes    []Flash
	Format     *Formatter
	ExportName string
}

func columnLabel(c string) string {
	switch c {
	case core.ColPurchaseValue:
		return "Purchase value"
	case core.ColTotalValue:
		return "Total value"
	default:
		return c
	}
}

func stockClass(f *Formatter, quantity int) string {
	return "num stock-" + string(f.StockLevel(quantity))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func firstOf(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// editOpen reports whether the edit panel starts expanded: a product other
// than the default first one is selected.
func editOpen(v core.View) bool {
	return v.Form.EditSKU != "" && v.Form.EditSKU != firstOf(v.Selectable)
}
