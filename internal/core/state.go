package core

import "strings"

// Draft holds the raw add-form fields exactly as the user typed them, so a
// rejected add can re-render the form with the same values.
type Draft struct {
	SKU           string
	Description   string
	Quantity      string
	PurchaseValue string
}

// EditForm holds the raw edit-form fields.
type EditForm struct {
	SKU           string
	Description   string
	Quantity      string
	PurchaseValue string
}

// FormState is the transient per-user form state between requests.
type FormState struct {
	Draft     Draft
	EditSKU   string // pending edit selection
	RemoveSKU string // pending remove selection
}

// ResetDraft clears the add-form fields.
func (f *FormState) ResetDraft() {
	f.Draft = Draft{}
}

// ClearSelection drops any pending edit/remove selection that references sku.
func (f *FormState) ClearSelection(sku string) {
	if f.EditSKU == sku {
		f.EditSKU = ""
	}
	if f.RemoveSKU == sku {
		f.RemoveSKU = ""
	}
}

// ResolveSelections constrains the pending selections to available SKUs.
// A selection that is no longer available falls back to the first one; with
// nothing available both selections are cleared.
func (f *FormState) ResolveSelections(available []string) {
	f.EditSKU = resolveSelection(f.EditSKU, available)
	f.RemoveSKU = resolveSelection(f.RemoveSKU, available)
}

func resolveSelection(current string, available []string) string {
	if len(available) == 0 {
		return ""
	}
	for _, sku := range available {
		if sku == current {
			return current
		}
	}
	return available[0]
}

// State is the single mutable handle for a user's inventory session: the
// table, the form state and whether the table has unsaved changes. It is
// owned by the caller and passed explicitly into Controller operations.
type State struct {
	Table Table
	Form  FormState
	Dirty bool // in-memory table differs from the backing file
}

// NewState wraps a loaded table.
func NewState(t Table) *State {
	if t == nil {
		t = Table{}
	}
	return &State{Table: t}
}

// View is a read-only projection of State for rendering.
type View struct {
	Term       string
	All        Table
	Visible    Table
	Summary    Summary
	Selectable []string
	Form       FormState
	Dirty      bool
}

// Filtered reports whether Term narrows the table.
func (v View) Filtered() bool {
	return strings.TrimSpace(v.Term) != ""
}
