package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormState_ResolveSelections(t *testing.T) {
	tests := []struct {
		name       string
		edit       string
		remove     string
		available  []string
		wantEdit   string
		wantRemove string
	}{
		{name: "keeps valid selections", edit: "B2", remove: "A1", available: []string{"A1", "B2"}, wantEdit: "B2", wantRemove: "A1"},
		{name: "empty falls back to first", available: []string{"A1", "B2"}, wantEdit: "A1", wantRemove: "A1"},
		{name: "stale falls back to first", edit: "gone", remove: "B2", available: []string{"A1", "B2"}, wantEdit: "A1", wantRemove: "B2"},
		{name: "nothing available clears", edit: "A1", remove: "A1", available: nil, wantEdit: "", wantRemove: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := FormState{EditSKU: tt.edit, RemoveSKU: tt.remove}
			f.ResolveSelections(tt.available)
			assert.Equal(t, tt.wantEdit, f.EditSKU)
			assert.Equal(t, tt.wantRemove, f.RemoveSKU)
		})
	}
}

func TestFormState_ClearSelection(t *testing.T) {
	f := FormState{EditSKU: "A1", RemoveSKU: "B2"}

	f.ClearSelection("A1")
	assert.Empty(t, f.EditSKU)
	assert.Equal(t, "B2", f.RemoveSKU)

	f.ClearSelection("B2")
	assert.Empty(t, f.RemoveSKU)
}

func TestFormState_ResetDraft(t *testing.T) {
	f := FormState{Draft: Draft{SKU: "A1", Quantity: "3"}, EditSKU: "B2"}
	f.ResetDraft()
	assert.Equal(t, Draft{}, f.Draft)
	assert.Equal(t, "B2", f.EditSKU)
}

func TestNewState(t *testing.T) {
	st := NewState(nil)
	assert.NotNil(t, st.Table)
	assert.Empty(t, st.Table)
	assert.False(t, st.Dirty)
}

func TestView_Filtered(t *testing.T) {
	assert.False(t, View{}.Filtered())
	assert.False(t, View{Term: "  "}.Filtered())
	assert.True(t, View{Term: "lamp "}.Filtered())
}
