package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "duplicate SKU",
			err:         &DuplicateKeyError{SKU: "A1"},
			wantCode:    "INV001",
			wantMessage: "A product with this SKU already exists",
		},
		{
			name:        "wrapped duplicate SKU",
			err:         fmt.Errorf("add: %w", &DuplicateKeyError{SKU: "A1"}),
			wantCode:    "INV001",
			wantMessage: "A product with this SKU already exists",
		},
		{
			name:        "unknown SKU",
			err:         &NotFoundError{SKU: "Z9"},
			wantCode:    "INV002",
			wantMessage: "The selected product no longer exists",
		},
		{
			name:        "busy",
			err:         ErrBusy,
			wantCode:    "INV003",
			wantMessage: "Another action is still running",
		},
		{
			name:        "empty SKU",
			err:         ValidationError{Field: ColSKU, Message: "required field is empty"},
			wantCode:    "VAL001",
			wantMessage: "SKU cannot be empty",
		},
		{
			name:        "bad quantity",
			err:         ValidationError{Field: ColQuantity, Value: "abc", Message: "invalid number, expected a whole number"},
			wantCode:    "VAL002",
			wantMessage: "Invalid number format",
		},
		{
			name:        "negative purchase value",
			err:         ValidationError{Field: ColPurchaseValue, Value: "-1", Message: "must not be negative"},
			wantCode:    "VAL003",
			wantMessage: "Quantity and purchase value cannot be negative",
		},
		{
			name:        "other validation failure",
			err:         ValidationError{Field: ColDescription, Message: "must be at most 500 characters"},
			wantCode:    "VAL004",
			wantMessage: "Description: must be at most 500 characters",
		},
		{
			name:        "locked file",
			err:         &PersistenceError{Op: "save", Path: "inv.xlsx", Err: fs.ErrPermission},
			wantCode:    "FILE001",
			wantMessage: "Could not save the inventory file",
		},
		{
			name:        "windows sharing violation",
			err:         &PersistenceError{Op: "save", Path: "inv.xlsx", Err: errors.New("The process cannot access the file because it is being used by another process.")},
			wantCode:    "FILE001",
			wantMessage: "Could not save the inventory file",
		},
		{
			name:        "other save failure",
			err:         &PersistenceError{Op: "save", Path: "inv.xlsx", Err: errors.New("no space left on device")},
			wantCode:    "FILE002",
			wantMessage: "Could not save the inventory file",
		},
		{
			name:        "corrupt file",
			err:         &PersistenceError{Op: "load", Path: "inv.xlsx", Err: errors.New("zip: not a valid zip file")},
			wantCode:    "FILE003",
			wantMessage: "The inventory file is not a valid spreadsheet",
		},
		{
			name:        "cancelled request",
			err:         context.Canceled,
			wantCode:    "REQ001",
			wantMessage: "Request was cancelled",
		},
		{
			name:        "rate limit",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("Product ALREADY EXISTS"),
			wantCode:    "INV001",
			wantMessage: "A product with this SKU already exists",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantMessage, got.Message)
		})
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(&DuplicateKeyError{SKU: "A1"})
	assert.Equal(t,
		"A product with this SKU already exists (Code: INV001). Edit the existing product or choose another SKU",
		got)

	assert.Empty(t, FormatUserError(nil))
}

func TestIsUserFacing(t *testing.T) {
	assert.False(t, IsUserFacing(nil))
	assert.True(t, IsUserFacing(&NotFoundError{SKU: "x"}))
	assert.True(t, IsUserFacing(errors.New("rate limit hit")))
	assert.False(t, IsUserFacing(errors.New("random internal error xyz")))
}
