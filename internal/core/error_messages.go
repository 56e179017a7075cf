// Package core provides the inventory domain logic.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code for faster
// diagnosis.
//
// # Input Errors (VAL001-VAL099)
//
//	VAL001 - SKU required: The SKU field is empty
//	         Action: Enter a SKU before adding the product
//	         Source: ValidationError on field SKU
//
//	VAL002 - Invalid number: A numeric field could not be read
//	         Action: Use digits only, with a dot as decimal separator
//	         Patterns: "invalid number"
//
//	VAL003 - Negative value: Quantity or purchase value is negative
//	         Action: Enter zero or a positive value
//	         Patterns: "must not be negative"
//
//	VAL004 - Invalid input: Any other field validation failure
//	         Source: ValidationError
//
// # Inventory Errors (INV001-INV099)
//
//	INV001 - Duplicate SKU: A product with this SKU already exists
//	         Action: Edit the existing product or choose another SKU
//	         Source: DuplicateKeyError, Patterns: "already exists"
//
//	INV002 - Unknown SKU: The selected product no longer exists
//	         Action: Refresh the page and select an existing product
//	         Source: NotFoundError, Patterns: "not found"
//
//	INV003 - Busy: Another action is still running
//	         Action: Wait a moment and try again
//	         Source: ErrBusy
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File locked: The inventory file is open in another program
//	          Action: Close the file (e.g. in Excel) and save again
//	          Source: PersistenceError with a lock/permission cause
//
//	FILE002 - Save failed: The inventory file could not be written
//	          Action: Check the disk and folder, then save again
//	          Source: PersistenceError
//
//	FILE003 - Unreadable file: The inventory file is not a valid spreadsheet
//	          Action: Restore a valid .xlsx file or move it away to start empty
//	          Patterns: "not a valid zip", "unsupported workbook"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled: Patterns "context canceled"
//	REQ002 - Request timeout: Patterns "context deadline exceeded"
//	RATE001 - Rate limited: Patterns "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again; check the server log for details
//
// # Matching
//
// Typed errors are matched first with errors.As / errors.Is. Remaining
// errors are matched case-insensitively by substring; the first matching
// pattern wins, so more specific patterns come first.
package core

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgSKURequired = UserMessage{
		Message: "SKU cannot be empty",
		Action:  "Enter a SKU before adding the product",
		Code:    "VAL001",
	}
	msgInvalidNumber = UserMessage{
		Message: "Invalid number format",
		Action:  "Use digits only, with a dot as decimal separator",
		Code:    "VAL002",
	}
	msgNegative = UserMessage{
		Message: "Quantity and purchase value cannot be negative",
		Action:  "Enter zero or a positive value",
		Code:    "VAL003",
	}
	msgDuplicate = UserMessage{
		Message: "A product with this SKU already exists",
		Action:  "Edit the existing product or choose another SKU",
		Code:    "INV001",
	}
	msgNotFound = UserMessage{
		Message: "The selected product no longer exists",
		Action:  "Refresh the page and select an existing product",
		Code:    "INV002",
	}
	msgBusy = UserMessage{
		Message: "Another action is still running",
		Action:  "Wait a moment and try again",
		Code:    "INV003",
	}
	msgFileLocked = UserMessage{
		Message: "Could not save the inventory file",
		Action:  "Close the file if it is open in another program (e.g. Excel) and save again",
		Code:    "FILE001",
	}
	msgSaveFailed = UserMessage{
		Message: "Could not save the inventory file",
		Action:  "Check that the folder exists and is writable, then save again",
		Code:    "FILE002",
	}
)

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Patterns are matched using strings.Contains after typed errors were checked.
var errorPatterns = []errorPattern{
	{pattern: "invalid number", msg: msgInvalidNumber},
	{pattern: "must not be negative", msg: msgNegative},
	{pattern: "already exists", msg: msgDuplicate},
	{pattern: "not found", msg: msgNotFound},
	{
		pattern: "not a valid zip",
		msg: UserMessage{
			Message: "The inventory file is not a valid spreadsheet",
			Action:  "Restore a valid .xlsx file or move it away to start empty",
			Code:    "FILE003",
		},
	},
	{
		pattern: "unsupported workbook",
		msg: UserMessage{
			Message: "The inventory file is not a valid spreadsheet",
			Action:  "Restore a valid .xlsx file or move it away to start empty",
			Code:    "FILE003",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again; check the server log for details",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	msg := MapError(&DuplicateKeyError{SKU: "A1"})
//	// msg.Code == "INV001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	if msg, ok := mapTyped(err); ok {
		return msg
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

func mapTyped(err error) (UserMessage, bool) {
	var (
		dup  *DuplicateKeyError
		nf   *NotFoundError
		pe   *PersistenceError
		verr ValidationError
	)

	switch {
	case errors.As(err, &dup):
		return msgDuplicate, true
	case errors.As(err, &nf):
		return msgNotFound, true
	case errors.Is(err, ErrBusy):
		return msgBusy, true
	case errors.As(err, &pe):
		if pe.Locked() {
			return msgFileLocked, true
		}
		if m, ok := matchPattern(pe.Err); ok {
			return m, true
		}
		return msgSaveFailed, true
	case errors.As(err, &verr):
		return validationMessageFor(verr), true
	}
	return UserMessage{}, false
}

func validationMessageFor(v ValidationError) UserMessage {
	if strings.EqualFold(v.Field, ColSKU) {
		return msgSKURequired
	}
	if m, ok := matchPattern(v); ok {
		return m
	}
	return UserMessage{
		Message: v.Error(),
		Action:  "Correct the highlighted field and submit again",
		Code:    "VAL004",
	}
}

func matchPattern(err error) (UserMessage, bool) {
	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg, true
		}
	}
	return UserMessage{}, false
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than the
// generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
