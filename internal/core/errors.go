package core

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// ErrBusy is returned when another action holds the action gate for longer
// than the configured wait.
var ErrBusy = errors.New("inventory busy: another action is in progress")

// DuplicateKeyError is returned when adding a product whose SKU already exists.
type DuplicateKeyError struct {
	SKU string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("product with SKU %q already exists", e.SKU)
}

// NotFoundError is returned when an edit or remove targets an unknown SKU.
type NotFoundError struct {
	SKU string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product with SKU %q not found", e.SKU)
}

// PersistenceError is returned when the backing file could not be written or
// read. The in-memory table is never modified by the failing operation.
type PersistenceError struct {
	Op   string // "save" or "load"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s inventory file %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Locked reports whether the failure looks like the file being held open by
// another program (a lock or a permission problem).
func (e *PersistenceError) Locked() bool {
	if errors.Is(e.Err, fs.ErrPermission) {
		return true
	}
	msg := strings.ToLower(e.Err.Error())
	return strings.Contains(msg, "being used by another process") ||
		strings.Contains(msg, "resource busy") ||
		strings.Contains(msg, "locked")
}
