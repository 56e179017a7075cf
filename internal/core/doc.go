// Package core provides the business logic of the inventory form.
//
// This package holds all domain logic independent of any UI, transport or file
// format. It can be used by web handlers, CLI tools, or tests without
// modification.
//
// # Architecture
//
// The package is organized around a few key concepts:
//
//   - Table: the in-memory product collection, keyed by SKU.
//   - Transforms: [AddProduct], [EditProduct] and [RemoveProduct] return a new
//     table and never modify their input.
//   - Views: [Filter], [Summarize] and [SelectableSKUs] derive what the form
//     shows from the table and the search term.
//   - Controller: runs one action at a time through an [ActionGate], persists
//     the result through a [Store] and reports an [Outcome].
//
// # Action Flow
//
// Every mutating action follows the same sequence:
//
//  1. Acquire the action gate (or fail with [ErrBusy])
//  2. Parse and validate the raw form input
//  3. Build the next table with a pure transform
//  4. Install it in [State] and write the whole table through the [Store]
//  5. Report the outcome; a failed write keeps the change and marks State dirty
//
// Derived views are recomputed from State on every render, so they always
// reflect the table of the last accepted action.
//
// # Errors
//
// Domain failures are typed ([ValidationError], [DuplicateKeyError],
// [NotFoundError], [PersistenceError]) and mapped to coded user messages by
// [MapError].
package core
