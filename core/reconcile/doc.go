// Package reconcile implements the invoice/stock reconciliation engine.
//
// The engine keeps two record kinds mutually consistent: the Product stock
// ledger and the InvoiceLine rows that consume it. Every mutation a sale can
// make (create an invoice, resize a line, add lines to an open invoice,
// remove a line, delete a whole invoice) flows through this package so that
// the conservation invariant always holds:
//
//	product.quantity + sum(line.quantity for lines naming the product) == const
//
// # Architecture
//
// The engine consists of three main components:
//
//  1. Engine: the operation logic. Each operation is a single unit of work
//     against the store, validated up-front so a failed operation leaves both
//     record kinds untouched.
//
//  2. Store: the storage contract (point lookups by id/name, filtered scans,
//     grouping by invoice number, atomic create/update/delete). All calls
//     made by one operation are grouped into one transaction via Store.InTx.
//
//  3. GormStore: the production Store backed by gorm/MySQL. Product rows are
//     read with SELECT ... FOR UPDATE before any read-modify-write, and
//     transactions are retried a bounded number of times on deadlock before
//     surfacing ErrConflict.
//
// # Batch semantics
//
// CreateInvoice and AddLines process their line requests independently and
// return partial results: lines that pass validation are applied, lines that
// fail are skipped and reported in the error list. A non-empty error list
// means "some work was not done", not total failure. EditLine, RemoveLine and
// DeleteInvoice are all-or-nothing.
package reconcile
