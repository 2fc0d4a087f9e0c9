// Package billing implements the point-of-sale billing feature.
//
// A bill is an invoice: a set of invoice lines sharing a freshly allocated
// invoice number. Creating one books each requested product through the
// reconciliation engine, which decrements stock and reports per-product
// failures without discarding the lines that succeeded.
//
// # Components
//
//   - Service: bill creation (delegating to the engine) and the product
//     lookup backing the billing screen's picker.
//   - Handler: exposes the billing endpoints.
//   - Feature: registers the feature with the application loader.
//
// # HTTP Endpoints
//
//   - POST /billing/addBill : Create an invoice from a header and products.
//   - GET  /billing/getBill : Product name search for the billing picker.
package billing
