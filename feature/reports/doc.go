// Package reports implements the sales reporting and invoice management
// feature.
//
// Listings group invoice lines by invoice number: each entry carries the
// invoice's line count and its first line, which holds the denormalized
// header (customer name, area, date, payment method). Mutations that move
// stock (resizing a line, adding products, removing a line, deleting an
// invoice) are delegated to the reconciliation engine so the conservation
// rules hold; header-only updates are applied across the invoice's lines
// directly.
//
// The period PDF is rendered with gofpdf and, when the invoice archive is
// enabled, uploaded to object storage under invoices/<start>_<end>.pdf.
//
// # HTTP Endpoints
//
//   - GET    /reports/                  : Today's invoices, paginated.
//   - GET    /reports/by                : Invoices in a date range.
//   - GET    /reports/byName            : Invoices by customer name.
//   - GET    /reports/products          : All lines of one invoice.
//   - GET    /reports/getInvoiceDetails : The invoice's header fields.
//   - PUT    /reports/invoiceDetails    : Update the header on every line.
//   - PUT    /reports/edit              : Resize a line and/or add products.
//   - DELETE /reports/delete            : Delete an invoice, restoring stock.
//   - DELETE /reports/deleteProduct     : Remove one line, restoring stock.
//   - GET    /reports/availableProducts : Products not yet on the invoice.
//   - GET    /reports/pdf               : Sales PDF for a date range.
package reports
