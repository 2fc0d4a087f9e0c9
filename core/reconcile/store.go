package reconcile

import "context"

// Store is the storage contract consumed by the engine. Lookups that find
// nothing return (nil, nil); errors are reserved for storage failures.
//
// An implementation must make InTx group every call made through the inner
// Store into one atomic transaction, and must serialize concurrent
// read-modify-write access to the same Product row (the gorm implementation
// locks the row with SELECT ... FOR UPDATE).
type Store interface {
	// ProductByName looks up a product by its natural key. Inside a
	// transaction the returned row is locked for update.
	ProductByName(ctx context.Context, name string) (*Product, error)
	// ProductByID looks up a product by primary key.
	ProductByID(ctx context.Context, id uint) (*Product, error)
	// UpdateProductQuantity persists a new stock quantity for a product.
	UpdateProductQuantity(ctx context.Context, id uint, quantity int) error

	// CreateLine persists a new invoice line and fills in its ID.
	CreateLine(ctx context.Context, line *InvoiceLine) error
	// LineByID fetches the line with the given id belonging to the invoice.
	LineByID(ctx context.Context, invoiceNumber int, id uint) (*InvoiceLine, error)
	// LineByProduct fetches the invoice's line for a product name, if any.
	LineByProduct(ctx context.Context, invoiceNumber int, productName string) (*InvoiceLine, error)
	// LinesByInvoice lists all lines sharing an invoice number.
	LinesByInvoice(ctx context.Context, invoiceNumber int) ([]InvoiceLine, error)
	// UpdateLine applies column updates to a line and returns the new row.
	UpdateLine(ctx context.Context, id uint, fields map[string]any) (*InvoiceLine, error)
	// DeleteLine removes a single line.
	DeleteLine(ctx context.Context, id uint) error
	// DeleteInvoiceLines removes every line of an invoice, returning the count.
	DeleteInvoiceLines(ctx context.Context, invoiceNumber int) (int64, error)

	// NextInvoiceNumber allocates max(existing invoice number) + 1.
	NextInvoiceNumber(ctx context.Context) (int, error)
	// ProductsNotOnInvoice lists products absent from the invoice whose name
	// contains search, case-insensitively.
	ProductsNotOnInvoice(ctx context.Context, invoiceNumber int, search string) ([]Product, error)

	// InTx runs fn with a Store whose calls are grouped into one atomic
	// transaction. Returning an error rolls every call back.
	InTx(ctx context.Context, fn func(Store) error) error
}
