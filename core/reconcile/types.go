package reconcile

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a row of the shared stock ledger. ProductName is the natural
// key used by every invoice-side lookup; the numeric ID stays the primary
// key internally.
type Product struct {
	ID          uint            `gorm:"column:id;primaryKey" json:"id"`
	ProductName string          `gorm:"column:product_name;uniqueIndex;size:191" json:"productName"`
	Quantity    int             `gorm:"column:quantity" json:"quantity"`
	Mrp         decimal.Decimal `gorm:"column:mrp;type:decimal(10,2)" json:"mrp"`
	Discount    decimal.Decimal `gorm:"column:discount;type:decimal(10,2)" json:"discount"`
	AddMargin   decimal.Decimal `gorm:"column:add_margin;type:decimal(10,2)" json:"addMargin"`
	NetRate     decimal.Decimal `gorm:"column:net_rate;type:decimal(10,2)" json:"netRate"`
	Category    string          `gorm:"column:category" json:"category"`
}

// TableName overrides the table name used by gorm.
func (Product) TableName() string {
	return "products"
}

// InvoiceLine is one product-quantity entry within an invoice. All lines
// sharing an InvoiceNumber form one invoice; the header fields (Name, Area,
// Date, PaymentMethod) are denormalized across every line of that invoice.
type InvoiceLine struct {
	ID            uint            `gorm:"column:id;primaryKey" json:"id"`
	InvoiceNumber int             `gorm:"column:invoice_number;uniqueIndex:idx_invoice_product" json:"invoiceNumber"`
	ProductName   string          `gorm:"column:product_name;size:191;uniqueIndex:idx_invoice_product" json:"productName"`
	Quantity      int             `gorm:"column:quantity" json:"quantity"`
	Mrp           decimal.Decimal `gorm:"column:mrp;type:decimal(10,2)" json:"mrp"`
	NetRate       decimal.Decimal `gorm:"column:net_rate;type:decimal(10,2)" json:"netRate"`
	Discount      decimal.Decimal `gorm:"column:discount;type:decimal(10,2)" json:"discount"`
	Spl           decimal.Decimal `gorm:"column:spl;type:decimal(10,2)" json:"spl"`
	Gst           int             `gorm:"column:gst" json:"gst"`
	Category      string          `gorm:"column:category" json:"category"`
	Name          string          `gorm:"column:name;index" json:"name"`
	Area          string          `gorm:"column:area" json:"area"`
	Date          time.Time       `gorm:"column:date;index" json:"date"`
	PaymentMethod string          `gorm:"column:payment_method" json:"paymentMethod"`
}

// TableName overrides the table name used by gorm.
func (InvoiceLine) TableName() string {
	return "invoice_lines"
}

// Header carries the invoice-level fields duplicated onto every line.
type Header struct {
	Name          string
	Area          string
	Date          time.Time
	PaymentMethod string
	Gst           int
	Spl           decimal.Decimal
	Discount      decimal.Decimal
}

// LineRequest asks for one product to be booked against an invoice.
// The pricing fields are snapshots supplied by the caller; AddLines ignores
// them and snapshots from the Product record instead.
type LineRequest struct {
	ProductName string
	Quantity    int
	Mrp         decimal.Decimal
	NetRate     decimal.Decimal
	Discount    decimal.Decimal
	Category    string
}

// LineFields holds the optional per-line field updates accepted by EditLine.
// Nil pointers leave the stored value untouched.
type LineFields struct {
	Name     *string
	Area     *string
	Date     *time.Time
	Discount *decimal.Decimal
	Spl      *decimal.Decimal
	Mrp      *decimal.Decimal
}

// CreateResult is the outcome of CreateInvoice. A non-empty Errors list does
// not roll back lines that already succeeded.
type CreateResult struct {
	InvoiceNumber int
	Lines         []InvoiceLine
	Errors        []LineError
}

// AddResult is the outcome of AddLines.
type AddResult struct {
	Lines  []InvoiceLine
	Errors []LineError
}

// RemoveResult reports whether removing a line restored the product's stock.
// Restocked is false only when the referenced product no longer exists; the
// line is deleted regardless.
type RemoveResult struct {
	Line      InvoiceLine
	Restocked bool
}
