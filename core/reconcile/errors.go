package reconcile

import (
	"errors"
	"fmt"
)

// Error kinds returned by engine operations. Callers match them with
// errors.Is; the transport layer owns the mapping to HTTP status codes.
var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an absent invoice, line or product.
	ErrNotFound = errors.New("not found")
	// ErrOutOfStock marks a requested decrement that exceeds available stock.
	ErrOutOfStock = errors.New("out of stock")
	// ErrDuplicateLine marks a product that is already on the invoice.
	ErrDuplicateLine = errors.New("product already on invoice")
	// ErrConflict marks a concurrent-update race that survived the retry budget.
	ErrConflict = errors.New("conflicting concurrent update")
)

// LineError reports why one line of a batch request was skipped.
type LineError struct {
	ProductName string `json:"productName"`
	Message     string `json:"message"`
	err         error
}

// Error implements the error interface.
func (e LineError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying error kind for errors.Is.
func (e LineError) Unwrap() error {
	return e.err
}

func lineError(kind error, productName, format string, args ...any) LineError {
	return LineError{
		ProductName: productName,
		Message:     fmt.Sprintf(format, args...),
		err:         kind,
	}
}

// batchErrors collects per-line errors while deduplicating repeated kinds.
// Only the first "out of stock" and the first "product not found" of a batch
// are surfaced; the affected lines are still skipped.
type batchErrors struct {
	list []LineError
	seen map[error]bool
}

func (b *batchErrors) add(e LineError) {
	if e.err == ErrOutOfStock || e.err == ErrNotFound {
		if b.seen == nil {
			b.seen = make(map[error]bool)
		}
		if b.seen[e.err] {
			return
		}
		b.seen[e.err] = true
	}
	b.list = append(b.list, e)
}
