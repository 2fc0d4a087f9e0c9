package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Engine applies invoice mutations while keeping product stock and invoice
// lines mutually consistent. Every operation is one transaction against the
// store; validation happens before any write so a failed operation leaves
// both record kinds untouched.
type Engine struct {
	store  Store
	logger *zap.Logger
}

// NewEngine creates a new reconciliation engine.
func NewEngine(store Store, logger *zap.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// CreateInvoice allocates the next invoice number and books the requested
// lines against it. Lines are processed independently: a line that fails
// validation is skipped and reported in the result's Errors, lines that
// already succeeded stay applied. A product may appear at most once per
// invoice; repeats within the batch are reported as duplicates.
func (e *Engine) CreateInvoice(ctx context.Context, header Header, requests []LineRequest) (*CreateResult, error) {
	if len(requests) == 0 {
		return nil, fmt.Errorf("%w: at least one product is required", ErrValidation)
	}

	var result CreateResult
	err := e.store.InTx(ctx, func(tx Store) error {
		number, err := tx.NextInvoiceNumber(ctx)
		if err != nil {
			return err
		}
		result.InvoiceNumber = number

		var batch batchErrors
		seen := make(map[string]bool, len(requests))
		for _, req := range requests {
			if req.Quantity < 1 {
				batch.add(lineError(ErrValidation, req.ProductName, "quantity for %s must be at least 1", req.ProductName))
				continue
			}
			if seen[req.ProductName] {
				batch.add(lineError(ErrDuplicateLine, req.ProductName, "product %s is already added to the invoice", req.ProductName))
				continue
			}
			seen[req.ProductName] = true

			product, err := tx.ProductByName(ctx, req.ProductName)
			if err != nil {
				return err
			}
			if product == nil {
				batch.add(lineError(ErrNotFound, req.ProductName, "some products were not found, skipped"))
				continue
			}

			remaining := product.Quantity - req.Quantity
			if remaining < 0 {
				batch.add(lineError(ErrOutOfStock, req.ProductName, "some products are out of stock"))
				continue
			}

			line := InvoiceLine{
				InvoiceNumber: number,
				ProductName:   product.ProductName,
				Quantity:      req.Quantity,
				Mrp:           req.Mrp,
				NetRate:       req.NetRate,
				Discount:      req.Discount,
				Spl:           header.Spl,
				Gst:           header.Gst,
				Category:      req.Category,
				Name:          header.Name,
				Area:          header.Area,
				Date:          header.Date,
				PaymentMethod: header.PaymentMethod,
			}
			if err := tx.CreateLine(ctx, &line); err != nil {
				return err
			}
			if err := tx.UpdateProductQuantity(ctx, product.ID, remaining); err != nil {
				return err
			}
			result.Lines = append(result.Lines, line)
		}
		result.Errors = batch.list
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// EditLine resizes an existing line by addQty-minusQty and applies the given
// field updates, adjusting the product's stock by the opposite amount. The
// whole operation is all-or-nothing.
func (e *Engine) EditLine(ctx context.Context, invoiceNumber int, lineID uint, addQty, minusQty int, fields LineFields) (*InvoiceLine, error) {
	if invoiceNumber < 1 {
		return nil, fmt.Errorf("%w: invalid invoice number", ErrValidation)
	}
	if addQty < 0 || minusQty < 0 {
		return nil, fmt.Errorf("%w: quantity deltas must not be negative", ErrValidation)
	}

	var updated *InvoiceLine
	err := e.store.InTx(ctx, func(tx Store) error {
		line, err := tx.LineByID(ctx, invoiceNumber, lineID)
		if err != nil {
			return err
		}
		if line == nil {
			return fmt.Errorf("%w: line %d on invoice %d", ErrNotFound, lineID, invoiceNumber)
		}

		product, err := tx.ProductByName(ctx, line.ProductName)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: product %s", ErrNotFound, line.ProductName)
		}

		delta := addQty - minusQty
		newLineQty := line.Quantity + delta
		if newLineQty < 1 {
			return fmt.Errorf("%w: at least 1 item must remain on the line", ErrValidation)
		}
		if addQty > 0 && product.Quantity < addQty {
			return fmt.Errorf("%w: only %d items of %s in stock", ErrOutOfStock, product.Quantity, product.ProductName)
		}
		newStock := product.Quantity - delta
		if newStock < 0 {
			return fmt.Errorf("%w: not enough stock of %s to fulfill the request", ErrOutOfStock, product.ProductName)
		}

		if err := tx.UpdateProductQuantity(ctx, product.ID, newStock); err != nil {
			return err
		}

		updates := map[string]any{"quantity": newLineQty}
		applyLineFields(updates, fields)
		updated, err = tx.UpdateLine(ctx, line.ID, updates)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// HeaderPatch carries optional header overrides for lines added to an
// existing invoice. Unset fields fall back to the invoice's first line, then
// to the documented defaults.
type HeaderPatch struct {
	Name          *string
	Area          *string
	PaymentMethod *string
	Date          *time.Time
	Spl           *decimal.Decimal
	Discount      *decimal.Decimal
}

// AddLines books additional products against an existing invoice. A product
// already on the invoice is rejected with a DuplicateLine error. Pricing is
// snapshotted from the Product record; header fields are carried forward
// from an existing line when not overridden, defaulting paymentMethod to
// "CASH", gst to 18, spl and discount to 0 and date to now when the invoice
// has no line to copy from.
func (e *Engine) AddLines(ctx context.Context, invoiceNumber int, requests []LineRequest, patch HeaderPatch) (*AddResult, error) {
	if invoiceNumber < 1 {
		return nil, fmt.Errorf("%w: invalid invoice number", ErrValidation)
	}
	if len(requests) == 0 {
		return nil, fmt.Errorf("%w: at least one product is required", ErrValidation)
	}

	var result AddResult
	err := e.store.InTx(ctx, func(tx Store) error {
		existing, err := firstLine(ctx, tx, invoiceNumber)
		if err != nil {
			return err
		}

		var batch batchErrors
		for _, req := range requests {
			qty := req.Quantity
			if qty < 1 {
				qty = 1
			}

			product, err := tx.ProductByName(ctx, req.ProductName)
			if err != nil {
				return err
			}
			if product == nil {
				batch.add(lineError(ErrNotFound, req.ProductName, "product %s not found, skipped", req.ProductName))
				continue
			}

			already, err := tx.LineByProduct(ctx, invoiceNumber, req.ProductName)
			if err != nil {
				return err
			}
			if already != nil {
				batch.add(lineError(ErrDuplicateLine, req.ProductName, "product %s is already added to the invoice", req.ProductName))
				continue
			}

			if product.Quantity < qty {
				batch.add(lineError(ErrOutOfStock, req.ProductName, "not enough stock for %s, only %d items available", req.ProductName, product.Quantity))
				continue
			}

			line := InvoiceLine{
				InvoiceNumber: invoiceNumber,
				ProductName:   product.ProductName,
				Quantity:      qty,
				Mrp:           product.Mrp,
				NetRate:       product.NetRate,
				Category:      product.Category,
			}
			fillHeader(&line, existing, patch)
			if err := tx.CreateLine(ctx, &line); err != nil {
				return err
			}
			if err := tx.UpdateProductQuantity(ctx, product.ID, product.Quantity-qty); err != nil {
				return err
			}
			result.Lines = append(result.Lines, line)
		}
		result.Errors = batch.list
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RemoveLine deletes one line from an invoice and restores the product's
// stock. When the product record no longer exists the stock cannot be
// restored; the line is still deleted and the result reports Restocked=false.
func (e *Engine) RemoveLine(ctx context.Context, invoiceNumber int, lineID uint) (*RemoveResult, error) {
	if invoiceNumber < 1 {
		return nil, fmt.Errorf("%w: invalid invoice number", ErrValidation)
	}

	var result RemoveResult
	err := e.store.InTx(ctx, func(tx Store) error {
		line, err := tx.LineByID(ctx, invoiceNumber, lineID)
		if err != nil {
			return err
		}
		if line == nil {
			return fmt.Errorf("%w: line %d on invoice %d", ErrNotFound, lineID, invoiceNumber)
		}
		result.Line = *line

		product, err := tx.ProductByName(ctx, line.ProductName)
		if err != nil {
			return err
		}
		if product != nil {
			if err := tx.UpdateProductQuantity(ctx, product.ID, product.Quantity+line.Quantity); err != nil {
				return err
			}
			result.Restocked = true
		} else {
			e.logger.Warn("product missing during restock, stock not restored",
				zap.String("product", line.ProductName),
				zap.Int("invoice", invoiceNumber),
			)
		}

		return tx.DeleteLine(ctx, line.ID)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteInvoice restores stock for every line of the invoice and deletes all
// of its lines as one atomic operation. Deletion is refused outright when
// any referenced product is missing from the ledger.
func (e *Engine) DeleteInvoice(ctx context.Context, invoiceNumber int) error {
	if invoiceNumber < 1 {
		return fmt.Errorf("%w: invalid invoice number", ErrValidation)
	}

	return e.store.InTx(ctx, func(tx Store) error {
		lines, err := tx.LinesByInvoice(ctx, invoiceNumber)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return fmt.Errorf("%w: invoice %d", ErrNotFound, invoiceNumber)
		}

		var missing []string
		for _, line := range lines {
			product, err := tx.ProductByName(ctx, line.ProductName)
			if err != nil {
				return err
			}
			if product == nil {
				missing = append(missing, line.ProductName)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: cannot delete invoice %d, products no longer available: %v", ErrValidation, invoiceNumber, missing)
		}

		for _, line := range lines {
			product, err := tx.ProductByName(ctx, line.ProductName)
			if err != nil {
				return err
			}
			if err := tx.UpdateProductQuantity(ctx, product.ID, product.Quantity+line.Quantity); err != nil {
				return err
			}
		}

		_, err = tx.DeleteInvoiceLines(ctx, invoiceNumber)
		return err
	})
}

// AvailableProducts lists products not yet on the invoice whose name
// contains search, case-insensitively. Pure read, no mutation.
func (e *Engine) AvailableProducts(ctx context.Context, invoiceNumber int, search string) ([]Product, error) {
	if invoiceNumber < 1 {
		return nil, fmt.Errorf("%w: invalid invoice number", ErrValidation)
	}
	return e.store.ProductsNotOnInvoice(ctx, invoiceNumber, search)
}

func firstLine(ctx context.Context, tx Store, invoiceNumber int) (*InvoiceLine, error) {
	lines, err := tx.LinesByInvoice(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, nil
	}
	return &lines[0], nil
}

func fillHeader(line *InvoiceLine, existing *InvoiceLine, patch HeaderPatch) {
	line.PaymentMethod = "CASH"
	line.Gst = 18
	line.Date = time.Now()
	if existing != nil {
		line.PaymentMethod = existing.PaymentMethod
		line.Gst = existing.Gst
		line.Name = existing.Name
		line.Area = existing.Area
		line.Date = existing.Date
		line.Spl = existing.Spl
		line.Discount = existing.Discount
	}
	if patch.Name != nil {
		line.Name = *patch.Name
	}
	if patch.Area != nil {
		line.Area = *patch.Area
	}
	if patch.PaymentMethod != nil {
		line.PaymentMethod = *patch.PaymentMethod
	}
	if patch.Date != nil {
		line.Date = *patch.Date
	}
	if patch.Spl != nil {
		line.Spl = *patch.Spl
	}
	if patch.Discount != nil {
		line.Discount = *patch.Discount
	}
}

func applyLineFields(updates map[string]any, fields LineFields) {
	if fields.Name != nil {
		updates["name"] = *fields.Name
	}
	if fields.Area != nil {
		updates["area"] = *fields.Area
	}
	if fields.Date != nil {
		updates["date"] = *fields.Date
	}
	if fields.Discount != nil {
		updates["discount"] = *fields.Discount
	}
	if fields.Spl != nil {
		updates["spl"] = *fields.Spl
	}
	if fields.Mrp != nil {
		updates["mrp"] = *fields.Mrp
	}
}
