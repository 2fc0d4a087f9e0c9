package reconcile

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// memStore is an in-memory Store used to exercise the engine logic without a
// database. InTx serializes callers and restores a snapshot on error, giving
// the same atomicity guarantees as the gorm implementation.
type memStore struct {
	mu         sync.Mutex
	products   map[uint]Product
	lines      map[uint]InvoiceLine
	nextProdID uint
	nextLineID uint
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[uint]Product),
		lines:    make(map[uint]InvoiceLine),
	}
}

func (s *memStore) addProduct(p Product) Product {
	s.nextProdID++
	p.ID = s.nextProdID
	s.products[p.ID] = p
	return p
}

func (s *memStore) InTx(ctx context.Context, fn func(Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapProducts := make(map[uint]Product, len(s.products))
	for k, v := range s.products {
		snapProducts[k] = v
	}
	snapLines := make(map[uint]InvoiceLine, len(s.lines))
	for k, v := range s.lines {
		snapLines[k] = v
	}
	snapProdID, snapLineID := s.nextProdID, s.nextLineID

	if err := fn(s); err != nil {
		s.products = snapProducts
		s.lines = snapLines
		s.nextProdID, s.nextLineID = snapProdID, snapLineID
		return err
	}
	return nil
}

func (s *memStore) ProductByName(ctx context.Context, name string) (*Product, error) {
	for _, p := range s.products {
		if p.ProductName == name {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) ProductByID(ctx context.Context, id uint) (*Product, error) {
	if p, ok := s.products[id]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

func (s *memStore) UpdateProductQuantity(ctx context.Context, id uint, quantity int) error {
	p := s.products[id]
	p.Quantity = quantity
	s.products[id] = p
	return nil
}

func (s *memStore) CreateLine(ctx context.Context, line *InvoiceLine) error {
	s.nextLineID++
	line.ID = s.nextLineID
	s.lines[line.ID] = *line
	return nil
}

func (s *memStore) LineByID(ctx context.Context, invoiceNumber int, id uint) (*InvoiceLine, error) {
	if l, ok := s.lines[id]; ok && l.InvoiceNumber == invoiceNumber {
		cp := l
		return &cp, nil
	}
	return nil, nil
}

func (s *memStore) LineByProduct(ctx context.Context, invoiceNumber int, productName string) (*InvoiceLine, error) {
	for _, l := range s.lines {
		if l.InvoiceNumber == invoiceNumber && l.ProductName == productName {
			cp := l
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) LinesByInvoice(ctx context.Context, invoiceNumber int) ([]InvoiceLine, error) {
	var out []InvoiceLine
	for _, l := range s.lines {
		if l.InvoiceNumber == invoiceNumber {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) UpdateLine(ctx context.Context, id uint, fields map[string]any) (*InvoiceLine, error) {
	l := s.lines[id]
	for col, val := range fields {
		switch col {
		case "quantity":
			l.Quantity = val.(int)
		case "name":
			l.Name = val.(string)
		case "area":
			l.Area = val.(string)
		case "date":
			l.Date = val.(time.Time)
		case "discount":
			l.Discount = val.(decimal.Decimal)
		case "spl":
			l.Spl = val.(decimal.Decimal)
		case "mrp":
			l.Mrp = val.(decimal.Decimal)
		}
	}
	s.lines[id] = l
	cp := l
	return &cp, nil
}

func (s *memStore) DeleteLine(ctx context.Context, id uint) error {
	delete(s.lines, id)
	return nil
}

func (s *memStore) DeleteInvoiceLines(ctx context.Context, invoiceNumber int) (int64, error) {
	var count int64
	for id, l := range s.lines {
		if l.InvoiceNumber == invoiceNumber {
			delete(s.lines, id)
			count++
		}
	}
	return count, nil
}

func (s *memStore) NextInvoiceNumber(ctx context.Context) (int, error) {
	max := 0
	for _, l := range s.lines {
		if l.InvoiceNumber > max {
			max = l.InvoiceNumber
		}
	}
	return max + 1, nil
}

func (s *memStore) ProductsNotOnInvoice(ctx context.Context, invoiceNumber int, search string) ([]Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	taken := make(map[string]bool)
	for _, l := range s.lines {
		if l.InvoiceNumber == invoiceNumber {
			taken[l.ProductName] = true
		}
	}

	var out []Product
	for _, p := range s.products {
		if taken[p.ProductName] {
			continue
		}
		if strings.Contains(strings.ToLower(p.ProductName), strings.ToLower(search)) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
