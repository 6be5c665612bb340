package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to API callers. Operations wrap these with
// entity-specific messages; callers match with errors.Is.
var (
	ErrInvalid      = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already registered")
	ErrUnauthorized = errors.New("bad credentials")
	ErrForbidden    = errors.New("insufficient credentials")
	ErrInternal     = errors.New("internal error")
)

// InsufficientStockError reports a reservation that exceeds the
// product's available stock.
type InsufficientStockError struct {
	Product   string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("product %q exceeds available stock: requested %d, available %d",
		e.Product, e.Requested, e.Available)
}

// IsInsufficientStock reports whether err carries an
// InsufficientStockError and returns it when so.
func IsInsufficientStock(err error) (*InsufficientStockError, bool) {
	var ise *InsufficientStockError
	if errors.As(err, &ise) {
		return ise, true
	}
	return nil, false
}
