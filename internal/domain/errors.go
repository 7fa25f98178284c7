package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrCartEmpty         = errors.New("cart is empty")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrOutOfStock        = errors.New("product is out of stock")
	ErrUnknownProduct    = errors.New("product is not in the catalog")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNoRemoteCart      = errors.New("remote cart not found")
	ErrCatalogNotReady   = errors.New("catalog is not loaded yet")
	ErrProductNotFound   = errors.New("product not found")
	ErrBusy              = errors.New("cart operation already in flight")
)

// InsufficientStockError names the first order line that exceeded the
// available stock.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("product[%s] requested %d, available %d: %s", e.ProductID, e.Requested, e.Available, ErrInsufficientStock)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

type ErrorClass int

const (
	ClassNone ErrorClass = iota
	// ClassValidation is rejected locally without a remote call.
	ClassValidation
	// ClassTransient covers network and service failures of the remote store.
	ClassTransient
	// ClassBusinessRule is user-actionable, e.g. reduce quantity.
	ClassBusinessRule
	// ClassIdentity redirects to the authentication flow.
	ClassIdentity
	// ClassDeferred is an action dropped or postponed locally; nothing failed.
	ClassDeferred
)

func (c ErrorClass) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassValidation:
		return "validation"
	case ClassTransient:
		return "transient"
	case ClassBusinessRule:
		return "business_rule"
	case ClassIdentity:
		return "identity"
	case ClassDeferred:
		return "deferred"
	default:
		return "unknown"
	}
}

func Classify(err error) ErrorClass {
	switch {
	case err == nil:
		return ClassNone
	case errors.Is(err, ErrNotAuthenticated):
		return ClassIdentity
	case errors.Is(err, ErrBusy), errors.Is(err, ErrCatalogNotReady):
		return ClassDeferred
	case errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrOutOfStock):
		return ClassBusinessRule
	case errors.Is(err, ErrCartEmpty), errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrUnknownProduct):
		return ClassValidation
	default:
		return ClassTransient
	}
}

// Message is the shopper-facing text for err.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotAuthenticated):
		return "Log in to proceed."
	case errors.Is(err, ErrCartEmpty):
		return "Cart is empty."
	case errors.Is(err, ErrInsufficientStock):
		return "Order failed: Not enough stock."
	case errors.Is(err, ErrOutOfStock):
		return "This product is out of stock."
	case errors.Is(err, ErrUnknownProduct):
		return "This product is no longer available."
	case errors.Is(err, ErrInvalidQuantity):
		return "Quantity must be positive."
	case errors.Is(err, ErrBusy):
		return "Your cart is updating."
	case errors.Is(err, ErrCatalogNotReady):
		return "Products are still loading."
	default:
		return "Something went wrong. Please try again."
	}
}
