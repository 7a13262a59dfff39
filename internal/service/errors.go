package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Business errors surfaced to handlers. All of them are recoverable at the
// caller: the user can correct the input and resubmit.
var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrSaleNotFound     = errors.New("sale not found")
	ErrUserNotFound     = errors.New("user not found")

	ErrSaleAlreadyVoided  = errors.New("sale is already voided")
	ErrPaymentDeclined    = errors.New("payment was declined")
	ErrSaleNumberConflict = errors.New("could not allocate a unique sale number")

	ErrCategoryInUse = errors.New("category has products and cannot be deleted")
	ErrProductInUse  = errors.New("product has sales and cannot be deleted")
	ErrCustomerInUse = errors.New("customer has sales and cannot be deleted")

	ErrDuplicateCode     = errors.New("product code already exists")
	ErrDuplicateName     = errors.New("category name already exists")
	ErrDuplicateDocument = errors.New("document number already exists")

	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError reports one malformed input field.
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: field '%s' failed on rule '%s'", e.Field, e.Rule)
}

// InsufficientStockError names the offending product and what was available
// when a sale asked for more units than the shelf holds.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product '%s': requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}
