package service

import (
	"errors"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrOrderSubmission    = errors.New("order submission failed")
	ErrOrderFetch         = errors.New("order could not be retrieved")
	ErrMissingOrderID     = errors.New("order id is missing")
	ErrOrderNotFound      = errors.New("order not found")
	ErrCheckoutInProgress = errors.New("checkout already in progress for this cart")
	ErrItemNotFound       = errors.New("product not found")
	ErrOutOfStock         = errors.New("product is out of stock")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

// SubmissionError carries the backend's explanation for a failed order.
// It matches ErrOrderSubmission with errors.Is.
type SubmissionError struct {
	// Message is safe to show to the cashier
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	return ErrOrderSubmission.Error() + ": " + e.Message
}

func (e *SubmissionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrOrderSubmission}
	}
	return []error{ErrOrderSubmission, e.Err}
}
