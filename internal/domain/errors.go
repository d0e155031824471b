package domain

import "errors"

var (
	ErrCardNotFound  = errors.New("card not found")
	ErrCardInactive  = errors.New("card is not active")
	ErrOrderNotFound = errors.New("order not found")

	ErrCustomerRequired  = errors.New("customer_id is required")
	ErrRecipientRequired = errors.New("customer_email is required")
	ErrQuantityInvalid   = errors.New("quantity must be greater than zero")
	ErrStatusInvalid     = errors.New("unknown order status")
	ErrTransitionInvalid = errors.New("illegal status transition")
	ErrPhoneInvalid      = errors.New("phone number must match +999999999 with up to 15 digits")
)

// IsValidation reports whether err rejects the mutation intent itself,
// as opposed to a missing record or a storage failure.
func IsValidation(err error) bool {
	switch {
	case errors.Is(err, ErrCustomerRequired),
		errors.Is(err, ErrRecipientRequired),
		errors.Is(err, ErrQuantityInvalid),
		errors.Is(err, ErrStatusInvalid),
		errors.Is(err, ErrPhoneInvalid),
		errors.Is(err, ErrCardInactive):
		return true
	}
	return false
}
