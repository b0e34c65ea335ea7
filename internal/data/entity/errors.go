package entity

import "errors"

// Domain errors. Services return these (wrapped or bare) so handlers can
// map outcomes to HTTP statuses without string matching.
var (
	// Input errors
	ErrInvalidQuantity    = errors.New("quantity must be between 1 and the per-order maximum")
	ErrTicketTypeMismatch = errors.New("ticket type does not belong to this event")
	ErrMalformedCode      = errors.New("malformed ticket code")
	ErrValidation         = errors.New("validation failed")

	// Not-found errors
	ErrEventNotFound      = errors.New("event not found")
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrGroupNotFound      = errors.New("group not found")

	// Contention errors: expected outcomes under load, not bugs.
	ErrInsufficientInventory = errors.New("not enough tickets available")
	ErrTicketAlreadyUsed     = errors.New("ticket already used")

	// Auth errors
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already registered")
	ErrEmailTaken         = errors.New("email already registered")

	// State errors
	ErrEventUnavailable   = errors.New("event is not open for booking")
	ErrEventHasBookings   = errors.New("event has bookings and cannot be deleted")
	ErrBookingNotOwned    = errors.New("booking does not belong to this user")
	ErrTicketNotOwned     = errors.New("ticket does not belong to this user")
	ErrBookingFinal       = errors.New("booking is already cancelled or refunded")
	ErrNotEventHost       = errors.New("only the event host may do this")

	// Collaborator boundary: a row came back in a shape we cannot decode.
	ErrMalformedResponse = errors.New("malformed storage response")
)

// IsNotFound reports whether err represents a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrTicketTypeNotFound) ||
		errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrTicketNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrGroupNotFound)
}

// IsInput reports whether err was caused by bad caller input and carries
// no side effects.
func IsInput(err error) bool {
	return errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrTicketTypeMismatch) ||
		errors.Is(err, ErrMalformedCode) ||
		errors.Is(err, ErrValidation)
}

// IsConflict reports whether err is an expected contention or state
// conflict rather than a fault.
func IsConflict(err error) bool {
	return errors.Is(err, ErrInsufficientInventory) ||
		errors.Is(err, ErrTicketAlreadyUsed) ||
		errors.Is(err, ErrUsernameTaken) ||
		errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrEventUnavailable) ||
		errors.Is(err, ErrEventHasBookings) ||
		errors.Is(err, ErrBookingFinal)
}

// IsForbidden reports whether err is an ownership/permission rejection.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrBookingNotOwned) ||
		errors.Is(err, ErrTicketNotOwned) ||
		errors.Is(err, ErrNotEventHost)
}
