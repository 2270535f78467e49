package errs

import "errors"

// Domain-specific sentinel errors shared by the usecase layers
var (
	// Price list / generation errors
	ErrPriceListNotFound = errors.New("price list not found")
	ErrInvalidDateRange  = errors.New("invalid date range")
	ErrCapacityConflict  = errors.New("capacity below existing usage")

	// Slot errors
	ErrSlotNotFound     = errors.New("slot not found")
	ErrSlotNotAvailable = errors.New("slot not available")

	// Booking errors
	ErrBookingNotFound      = errors.New("booking not found")
	ErrBookingNotCancelable = errors.New("booking cannot be cancelled")
	ErrBookingForbidden     = errors.New("booking belongs to another client")

	// Promo errors (one sentinel per rejection in the evaluation chain)
	ErrPromoNotFound            = errors.New("promo code not found")
	ErrPromoNotYetActive        = errors.New("promo code not yet active")
	ErrPromoExpired             = errors.New("promo code expired")
	ErrPromoOutOfScope          = errors.New("promo code out of scope")
	ErrPromoBelowMinimum        = errors.New("order amount below promo minimum")
	ErrPromoMaxUsesExceeded     = errors.New("promo code max uses exceeded")
	ErrPromoClientLimitExceeded = errors.New("promo code client limit exceeded")
	ErrPromoCurrencyMismatch    = errors.New("promo code currency mismatch")
	ErrPromoNotStackable        = errors.New("promo code not stackable")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrConcurrencyConflict     = errors.New("concurrent modification conflict")
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
