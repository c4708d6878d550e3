package service

import "errors"

var (
	// ErrMissingPickup is returned when a trip request has no pickup location.
	ErrMissingPickup = errors.New("pickup location is required")

	// ErrMissingDestination is returned when a trip request has no destination.
	ErrMissingDestination = errors.New("destination location is required")

	// ErrInvalidCoordinates is returned when a location is outside valid lat/lng bounds.
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	// ErrInvalidTripType is returned when the trip type is not a known value.
	ErrInvalidTripType = errors.New("invalid trip type")

	// ErrInvalidTripID is returned when the trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidFareInput is returned when distance or duration is negative.
	ErrInvalidFareInput = errors.New("distance and duration must be non-negative")

	// ErrTripNotCancellable is returned when a trip is in a state that cannot be cancelled.
	ErrTripNotCancellable = errors.New("trip cannot be cancelled in current state")

	// ErrTripNotMatched is returned when starting a trip that has no driver yet.
	ErrTripNotMatched = errors.New("trip not matched")

	// ErrTripNotInProgress is returned when completing a trip that is not underway.
	ErrTripNotInProgress = errors.New("trip not in progress")

	// ErrInvalidAmount is returned when a monetary amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientBalance is returned when a debit exceeds the wallet balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrWalletBusy is returned when the wallet mutation lock is held elsewhere.
	ErrWalletBusy = errors.New("wallet is busy, retry shortly")

	// ErrPaymentFailed is returned when the payment gateway declines a charge.
	ErrPaymentFailed = errors.New("payment failed")

	// ErrInvalidCredential is returned when a mobile money PIN fails validation.
	ErrInvalidCredential = errors.New("invalid pin")

	// ErrInvalidPaymentMethod is returned when a payment method kind is unknown.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrInvalidPeriod is returned when a summary period is not week, month or year.
	ErrInvalidPeriod = errors.New("invalid summary period")

	// ErrUnknownTransactionRef is returned when confirming an unknown mobile money charge.
	ErrUnknownTransactionRef = errors.New("unknown transaction reference")
)
