package store

import "errors"

// Validation and authorization sentinels. Handlers map these to 4xx
// responses; anything else from the store is treated as a persistence
// failure. All of them are checked before the first write of an operation.
var (
	// ErrMileageOrder is returned when a recorded mileage would move the
	// odometer backwards (departure below the vehicle's current reading,
	// or arrival below departure).
	ErrMileageOrder = errors.New("mileage must not be lower than the previous reading")

	// ErrSubmissionWindowClosed is returned when a departure is recorded
	// at or after the daily cutoff hour.
	ErrSubmissionWindowClosed = errors.New("departure submissions are closed for today")

	// ErrDriverNameRequired is returned when a departure is recorded
	// without a driver name.
	ErrDriverNameRequired = errors.New("driver name is required")

	// ErrInvalidRefueling is returned when a refueling entry has
	// non-positive liters, a negative amount, or an unknown fuel type.
	ErrInvalidRefueling = errors.New("invalid refueling")

	// ErrLastAdmin is returned when a role change would leave the system
	// without any admin.
	ErrLastAdmin = errors.New("cannot demote the last remaining admin")

	// ErrEmptyReason is returned when a user deletion is requested without
	// a reason for the audit record.
	ErrEmptyReason = errors.New("a reason is required")

	// ErrNotAllowed is returned when the acting role may not perform the
	// requested mutation.
	ErrNotAllowed = errors.New("not allowed")
)
