// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers and the booking coordinator to distinguish between different
// failure scenarios without inspecting driver-specific errors. For
// example, ErrVehicleUnavailable signals that an atomic claim lost the
// race for a vehicle, while ErrForbidden indicates that the current user
// is not authorized to act on a booking owned by someone else.
package repository

import "errors"

// ErrEmailExists is returned when registering with an email address
// that already belongs to a user. Handlers translate this into 400.
var ErrEmailExists = errors.New("email already exists")

// ErrVehicleNotFound is returned when a vehicle ID does not reference
// an existing fleet vehicle. Handlers translate this into 404.
var ErrVehicleNotFound = errors.New("vehicle not found")

// ErrVehicleUnavailable is returned by TryClaim when the vehicle exists
// but is already held by another booking. This is a routine outcome
// under concurrent load, not a fault; handlers translate it into 400.
var ErrVehicleUnavailable = errors.New("vehicle is not available")

// ErrVehicleInUse is returned by Release when a pending or confirmed
// booking still holds the vehicle. Releasing it would let a second
// booking claim a vehicle that is already reserved; the booking must be
// cancelled or completed first. Handlers translate this into 409.
var ErrVehicleInUse = errors.New("vehicle has an active booking")

// ErrBookingNotFound is returned when a booking ID does not exist.
// Handlers translate this into 404.
var ErrBookingNotFound = errors.New("booking not found")

// ErrForbidden is returned when the caller attempts an operation on a
// booking they do not own. Handlers translate this into 403.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidTransition is returned when a booking status change is not
// permitted by the lifecycle (e.g. confirming a cancelled booking).
// Handlers translate this into 409.
var ErrInvalidTransition = errors.New("invalid status transition")
