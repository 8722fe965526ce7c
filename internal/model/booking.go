package model

import "time"

// Booking statuses. A booking starts as pending and either advances
// pending -> confirmed -> completed or is cancelled from pending or
// confirmed. Completed and cancelled are terminal. Cancellation always
// releases the underlying vehicle.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Booking records a user's reservation of a rental vehicle for a date
// range. TotalCostCents is computed once at creation from the vehicle's
// daily rate and is never recomputed: later rate changes on the vehicle
// do not alter existing bookings.
//
// Fields:
//  ID             – primary key identifier.
//  UserID         – user who reserved the vehicle.
//  VehicleID      – vehicle being reserved.
//  StartDate      – first rental day (calendar date, UTC midnight).
//  EndDate        – day the vehicle is returned; strictly after StartDate.
//  TotalCostCents – price snapshot taken at creation.
//  Status         – one of the BookingStatus* constants.
//  PickupLocation – where the customer collects the vehicle.
//  Notes          – optional free-form notes (nullable).
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Booking struct {
	ID             uint64    // bookings.id
	UserID         uint64    // bookings.user_id
	VehicleID      uint64    // bookings.vehicle_id
	StartDate      time.Time // bookings.start_date
	EndDate        time.Time // bookings.end_date
	TotalCostCents uint32    // bookings.total_cost_cents
	Status         string    // bookings.status
	PickupLocation string    // bookings.pickup_location
	Notes          *string   // bookings.notes (nullable)
	CreatedAt      time.Time // bookings.created_at
	UpdatedAt      time.Time // bookings.updated_at
}
