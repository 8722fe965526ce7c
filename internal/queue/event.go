// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names used for booking lifecycle events. Queues are declared
// durable by both publisher and consumer so declaration is idempotent
// regardless of which side starts first.
const (
	BookingCreatedQueue   = "booking.created"
	BookingCancelledQueue = "booking.cancelled"
)

// BookingCreatedEvent is published after a booking has been persisted.
// It contains enough information for downstream consumers to log, notify
// or trigger analytics without querying the primary database.
type BookingCreatedEvent struct {
	BookingID      uint64 `json:"booking_id"`
	UserID         uint64 `json:"user_id"`
	VehicleID      uint64 `json:"vehicle_id"`
	Vehicle        string `json:"vehicle"` // "Make Model (plate)"
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	TotalCostCents uint32 `json:"total_cost_cents"`
	PickupLocation string `json:"pickup_location"`
	CreatedAt      string `json:"created_at"`
}

// BookingCancelledEvent is published after a booking has been cancelled
// and its vehicle released back to the fleet.
type BookingCancelledEvent struct {
	BookingID   uint64 `json:"booking_id"`
	UserID      uint64 `json:"user_id"`
	VehicleID   uint64 `json:"vehicle_id"`
	CancelledAt string `json:"cancelled_at"`
}
