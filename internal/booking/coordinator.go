package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/zipghana/rental-reservation/internal/model"
	"github.com/zipghana/rental-reservation/internal/repository"
)

// ErrPickupRequired is returned when a booking request carries no
// pickup location.
var ErrPickupRequired = errors.New("pickup_location is required")

// VehicleStore is the slice of the vehicle repository the coordinator
// needs. TryClaim must be atomic with respect to all other claims and
// releases on the same vehicle: at most one caller may transition a
// vehicle from available to unavailable per claim cycle.
type VehicleStore interface {
	GetByID(ctx context.Context, id uint64) (model.RentalVehicle, error)
	TryClaim(ctx context.Context, id uint64) error
	Release(ctx context.Context, id uint64) error
}

// BookingStore persists booking records and their status transitions.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (model.Booking, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	UpdateStatus(ctx context.Context, id uint64, to string, from ...string) error
}

// Coordinator orchestrates booking creation and lifecycle. Creation
// follows a strict contract: validate with no side effects, claim the
// vehicle atomically, price, persist. A persistence failure after a
// successful claim triggers a compensating release so the claim and the
// booking record never diverge.
type Coordinator struct {
	Vehicles VehicleStore
	Bookings BookingStore
}

// NewCoordinator constructs a Coordinator and panics if a store is nil.
func NewCoordinator(vehicles VehicleStore, bookings BookingStore) *Coordinator {
	if vehicles == nil || bookings == nil {
		panic("nil store passed to NewCoordinator")
	}
	return &Coordinator{Vehicles: vehicles, Bookings: bookings}
}

// CreateRequest carries the validated-by-shape inputs for a booking.
// Dates are calendar dates; the coordinator ignores any time-of-day
// component by truncating to UTC midnight.
type CreateRequest struct {
	UserID         uint64
	VehicleID      uint64
	StartDate      time.Time
	EndDate        time.Time
	PickupLocation string
	Notes          *string
}

// utcMidnight truncates a timestamp to its calendar date in UTC.
func utcMidnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Create reserves a vehicle for the requesting user.
//
// Contract, in order:
//  1. Input validation fails fast with ErrInvalidDates or
//     ErrPickupRequired before any storage mutation.
//  2. The vehicle is claimed atomically; repository.ErrVehicleNotFound
//     and repository.ErrVehicleUnavailable pass through unchanged, and
//     an unavailable vehicle leaves no partial state behind.
//  3. Only after a successful claim is the total cost computed from the
//     vehicle's current daily rate and the pending booking persisted.
//  4. If persistence fails, the claim is released before the error is
//     surfaced, so the caller never sees a claimed vehicle with no
//     booking.
func (co *Coordinator) Create(ctx context.Context, req CreateRequest) (model.Booking, error) {
	start := utcMidnight(req.StartDate)
	end := utcMidnight(req.EndDate)
	if !end.After(start) {
		return model.Booking{}, ErrInvalidDates
	}
	if strings.TrimSpace(req.PickupLocation) == "" {
		return model.Booking{}, ErrPickupRequired
	}

	// Existence check doubles as the rate lookup. The rate read here is
	// the one the quote uses: a rate change landing between this read and
	// the claim prices the booking at the value read.
	vehicle, err := co.Vehicles.GetByID(ctx, req.VehicleID)
	if err != nil {
		return model.Booking{}, err
	}

	if err := co.Vehicles.TryClaim(ctx, req.VehicleID); err != nil {
		return model.Booking{}, err
	}

	total, err := Quote(vehicle.DailyRateCents, start, end)
	if err != nil {
		// A range too long to price fails here; the claim must never
		// outlive a failed creation path.
		co.release(req.VehicleID)
		return model.Booking{}, err
	}

	b := model.Booking{
		UserID:         req.UserID,
		VehicleID:      req.VehicleID,
		StartDate:      start,
		EndDate:        end,
		TotalCostCents: total,
		Status:         model.BookingStatusPending,
		PickupLocation: strings.TrimSpace(req.PickupLocation),
		Notes:          req.Notes,
	}
	if err := co.Bookings.Create(ctx, &b); err != nil {
		co.release(req.VehicleID)
		return model.Booking{}, fmt.Errorf("persist booking: %w", err)
	}
	return b, nil
}

// GetForUser loads a booking and enforces ownership. Managers bypass
// the ownership check.
func (co *Coordinator) GetForUser(ctx context.Context, bookingID, userID uint64, manager bool) (model.Booking, error) {
	b, err := co.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return model.Booking{}, err
	}
	if !manager && b.UserID != userID {
		return model.Booking{}, repository.ErrForbidden
	}
	return b, nil
}

// ListForUser returns the user's bookings, newest first.
func (co *Coordinator) ListForUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return co.Bookings.ListByUser(ctx, userID)
}

// Cancel moves a pending or confirmed booking to cancelled and releases
// the vehicle. Only the booking's owner or a manager may cancel.
// Cancelled is terminal; cancelling twice yields
// repository.ErrInvalidTransition.
func (co *Coordinator) Cancel(ctx context.Context, bookingID, userID uint64, manager bool) (model.Booking, error) {
	b, err := co.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return model.Booking{}, err
	}
	if !manager && b.UserID != userID {
		return model.Booking{}, repository.ErrForbidden
	}
	if err := co.Bookings.UpdateStatus(ctx, bookingID, model.BookingStatusCancelled,
		model.BookingStatusPending, model.BookingStatusConfirmed); err != nil {
		return model.Booking{}, err
	}
	// The booking is cancelled even if the release fails; the release is
	// retried by the manager's explicit vehicle release endpoint.
	if err := co.Vehicles.Release(ctx, b.VehicleID); err != nil {
		log.Printf("booking %d cancelled but vehicle %d release failed: %v", bookingID, b.VehicleID, err)
	}
	return co.Bookings.GetByID(ctx, bookingID)
}

// Confirm advances a pending booking to confirmed.
func (co *Coordinator) Confirm(ctx context.Context, bookingID uint64) (model.Booking, error) {
	if err := co.Bookings.UpdateStatus(ctx, bookingID, model.BookingStatusConfirmed,
		model.BookingStatusPending); err != nil {
		return model.Booking{}, err
	}
	return co.Bookings.GetByID(ctx, bookingID)
}

// Complete advances a confirmed booking to completed. Completed is
// terminal and does not release the vehicle: the handback to the fleet
// is an explicit manager action once the vehicle is inspected.
func (co *Coordinator) Complete(ctx context.Context, bookingID uint64) (model.Booking, error) {
	if err := co.Bookings.UpdateStatus(ctx, bookingID, model.BookingStatusCompleted,
		model.BookingStatusConfirmed); err != nil {
		return model.Booking{}, err
	}
	return co.Bookings.GetByID(ctx, bookingID)
}

// release performs a compensating release with a background context so
// an already-cancelled request context cannot leave the vehicle claimed.
func (co *Coordinator) release(vehicleID uint64) {
	if err := co.Vehicles.Release(context.Background(), vehicleID); err != nil {
		log.Printf("compensating release of vehicle %d failed: %v", vehicleID, err)
	}
}
