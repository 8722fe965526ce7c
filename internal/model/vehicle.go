package model

import "time"

// RentalVehicle describes a vehicle in the rental fleet. Availability is a
// single flag: the vehicle supports at most one outstanding booking at a
// time regardless of the requested date range. IsAvailable is true exactly
// when no pending or confirmed booking holds the vehicle; the transition
// from available to unavailable happens only through the repository's
// atomic claim.
//
// Fields:
//  ID              – primary key identifier.
//  Make            – manufacturer (e.g. Toyota).
//  Model           – model name (e.g. Camry).
//  Year            – model year.
//  VehicleType     – body style (sedan, suv, van, ...).
//  LicensePlate    – unique registration plate.
//  Transmission    – Automatic or Manual.
//  FuelType        – Petrol, Diesel, Electric or Hybrid.
//  SeatingCapacity – number of passenger seats.
//  DailyRateCents  – rental price per day in cents; always positive.
//  IsAvailable     – availability flag contended for by booking requests.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type RentalVehicle struct {
	ID              uint64    // rental_vehicles.id
	Make            string    // rental_vehicles.make
	Model           string    // rental_vehicles.model
	Year            uint16    // rental_vehicles.year
	VehicleType     string    // rental_vehicles.vehicle_type
	LicensePlate    string    // rental_vehicles.license_plate
	Transmission    string    // rental_vehicles.transmission
	FuelType        string    // rental_vehicles.fuel_type
	SeatingCapacity uint8     // rental_vehicles.seating_capacity
	DailyRateCents  uint32    // rental_vehicles.daily_rate_cents
	IsAvailable     bool      // rental_vehicles.is_available
	CreatedAt       time.Time // rental_vehicles.created_at
	UpdatedAt       time.Time // rental_vehicles.updated_at
}
