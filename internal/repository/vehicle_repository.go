package repository

import (
	"context"
	"database/sql"

	"github.com/zipghana/rental-reservation/internal/model"
)

// VehicleRepo persists the rental fleet and owns the availability flag.
// It is the single point of serialization for the available->unavailable
// transition: TryClaim is one conditional UPDATE, never a read followed
// by a write, so two concurrent booking attempts can never both observe
// an available vehicle and both proceed.
type VehicleRepo struct{ DB *sql.DB }

func NewVehicleRepo(db *sql.DB) *VehicleRepo { return &VehicleRepo{DB: db} }

const vehicleColumns = "id,make,model,year,vehicle_type,license_plate,transmission,fuel_type,seating_capacity,daily_rate_cents,is_available,created_at,updated_at"

// Create inserts a fleet vehicle and returns the stored record. New
// vehicles enter the fleet available.
func (r *VehicleRepo) Create(ctx context.Context, v *model.RentalVehicle) (model.RentalVehicle, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO rental_vehicles (make, model, year, vehicle_type, license_plate, transmission, fuel_type, seating_capacity, daily_rate_cents, is_available) VALUES (?,?,?,?,?,?,?,?,?,1)",
		v.Make, v.Model, v.Year, v.VehicleType, v.LicensePlate, v.Transmission, v.FuelType, v.SeatingCapacity, v.DailyRateCents)
	if err != nil {
		return model.RentalVehicle{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.RentalVehicle{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a vehicle by id. Returns ErrVehicleNotFound when no
// row exists.
func (r *VehicleRepo) GetByID(ctx context.Context, id uint64) (model.RentalVehicle, error) {
	var v model.RentalVehicle
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+vehicleColumns+" FROM rental_vehicles WHERE id=? LIMIT 1", id).Scan(
		&v.ID, &v.Make, &v.Model, &v.Year, &v.VehicleType, &v.LicensePlate,
		&v.Transmission, &v.FuelType, &v.SeatingCapacity, &v.DailyRateCents,
		&v.IsAvailable, &v.CreatedAt, &v.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return model.RentalVehicle{}, ErrVehicleNotFound
	}
	if err != nil {
		return model.RentalVehicle{}, err
	}
	return v, nil
}

// List returns fleet vehicles ordered by make and model. When
// availableOnly is true, vehicles currently claimed by a booking are
// filtered out.
func (r *VehicleRepo) List(ctx context.Context, availableOnly bool) ([]model.RentalVehicle, error) {
	q := "SELECT " + vehicleColumns + " FROM rental_vehicles"
	if availableOnly {
		q += " WHERE is_available=1"
	}
	q += " ORDER BY make, model, id"
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	vehicles := make([]model.RentalVehicle, 0)
	for rows.Next() {
		var v model.RentalVehicle
		if err := rows.Scan(
			&v.ID, &v.Make, &v.Model, &v.Year, &v.VehicleType, &v.LicensePlate,
			&v.Transmission, &v.FuelType, &v.SeatingCapacity, &v.DailyRateCents,
			&v.IsAvailable, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// TryClaim atomically transitions a vehicle from available to
// unavailable. The conditional UPDATE is the whole check: the database
// row lock guarantees that at most one caller observes RowsAffected==1
// for a given claim cycle. On a miss a follow-up existence probe
// distinguishes ErrVehicleUnavailable from ErrVehicleNotFound. Claims on
// different vehicles touch different rows and do not block each other.
func (r *VehicleRepo) TryClaim(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE rental_vehicles SET is_available=0 WHERE id=? AND is_available=1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	var exists int
	err = r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM rental_vehicles WHERE id=? LIMIT 1", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrVehicleNotFound
	}
	if err != nil {
		return err
	}
	return ErrVehicleUnavailable
}

// Release returns a vehicle to the available pool. Called when a booking
// is cancelled, when booking persistence fails after a successful claim
// (compensating release), or by a manager after a completed rental is
// handed back. The NOT EXISTS condition keeps the availability invariant:
// a vehicle with a live pending or confirmed booking cannot be released,
// so a manager release can never re-open a reserved vehicle for
// double booking. Both legitimate release paths pass the condition: a
// cancelled booking is no longer active, and a failed persistence left
// no booking row at all.
func (r *VehicleRepo) Release(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE rental_vehicles SET is_available=1
		 WHERE id=? AND NOT EXISTS (
		     SELECT 1 FROM bookings WHERE vehicle_id=? AND status IN (?,?))`,
		id, id, model.BookingStatusPending, model.BookingStatusConfirmed)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	// Zero rows: unknown id, blocked by an active booking, or an
	// already-available no-op. Two probes tell them apart.
	var exists int
	err = r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM rental_vehicles WHERE id=? LIMIT 1", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrVehicleNotFound
	}
	if err != nil {
		return err
	}
	var active int
	err = r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings WHERE vehicle_id=? AND status IN (?,?)",
		id, model.BookingStatusPending, model.BookingStatusConfirmed).Scan(&active)
	if err != nil {
		return err
	}
	if active > 0 {
		return ErrVehicleInUse
	}
	return nil
}
