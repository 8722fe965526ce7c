package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/zipghana/rental-reservation/internal/model"
)

// BookingRepo provides CRUD operations for rental bookings. The total
// cost column is written once at creation and never updated: a booking
// owns its price snapshot, and later rate changes on the vehicle do not
// reach back into existing rows. All timestamp fields are stored in UTC.
type BookingRepo struct{ DB *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

const bookingColumns = "id,user_id,vehicle_id,start_date,end_date,total_cost_cents,status,pickup_location,notes,created_at,updated_at"

// Create inserts a new booking and populates the generated ID and
// timestamps on the provided record.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO bookings (user_id, vehicle_id, start_date, end_date, total_cost_cents, status, pickup_location, notes) VALUES (?,?,?,?,?,?,?,?)",
		b.UserID, b.VehicleID, b.StartDate.Format("2006-01-02"), b.EndDate.Format("2006-01-02"),
		b.TotalCostCents, b.Status, b.PickupLocation, b.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	stored, err := r.GetByID(ctx, b.ID)
	if err != nil {
		return err
	}
	*b = stored
	return nil
}

// GetByID fetches a booking by id. Returns ErrBookingNotFound when no
// row exists.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id=? LIMIT 1", id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return model.Booking{}, ErrBookingNotFound
	}
	if err != nil {
		return model.Booking{}, err
	}
	return b, nil
}

// ListByUser returns the user's bookings, newest first. When no
// bookings exist an empty slice is returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE user_id=? ORDER BY created_at DESC, id DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

// UpdateStatus advances a booking to the given status, but only when its
// current status is one of from. Like the vehicle claim, the transition
// is a single conditional UPDATE so concurrent lifecycle calls cannot
// both move the same booking. Zero affected rows is resolved into
// ErrBookingNotFound or ErrInvalidTransition by a follow-up probe.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, to string, from ...string) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(from)), ",")
	args := make([]interface{}, 0, len(from)+2)
	args = append(args, to, id)
	for _, f := range from {
		args = append(args, f)
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE bookings SET status=? WHERE id=? AND status IN ("+placeholders+")", args...)
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
	var current string
	err = r.DB.QueryRowContext(ctx, "SELECT status FROM bookings WHERE id=? LIMIT 1", id).Scan(&current)
	if err == sql.ErrNoRows {
		return ErrBookingNotFound
	}
	if err != nil {
		return err
	}
	return ErrInvalidTransition
}

// rowScanner lets scanBooking work for both QueryRow and Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (model.Booking, error) {
	var b model.Booking
	var start, end time.Time
	var notes sql.NullString
	err := row.Scan(
		&b.ID, &b.UserID, &b.VehicleID, &start, &end,
		&b.TotalCostCents, &b.Status, &b.PickupLocation, &notes,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return model.Booking{}, err
	}
	// DATE columns come back at midnight in the connection location;
	// the DSN pins loc=UTC so these are UTC midnights.
	b.StartDate = start.UTC()
	b.EndDate = end.UTC()
	if notes.Valid {
		n := notes.String
		b.Notes = &n
	}
	return b, nil
}
