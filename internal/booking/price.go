// Package booking contains the reservation coordinator and pricing logic
// for rental bookings. The coordinator is the only writer of bookings
// and the only caller of the vehicle claim, so the pairing invariant
// (claimed vehicle <=> live booking) is enforced in one place.
package booking

import (
	"errors"
	"math"
	"time"
)

// ErrInvalidDates is returned when a requested range does not satisfy
// end > start. A zero-length range is a validation error, never a
// zero-cost booking.
var ErrInvalidDates = errors.New("end_date must be after start_date")

// ErrRangeTooLong is returned when the total cost of the requested
// range does not fit the stored cost column.
var ErrRangeTooLong = errors.New("rental period is too long")

// Quote computes the total cost of renting a vehicle at dailyRateCents
// for the half-open range [start, end). The day count is the ceiling of
// the elapsed time in days and is always at least 1. No partial-day
// proration. The product is computed in 64 bits; a range whose true
// cost exceeds the 32-bit cost column yields ErrRangeTooLong instead
// of a silently wrapped total.
func Quote(dailyRateCents uint32, start, end time.Time) (uint32, error) {
	if !end.After(start) {
		return 0, ErrInvalidDates
	}
	d := end.Sub(start)
	days := uint64(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	total := days * uint64(dailyRateCents)
	if total > math.MaxUint32 {
		return 0, ErrRangeTooLong
	}
	return uint32(total), nil
}
