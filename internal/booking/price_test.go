package booking

import (
	"math"
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestQuote(t *testing.T) {
	cases := []struct {
		name  string
		rate  uint32
		start string
		end   string
		want  uint32
	}{
		{"three days", 100, "2024-01-01", "2024-01-04", 300},
		{"single day", 100, "2024-01-01", "2024-01-02", 100},
		{"week", 2500, "2024-03-01", "2024-03-08", 17500},
		{"across month boundary", 100, "2024-01-31", "2024-02-02", 200},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Quote(tc.rate, date(tc.start), date(tc.end))
			if err != nil {
				t.Fatalf("Quote: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Quote = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestQuotePartialDayRoundsUp(t *testing.T) {
	start := date("2024-01-01")
	end := start.Add(36 * time.Hour)
	got, err := Quote(100, start, end)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if got != 200 {
		t.Fatalf("Quote over 1.5 days = %d, want 200 (no proration)", got)
	}
}

func TestQuoteCostOverflow(t *testing.T) {
	// A far-future end date is a valid range shape, but its true cost can
	// exceed the 32-bit cost column. The quote must refuse it, never wrap.
	if _, err := Quote(150000, date("2024-01-01"), date("2324-01-01")); err != ErrRangeTooLong {
		t.Fatalf("300-year quote: err = %v, want ErrRangeTooLong", err)
	}

	// The boundary itself is fine: one day at the maximum rate is exactly
	// the largest storable cost.
	got, err := Quote(math.MaxUint32, date("2024-01-01"), date("2024-01-02"))
	if err != nil {
		t.Fatalf("Quote at boundary: %v", err)
	}
	if got != math.MaxUint32 {
		t.Fatalf("Quote = %d, want %d", got, uint32(math.MaxUint32))
	}

	// One more day tips the true product over the boundary.
	if _, err := Quote(math.MaxUint32, date("2024-01-01"), date("2024-01-03")); err != ErrRangeTooLong {
		t.Fatalf("err = %v, want ErrRangeTooLong", err)
	}
}

func TestQuoteInvalidRange(t *testing.T) {
	cases := []struct {
		name  string
		start string
		end   string
	}{
		{"end equals start", "2024-01-01", "2024-01-01"},
		{"end before start", "2024-01-04", "2024-01-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// An empty or inverted range is a validation error, never a
			// zero or negative cost.
			if _, err := Quote(100, date(tc.start), date(tc.end)); err != ErrInvalidDates {
				t.Fatalf("err = %v, want ErrInvalidDates", err)
			}
		})
	}
}
