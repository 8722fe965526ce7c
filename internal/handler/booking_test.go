package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zipghana/rental-reservation/internal/booking"
	"github.com/zipghana/rental-reservation/internal/model"
	"github.com/zipghana/rental-reservation/internal/repository"
)

// In-memory stores backing the coordinator for handler tests. Claim and
// release are serialized by a mutex, matching the atomicity contract of
// the SQL repository.

type fakeVehicleStore struct {
	mu       sync.Mutex
	vehicles map[uint64]model.RentalVehicle
}

func (s *fakeVehicleStore) GetByID(ctx context.Context, id uint64) (model.RentalVehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vehicles[id]
	if !ok {
		return model.RentalVehicle{}, repository.ErrVehicleNotFound
	}
	return v, nil
}

func (s *fakeVehicleStore) TryClaim(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vehicles[id]
	if !ok {
		return repository.ErrVehicleNotFound
	}
	if !v.IsAvailable {
		return repository.ErrVehicleUnavailable
	}
	v.IsAvailable = false
	s.vehicles[id] = v
	return nil
}

func (s *fakeVehicleStore) Release(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vehicles[id]
	if !ok {
		return repository.ErrVehicleNotFound
	}
	v.IsAvailable = true
	s.vehicles[id] = v
	return nil
}

type fakeBookingStore struct {
	mu       sync.Mutex
	nextID   uint64
	bookings map[uint64]model.Booking
}

func (s *fakeBookingStore) Create(ctx context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nextID == 0 {
		s.nextID = 1
	}
	b.ID = s.nextID
	s.nextID++
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	s.bookings[b.ID] = *b
	return nil
}

func (s *fakeBookingStore) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return model.Booking{}, repository.ErrBookingNotFound
	}
	return b, nil
}

func (s *fakeBookingStore) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Booking
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeBookingStore) UpdateStatus(ctx context.Context, id uint64, to string, from ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return repository.ErrBookingNotFound
	}
	for _, f := range from {
		if b.Status == f {
			b.Status = to
			b.UpdatedAt = time.Now().UTC()
			s.bookings[id] = b
			return nil
		}
	}
	return repository.ErrInvalidTransition
}

func newBookingFixture() (*BookingHandler, *fakeVehicleStore, *fakeBookingStore) {
	vehicles := &fakeVehicleStore{vehicles: map[uint64]model.RentalVehicle{
		7: {
			ID:             7,
			Make:           "Toyota",
			Model:          "Corolla",
			Year:           2021,
			VehicleType:    "sedan",
			LicensePlate:   "GR-1234-21",
			DailyRateCents: 15000,
			IsAvailable:    true,
		},
	}}
	bookings := &fakeBookingStore{bookings: map[uint64]model.Booking{}}
	h := NewBookingHandler(booking.NewCoordinator(vehicles, bookings))
	h.PublishEvents = false
	return h, vehicles, bookings
}

// bookingCtx builds an echo context carrying the identity the JWT
// middleware would have set.
func bookingCtx(method, path, body string, userID uint64, role string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("role", role)
	return c, rec
}

func createBooking(t *testing.T, h *BookingHandler, userID uint64) bookingResp {
	t.Helper()
	c, rec := bookingCtx(http.MethodPost, "/v1/rentals/bookings",
		`{"vehicle_id":7,"start_date":"2026-09-01","end_date":"2026-09-04","pickup_location":"Accra Mall"}`,
		userID, model.RoleCustomer)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("create booking: status = %d, want 201; body %s", rec.Code, rec.Body)
	}
	var resp bookingResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestCreateBookingEndpoint(t *testing.T) {
	h, vehicles, _ := newBookingFixture()
	resp := createBooking(t, h, 3)

	if resp.Status != model.BookingStatusPending {
		t.Errorf("status = %q, want pending", resp.Status)
	}
	// 3 rental days at 15000 cents.
	if resp.TotalCostCents != 45000 {
		t.Errorf("total_cost_cents = %d, want 45000", resp.TotalCostCents)
	}
	if v := vehicles.vehicles[7]; v.IsAvailable {
		t.Error("vehicle still marked available after booking")
	}

	// The same vehicle cannot be booked again while claimed.
	c, rec := bookingCtx(http.MethodPost, "/v1/rentals/bookings",
		`{"vehicle_id":7,"start_date":"2026-09-10","end_date":"2026-09-12","pickup_location":"Kumasi"}`,
		4, model.RoleCustomer)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("double booking: status = %d, want 400; body %s", rec.Code, rec.Body)
	}
}

func TestCreateBookingEndpointRejects(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"unknown vehicle", `{"vehicle_id":99,"start_date":"2026-09-01","end_date":"2026-09-04","pickup_location":"Accra"}`, http.StatusNotFound},
		{"end before start", `{"vehicle_id":7,"start_date":"2026-09-04","end_date":"2026-09-01","pickup_location":"Accra"}`, http.StatusBadRequest},
		{"malformed date", `{"vehicle_id":7,"start_date":"09/01/2026","end_date":"2026-09-04","pickup_location":"Accra"}`, http.StatusBadRequest},
		{"missing pickup", `{"vehicle_id":7,"start_date":"2026-09-01","end_date":"2026-09-04"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, vehicles, _ := newBookingFixture()
			c, rec := bookingCtx(http.MethodPost, "/v1/rentals/bookings", tc.body, 3, model.RoleCustomer)
			if err := h.Create(c); err != nil {
				t.Fatalf("Create returned error: %v", err)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d; body %s", rec.Code, tc.wantCode, rec.Body)
			}
			if v := vehicles.vehicles[7]; !v.IsAvailable {
				t.Error("rejected booking left the vehicle claimed")
			}
		})
	}
}

func TestGetBookingOwnership(t *testing.T) {
	h, _, _ := newBookingFixture()
	created := createBooking(t, h, 3)
	path := fmt.Sprintf("/v1/rentals/bookings/%d", created.ID)

	get := func(userID uint64, role string) *httptest.ResponseRecorder {
		c, rec := bookingCtx(http.MethodGet, path, "", userID, role)
		c.SetParamNames("id")
		c.SetParamValues(fmt.Sprint(created.ID))
		if err := h.Get(c); err != nil {
			t.Fatalf("Get returned error: %v", err)
		}
		return rec
	}

	if rec := get(3, model.RoleCustomer); rec.Code != http.StatusOK {
		t.Fatalf("owner get: status = %d, want 200", rec.Code)
	}
	if rec := get(4, model.RoleCustomer); rec.Code != http.StatusForbidden {
		t.Fatalf("stranger get: status = %d, want 403", rec.Code)
	}
	if rec := get(4, model.RoleRentalManager); rec.Code != http.StatusOK {
		t.Fatalf("manager get: status = %d, want 200", rec.Code)
	}
}

func TestCancelBookingEndpoint(t *testing.T) {
	h, vehicles, _ := newBookingFixture()
	created := createBooking(t, h, 3)

	cancel := func(userID uint64, role string) *httptest.ResponseRecorder {
		c, rec := bookingCtx(http.MethodPost, "/cancel", "", userID, role)
		c.SetParamNames("id")
		c.SetParamValues(fmt.Sprint(created.ID))
		if err := h.Cancel(c); err != nil {
			t.Fatalf("Cancel returned error: %v", err)
		}
		return rec
	}

	if rec := cancel(4, model.RoleCustomer); rec.Code != http.StatusForbidden {
		t.Fatalf("stranger cancel: status = %d, want 403", rec.Code)
	}
	rec := cancel(3, model.RoleCustomer)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner cancel: status = %d, want 200; body %s", rec.Code, rec.Body)
	}
	var resp bookingResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != model.BookingStatusCancelled {
		t.Errorf("status = %q, want cancelled", resp.Status)
	}
	if v := vehicles.vehicles[7]; !v.IsAvailable {
		t.Error("cancel did not release the vehicle")
	}
	// Cancelled is terminal.
	if rec := cancel(3, model.RoleCustomer); rec.Code != http.StatusConflict {
		t.Fatalf("second cancel: status = %d, want 409", rec.Code)
	}
}

func TestConfirmAndCompleteEndpoints(t *testing.T) {
	h, vehicles, _ := newBookingFixture()
	created := createBooking(t, h, 3)

	do := func(fn echo.HandlerFunc, path string) *httptest.ResponseRecorder {
		c, rec := bookingCtx(http.MethodPost, path, "", 9, model.RoleRentalManager)
		c.SetParamNames("id")
		c.SetParamValues(fmt.Sprint(created.ID))
		if err := fn(c); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		return rec
	}

	// Completing a pending booking skips a state; 409.
	if rec := do(h.Complete, "/complete"); rec.Code != http.StatusConflict {
		t.Fatalf("complete pending: status = %d, want 409", rec.Code)
	}
	if rec := do(h.Confirm, "/confirm"); rec.Code != http.StatusOK {
		t.Fatalf("confirm: status = %d, want 200; body %s", rec.Code, rec.Body)
	}
	if rec := do(h.Confirm, "/confirm"); rec.Code != http.StatusConflict {
		t.Fatalf("double confirm: status = %d, want 409", rec.Code)
	}
	if rec := do(h.Complete, "/complete"); rec.Code != http.StatusOK {
		t.Fatalf("complete: status = %d, want 200", rec.Code)
	}
	// Completion hands the vehicle back through the explicit release
	// endpoint, not automatically.
	if v := vehicles.vehicles[7]; v.IsAvailable {
		t.Error("complete released the vehicle; release is a separate manager action")
	}
}

func TestListBookingsEndpoint(t *testing.T) {
	h, vehicles, _ := newBookingFixture()
	createBooking(t, h, 3)
	// Free the vehicle so a second user can book it.
	if err := vehicles.Release(context.Background(), 7); err != nil {
		t.Fatalf("release: %v", err)
	}
	createBooking(t, h, 4)

	c, rec := bookingCtx(http.MethodGet, "/v1/rentals/bookings", "", 3, model.RoleCustomer)
	if err := h.List(c); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var out []bookingResp
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out) != 1 || out[0].UserID != 3 {
		t.Fatalf("list = %+v, want exactly the caller's booking", out)
	}
}
