package handler

import (
	"context"  // detached contexts for post-commit event publishing
	"errors"   // errors.Is comparisons against repository sentinels
	"fmt"      // vehicle description for events
	"net/http" // HTTP status codes
	"strconv"  // parsing path parameters
	"time"     // date parsing and timeouts

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/zipghana/rental-reservation/internal/booking"
	"github.com/zipghana/rental-reservation/internal/model"
	"github.com/zipghana/rental-reservation/internal/queue"
	"github.com/zipghana/rental-reservation/internal/repository"
	queue_publisher "github.com/zipghana/rental-reservation/internal/service"
)

const dateLayout = "2006-01-02"

// BookingHandler exposes the reservation endpoints. All orchestration
// lives in the booking.Coordinator; the handler only parses input, maps
// coordinator errors onto HTTP statuses and publishes lifecycle events
// after the storage work has committed. Methods assume JWT
// authentication and role validation have already run.
type BookingHandler struct {
	Co *booking.Coordinator
	// PublishEvents disables broker traffic in tests.
	PublishEvents bool
}

// NewBookingHandler constructs a BookingHandler and panics if the
// coordinator is nil.
func NewBookingHandler(co *booking.Coordinator) *BookingHandler {
	if co == nil {
		panic("nil coordinator passed to NewBookingHandler")
	}
	return &BookingHandler{Co: co, PublishEvents: true}
}

type createBookingReq struct {
	VehicleID      uint64  `json:"vehicle_id"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	PickupLocation string  `json:"pickup_location"`
	Notes          *string `json:"notes"`
}

type bookingResp struct {
	ID             uint64  `json:"id"`
	UserID         uint64  `json:"user_id"`
	VehicleID      uint64  `json:"vehicle_id"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	TotalCostCents uint32  `json:"total_cost_cents"`
	Status         string  `json:"status"`
	PickupLocation string  `json:"pickup_location"`
	Notes          *string `json:"notes,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

func toBookingResp(b model.Booking) bookingResp {
	return bookingResp{
		ID:             b.ID,
		UserID:         b.UserID,
		VehicleID:      b.VehicleID,
		StartDate:      b.StartDate.Format(dateLayout),
		EndDate:        b.EndDate.Format(dateLayout),
		TotalCostCents: b.TotalCostCents,
		Status:         b.Status,
		PickupLocation: b.PickupLocation,
		Notes:          b.Notes,
		CreatedAt:      b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Create handles POST /v1/rentals/bookings. Responses: 201 with the
// created booking; 400 on invalid dates, missing pickup location or an
// unavailable vehicle; 404 when the vehicle does not exist.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.VehicleID == 0 || req.StartDate == "" || req.EndDate == "" || req.PickupLocation == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "vehicle_id, start_date, end_date and pickup_location are required"})
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must be YYYY-MM-DD"})
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Co.Create(ctx, booking.CreateRequest{
		UserID:         userID,
		VehicleID:      req.VehicleID,
		StartDate:      start,
		EndDate:        end,
		PickupLocation: req.PickupLocation,
		Notes:          req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrInvalidDates), errors.Is(err, booking.ErrPickupRequired),
			errors.Is(err, booking.ErrRangeTooLong):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrVehicleNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		case errors.Is(err, repository.ErrVehicleUnavailable):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "vehicle is not available"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}

	if h.PublishEvents {
		h.publishCreated(b)
	}
	return c.JSON(http.StatusCreated, toBookingResp(b))
}

// List handles GET /v1/rentals/bookings and returns the caller's
// bookings, newest first.
func (h *BookingHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bookings, err := h.Co.ListForUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
	}
	out := make([]bookingResp, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResp(b))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/rentals/bookings/:id. Customers see only their
// own bookings; managers see any.
func (h *BookingHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Co.GetForUser(ctx, bookingID, userID, isManager(c))
	if err != nil {
		return bookingErrJSON(c, err, "load booking failed")
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// Cancel handles POST /v1/rentals/bookings/:id/cancel. Cancelling a
// pending or confirmed booking releases the vehicle; a subsequent
// booking attempt on the same vehicle succeeds.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Co.Cancel(ctx, bookingID, userID, isManager(c))
	if err != nil {
		return bookingErrJSON(c, err, "cancel booking failed")
	}
	if h.PublishEvents {
		h.publishCancelled(b)
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// Confirm handles POST /v1/rentals/bookings/:id/confirm (managers only,
// enforced by route middleware). pending -> confirmed.
func (h *BookingHandler) Confirm(c echo.Context) error {
	return h.transition(c, h.Co.Confirm)
}

// Complete handles POST /v1/rentals/bookings/:id/complete (managers
// only). confirmed -> completed; terminal.
func (h *BookingHandler) Complete(c echo.Context) error {
	return h.transition(c, h.Co.Complete)
}

func (h *BookingHandler) transition(c echo.Context, fn func(context.Context, uint64) (model.Booking, error)) error {
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := fn(ctx, bookingID)
	if err != nil {
		return bookingErrJSON(c, err, "update booking failed")
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// bookingErrJSON maps coordinator errors onto HTTP responses. Unknown
// errors answer with a generic 500; internal detail never reaches the
// client.
func bookingErrJSON(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid status transition"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": fallback})
}

// publishCreated emits a booking.created event on a detached context so
// a slow broker cannot hold up the response. Publish errors are logged
// inside the publisher and ignored here.
func (h *BookingHandler) publishCreated(b model.Booking) {
	vehicle := ""
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if v, err := h.Co.Vehicles.GetByID(ctx, b.VehicleID); err == nil {
		vehicle = fmt.Sprintf("%s %s (%s)", v.Make, v.Model, v.LicensePlate)
	}
	_ = queue_publisher.PublishBookingCreated(ctx, queue.BookingCreatedEvent{
		BookingID:      b.ID,
		UserID:         b.UserID,
		VehicleID:      b.VehicleID,
		Vehicle:        vehicle,
		StartDate:      b.StartDate.Format(dateLayout),
		EndDate:        b.EndDate.Format(dateLayout),
		TotalCostCents: b.TotalCostCents,
		PickupLocation: b.PickupLocation,
		CreatedAt:      b.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (h *BookingHandler) publishCancelled(b model.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = queue_publisher.PublishBookingCancelled(ctx, queue.BookingCancelledEvent{
		BookingID:   b.ID,
		UserID:      b.UserID,
		VehicleID:   b.VehicleID,
		CancelledAt: time.Now().UTC().Format(time.RFC3339),
	})
}
