package handler

import (
	"context"  // timeouts for DB calls
	"errors"   // errors.Is comparisons against repository sentinels
	"net/http" // HTTP status codes
	"strconv"  // parsing path parameters
	"strings"  // input normalization
	"time"     // timeouts

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/zipghana/rental-reservation/internal/model"
	"github.com/zipghana/rental-reservation/internal/repository"
)

// FleetStore is the slice of the vehicle repository the fleet endpoints
// need. *repository.VehicleRepo satisfies it; tests substitute an
// in-memory fake.
type FleetStore interface {
	Create(ctx context.Context, v *model.RentalVehicle) (model.RentalVehicle, error)
	GetByID(ctx context.Context, id uint64) (model.RentalVehicle, error)
	List(ctx context.Context, availableOnly bool) ([]model.RentalVehicle, error)
	Release(ctx context.Context, id uint64) error
}

// VehicleHandler exposes fleet endpoints: the public browse routes that
// feed the marketplace listing pages, and the manager routes for adding
// vehicles and returning completed rentals to the available pool.
type VehicleHandler struct {
	Vehicles FleetStore
}

func NewVehicleHandler(vehicles FleetStore) *VehicleHandler {
	if vehicles == nil {
		panic("nil store passed to NewVehicleHandler")
	}
	return &VehicleHandler{Vehicles: vehicles}
}

type vehicleResp struct {
	ID              uint64 `json:"id"`
	Make            string `json:"make"`
	Model           string `json:"model"`
	Year            uint16 `json:"year"`
	VehicleType     string `json:"vehicle_type"`
	LicensePlate    string `json:"license_plate"`
	Transmission    string `json:"transmission"`
	FuelType        string `json:"fuel_type"`
	SeatingCapacity uint8  `json:"seating_capacity"`
	DailyRateCents  uint32 `json:"daily_rate_cents"`
	IsAvailable     bool   `json:"is_available"`
}

func toVehicleResp(v model.RentalVehicle) vehicleResp {
	return vehicleResp{
		ID:              v.ID,
		Make:            v.Make,
		Model:           v.Model,
		Year:            v.Year,
		VehicleType:     v.VehicleType,
		LicensePlate:    v.LicensePlate,
		Transmission:    v.Transmission,
		FuelType:        v.FuelType,
		SeatingCapacity: v.SeatingCapacity,
		DailyRateCents:  v.DailyRateCents,
		IsAvailable:     v.IsAvailable,
	}
}

// List handles GET /v1/vehicles. Use ?available=true to filter out
// vehicles currently claimed by a booking. Responses are cached by the
// Redis middleware when enabled.
func (h *VehicleHandler) List(c echo.Context) error {
	availableOnly := strings.EqualFold(c.QueryParam("available"), "true")
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	vehicles, err := h.Vehicles.List(ctx, availableOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list vehicles failed"})
	}
	out := make([]vehicleResp, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, toVehicleResp(v))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/vehicles/:id.
func (h *VehicleHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid vehicle id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	v, err := h.Vehicles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load vehicle failed"})
	}
	return c.JSON(http.StatusOK, toVehicleResp(v))
}

type createVehicleReq struct {
	Make            string `json:"make"`
	Model           string `json:"model"`
	Year            uint16 `json:"year"`
	VehicleType     string `json:"vehicle_type"`
	LicensePlate    string `json:"license_plate"`
	Transmission    string `json:"transmission"`
	FuelType        string `json:"fuel_type"`
	SeatingCapacity uint8  `json:"seating_capacity"`
	DailyRateCents  uint32 `json:"daily_rate_cents"`
}

// Create handles POST /v1/rentals/vehicles (managers only, enforced by
// route middleware). The daily rate must be positive; a free vehicle
// would make every booking zero-cost.
func (h *VehicleHandler) Create(c echo.Context) error {
	var req createVehicleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Make = strings.TrimSpace(req.Make)
	req.Model = strings.TrimSpace(req.Model)
	req.LicensePlate = strings.TrimSpace(req.LicensePlate)
	if req.Make == "" || req.Model == "" || req.LicensePlate == "" || req.Year == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "make, model, year and license_plate are required"})
	}
	if req.DailyRateCents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "daily_rate_cents must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	v, err := h.Vehicles.Create(ctx, &model.RentalVehicle{
		Make:            req.Make,
		Model:           req.Model,
		Year:            req.Year,
		VehicleType:     strings.TrimSpace(req.VehicleType),
		LicensePlate:    req.LicensePlate,
		Transmission:    strings.TrimSpace(req.Transmission),
		FuelType:        strings.TrimSpace(req.FuelType),
		SeatingCapacity: req.SeatingCapacity,
		DailyRateCents:  req.DailyRateCents,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create vehicle failed"})
	}
	return c.JSON(http.StatusCreated, toVehicleResp(v))
}

// Release handles POST /v1/rentals/vehicles/:id/release (managers
// only). It returns a vehicle to the available pool after a completed
// rental has been handed back and inspected, and doubles as the retry
// path when a cancellation's release did not land. A vehicle still held
// by a pending or confirmed booking cannot be released; the booking has
// to be cancelled or completed first.
func (h *VehicleHandler) Release(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid vehicle id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Vehicles.Release(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrVehicleNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		case errors.Is(err, repository.ErrVehicleInUse):
			return c.JSON(http.StatusConflict, echo.Map{"error": "vehicle has an active booking"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "release vehicle failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
