package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework used for routing
	"github.com/redis/go-redis/v9"

	"github.com/zipghana/rental-reservation/internal/config"
	"github.com/zipghana/rental-reservation/internal/handler"
	"github.com/zipghana/rental-reservation/internal/middleware"
	"github.com/zipghana/rental-reservation/internal/model"
)

// allRoles lists every role allowed past the generic authenticated
// group. Role-specific groups narrow this further.
var allRoles = []string{
	model.RoleCustomer,
	model.RoleTechnician,
	model.RoleVendor,
	model.RoleRentalManager,
	model.RoleAdmin,
}

// Register wires every route onto the provided Echo instance.
//
// Layout:
//   /healthz                         – liveness probe, no middleware
//   /v1/auth/*                       – register/login, rate limited
//   /v1/vehicles*                    – public browse, cached
//   /v1/*                            – authenticated (JWT + role check)
//   /v1/rentals/*                    – booking lifecycle
//   manager-only subroutes           – fleet management and confirm/complete
//
// The Redis client may be nil; rate limiting and caching then collapse
// to pass-through middleware.
func Register(e *echo.Echo, cfg config.Config, rdb *redis.Client, auth *handler.AuthHandler, vehicles *handler.VehicleHandler, bookings *handler.BookingHandler) {
	e.GET("/healthz", handler.Health)

	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Unauthenticated session endpoints. Rate limited so credential
	// stuffing burns through the bucket, not the user table.
	ag := e.Group("/v1/auth", rateLimit)
	ag.POST("/register", auth.Register)
	ag.POST("/login", auth.Login)

	// Public marketplace browse endpoints. Read-only pass-throughs, so
	// they are safe to cache.
	e.GET("/v1/vehicles", vehicles.List, cache)
	e.GET("/v1/vehicles/:id", vehicles.Get, cache)

	// Everything below requires a valid bearer token with a known role.
	authed := e.Group("/v1")
	authed.Use(middleware.JWTAuth(cfg.JWTSecret))
	authed.Use(middleware.RequireRole(allRoles...))
	authed.GET("/me", auth.Me)
	authed.POST("/auth/change-password", auth.ChangePassword)

	rentals := authed.Group("/rentals")
	rentals.POST("/bookings", bookings.Create, rateLimit)
	rentals.GET("/bookings", bookings.List)
	rentals.GET("/bookings/:id", bookings.Get)
	rentals.POST("/bookings/:id/cancel", bookings.Cancel)

	// Fleet management and booking state advancement are reserved for
	// rental managers and admins.
	mgr := rentals.Group("", middleware.RequireRole(model.RoleRentalManager, model.RoleAdmin))
	mgr.POST("/vehicles", vehicles.Create)
	mgr.POST("/vehicles/:id/release", vehicles.Release)
	mgr.POST("/bookings/:id/confirm", bookings.Confirm)
	mgr.POST("/bookings/:id/complete", bookings.Complete)
}
