package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/zipghana/rental-reservation/internal/booking"
	"github.com/zipghana/rental-reservation/internal/config"
	"github.com/zipghana/rental-reservation/internal/database"
	"github.com/zipghana/rental-reservation/internal/handler"
	"github.com/zipghana/rental-reservation/internal/queue"
	"github.com/zipghana/rental-reservation/internal/repository"
	"github.com/zipghana/rental-reservation/internal/router"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	// Load() exits the process when a required variable (JWT_SECRET,
	// DB settings) is missing; there is no insecure fallback mode.
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Redis backs rate limiting and response caching; nil degrades both
	// to pass-through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	}

	users := repository.NewUserRepo(db)
	vehicles := repository.NewVehicleRepo(db)
	bookings := repository.NewBookingRepo(db)
	coordinator := booking.NewCoordinator(vehicles, bookings)

	authHandler := handler.NewAuthHandler(cfg, users)
	vehicleHandler := handler.NewVehicleHandler(vehicles)
	bookingHandler := handler.NewBookingHandler(coordinator)

	// Background consumer appends booking lifecycle audit lines; it
	// reconnects on its own and never takes the server down.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.Register(e, cfg, rdb, authHandler, vehicleHandler, bookingHandler)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
