package main // Entry point package

import (
	"log" // Logging library

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/coworkhub/space-reservation/internal/booking"
	"github.com/coworkhub/space-reservation/internal/config"
	"github.com/coworkhub/space-reservation/internal/database"
	"github.com/coworkhub/space-reservation/internal/handler"
	"github.com/coworkhub/space-reservation/internal/middleware"
	"github.com/coworkhub/space-reservation/internal/queue"
	"github.com/coworkhub/space-reservation/internal/repository"
	"github.com/coworkhub/space-reservation/internal/router"
)

func main() {
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	spaces := repository.NewSpaceRepo(db)
	reservations := repository.NewReservationRepo(db)
	billings := repository.NewBillingRepo(db)
	occupancy := repository.NewOccupancyRepo(db)

	// The booking engine drives every reservation and billing state
	// change inside one transaction per operation.
	engine := booking.NewService(repository.NewStore(db), nil)

	events := cfg.AMQPURL != ""
	if events {
		// Background consumer writes the event log; reconnects on its own.
		go func() {
			if err := queue.StartBookingConsumer(cfg.AMQPURL); err != nil {
				log.Printf("booking consumer stopped: %v", err)
			}
		}()
	} else {
		log.Printf("AMQP_URL not set; broker events disabled")
	}

	e := echo.New()

	// Redis backs rate limiting and the response cache; both degrade to
	// no-ops when the client is nil.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	var cacheMW echo.MiddlewareFunc
	if rdb != nil {
		cacheMW = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterSpaces(e, handler.NewSpaceHandler(spaces, occupancy), cfg.JWTSecret, cacheMW)
	router.RegisterReservations(e, handler.NewReservationHandler(engine, reservations, spaces, events), cfg.JWTSecret)
	router.RegisterBilling(e, handler.NewBillingHandler(engine, billings, cfg.DueSoonDays, events), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
