// Command sweeper runs the periodic lifecycle sweeps: confirmed
// reservations whose start passed without a check-in become EXPIRED,
// and pending billings past their due date become OVERDUE.  It runs
// once by default; pass -interval to keep sweeping on a timer.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coworkhub/space-reservation/internal/booking"
	"github.com/coworkhub/space-reservation/internal/config"
	"github.com/coworkhub/space-reservation/internal/database"
	"github.com/coworkhub/space-reservation/internal/repository"
)

func main() {
	interval := flag.Duration("interval", 0, "sweep repeatedly at this interval (0 runs once)")
	flag.Parse()

	cfg := config.Load()
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	engine := booking.NewService(repository.NewStore(db), nil)

	if *interval <= 0 {
		if err := sweep(context.Background(), engine); err != nil {
			log.Fatalf("sweep: %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	log.Printf("sweeping every %s", *interval)
	for {
		if err := sweep(ctx, engine); err != nil {
			log.Printf("sweep: %v", err)
		}
		select {
		case <-ctx.Done():
			log.Printf("shutting down")
			return
		case <-ticker.C:
		}
	}
}

func sweep(ctx context.Context, engine *booking.Service) error {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	expired, err := engine.ExpireStaleReservations(ctx)
	if err != nil {
		return err
	}
	overdue, err := engine.SweepOverdueBillings(ctx)
	if err != nil {
		return err
	}
	log.Printf("sweep done: %d reservations expired, %d billings overdue", expired, overdue)
	return nil
}
