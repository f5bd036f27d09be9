package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/bootstrap"
	"github.com/Domenick1991/flightbooking/internal/cache"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/Domenick1991/flightbooking/internal/service/reservations"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Flights.CacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	airportRepo := repository.NewAirportRepository(pool)
	airlineRepo := repository.NewAirlineRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)
	accountRepo := repository.NewAccountRepository(pool)

	checker := auth.NewRoleChecker()

	flightService := flights.NewFlightService(flightRepo, airlineRepo, airportRepo, redisCache, checker)
	reservationService := reservations.NewReservationService(
		reservationRepo,
		flightRepo,
		accountRepo,
		checker,
		producer,
		reservations.WithEventsTopic(cfg.Kafka.NotificationsTopic),
	)

	repos := bootstrap.Repositories{
		Accounts: accountRepo,
		Airports: airportRepo,
		Airlines: airlineRepo,
	}
	engine := bootstrap.NewRouter(cfg, repos, checker, flightService, reservationService)
	if err := bootstrap.Run(ctx, cfg, engine); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
