package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/flightbooking/api"
	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/Domenick1991/flightbooking/internal/service/reservations"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the handlers onto /api/v1. Account registration is the
// only unauthenticated route; everything else sits behind the bearer-token
// middleware.
type Repositories struct {
	Accounts repository.AccountRepository
	Airports repository.AirportRepository
	Airlines repository.AirlineRepository
}

func NewRouter(cfg *config.Config, repos Repositories, perms auth.Checker, flightSvc flights.FlightUseCase, reservationSvc reservations.ReservationUseCase) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())

	accountHandler := api.NewAccountHandler(repos.Accounts)
	airportHandler := api.NewAirportHandler(repos.Airports, repos.Airlines, perms)
	flightHandler := api.NewFlightHandler(flightSvc)
	reservationHandler := api.NewReservationHandler(reservationSvc)

	public := engine.Group("/api/v1")
	accountHandler.RegisterPublic(public)

	protected := engine.Group("/api/v1")
	protected.Use(api.Authenticate(cfg.Auth.JWTSecret, repos.Accounts))
	accountHandler.Register(protected)
	airportHandler.Register(protected)
	flightHandler.Register(protected)
	reservationHandler.Register(protected)

	return engine
}

// Run serves the engine and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, engine *gin.Engine) error {
	httpServer := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
