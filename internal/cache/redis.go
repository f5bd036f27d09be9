package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache holds the unfiltered upcoming-flight listing. Filtered
// queries always go to the store.
type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL: flightsTTL,
	}
}

func (c *RedisCache) GetUpcomingFlights(ctx context.Context) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, upcomingFlightsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetUpcomingFlights(ctx context.Context, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, upcomingFlightsKey(), payload, c.flightsTTL).Err()
}

// InvalidateUpcomingFlights is called after new flights are scheduled.
func (c *RedisCache) InvalidateUpcomingFlights(ctx context.Context) error {
	return c.client.Del(ctx, upcomingFlightsKey()).Err()
}

func upcomingFlightsKey() string {
	return "cache:flights:upcoming"
}
