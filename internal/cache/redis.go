package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache stores the static part of route listings. Seat counts in cached
// entries are never trusted; callers overlay live availability.
type RedisCache struct {
	client   *redis.Client
	routeTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, routeTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		routeTTL,
	)
}

func NewRedisCacheWithClient(client *redis.Client, routeTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, routeTTL: routeTTL}
}

// GetOfferings returns nil, nil on a miss.
func (c *RedisCache) GetOfferings(ctx context.Context, route domain.Route, date string) ([]domain.FlightOffering, error) {
	data, err := c.client.Get(ctx, routeKey(route, date)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var offerings []domain.FlightOffering
	if err := json.Unmarshal(data, &offerings); err != nil {
		return nil, err
	}
	return offerings, nil
}

func (c *RedisCache) SetOfferings(ctx context.Context, route domain.Route, date string, offerings []domain.FlightOffering) error {
	payload, err := json.Marshal(offerings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, routeKey(route, date), payload, c.routeTTL).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func routeKey(route domain.Route, date string) string {
	return fmt.Sprintf("cache:route:%s:%s", route, date)
}
