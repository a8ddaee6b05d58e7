package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"slice-url/internal/entities"
)

const (
	visitorsTotalKey  = "visitors:total"
	visitorsEventsKey = "visitors:events"
	// maxStoredVisits caps the event list; the counter keeps counting past it.
	maxStoredVisits = 1000
)

// RedisVisitRepository counts visits in Redis
type RedisVisitRepository struct {
	client *redis.Client
}

var _ VisitRepository = (*RedisVisitRepository)(nil)

// NewRedisVisitRepository connects to Redis and returns a visit repository backed by it
func NewRedisVisitRepository(ctx context.Context, redisURL string) (*RedisVisitRepository, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		// If URL parsing fails, try as simple host:port
		opt = &redis.Options{
			Addr: redisURL,
			DB:   0,
		}
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisVisitRepository{client: client}, nil
}

// Record increments the visitor counter and pushes the event in one MULTI/EXEC
func (r *RedisVisitRepository) Record(ctx context.Context, visit entities.Visit) (int64, error) {
	data, err := json.Marshal(visit)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal visit: %w", err)
	}

	pipe := r.client.TxPipeline()
	total := pipe.Incr(ctx, visitorsTotalKey)
	pipe.LPush(ctx, visitorsEventsKey, data)
	pipe.LTrim(ctx, visitorsEventsKey, 0, maxStoredVisits-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to record visit: %w", err)
	}

	return total.Val(), nil
}

// Close closes the Redis connection
func (r *RedisVisitRepository) Close() error {
	return r.client.Close()
}
