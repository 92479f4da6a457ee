package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config describes one class of rate-limited action. HourlyCap of zero
// disables the hard cap.
type Config struct {
	Name      string
	Max       int
	Window    time.Duration
	HourlyCap int
}

var (
	// Offers covers trade offer creation and counter-offers.
	Offers = Config{Name: "offers", Max: 5, Window: 60 * time.Second, HourlyCap: 20}
	// Messages covers free-text notes and chat messages.
	Messages = Config{Name: "messages", Max: 20, Window: 60 * time.Second}
)

type Result struct {
	Allowed    bool
	RetryAfter time.Duration
	// Cooldown marks hourly-cap exhaustion rather than a window overrun.
	Cooldown bool
}

type Limiter interface {
	CheckAndRecord(ctx context.Context, key string, cfg Config) (Result, error)
}

type redisLimiter struct {
	client *redis.Client
}

func NewRedisLimiter(addr, password string, db int) (Limiter, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisLimiter{client: rdb}, nil
}

// CheckAndRecord counts the attempt against both the short window and the
// hourly cap, denied attempts included.
func (l *redisLimiter) CheckAndRecord(ctx context.Context, key string, cfg Config) (Result, error) {
	windowKey := fmt.Sprintf("ratelimit:%s:%s:window", cfg.Name, key)

	count, err := l.incrWithExpiry(ctx, windowKey, cfg.Window)
	if err != nil {
		return Result{}, err
	}

	if cfg.HourlyCap > 0 {
		hourKey := fmt.Sprintf("ratelimit:%s:%s:hour", cfg.Name, key)
		hourCount, err := l.incrWithExpiry(ctx, hourKey, time.Hour)
		if err != nil {
			return Result{}, err
		}
		if hourCount > int64(cfg.HourlyCap) {
			remaining, err := l.client.TTL(ctx, hourKey).Result()
			if err != nil {
				remaining = time.Hour
			}
			return Result{Allowed: false, RetryAfter: remaining, Cooldown: true}, nil
		}
	}

	if count > int64(cfg.Max) {
		retryAfter, err := l.client.TTL(ctx, windowKey).Result()
		if err != nil {
			retryAfter = cfg.Window
		}
		return Result{Allowed: false, RetryAfter: retryAfter}, nil
	}

	return Result{Allowed: true}, nil
}

func (l *redisLimiter) incrWithExpiry(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to record rate limit attempt: %w", err)
	}
	return incr.Val(), nil
}
