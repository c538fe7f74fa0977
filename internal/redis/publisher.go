// Package redis publishes position events over Redis pub/sub.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/trogers1052/defi-portfolio-agents/internal/models"
)

// Config holds connection parameters for the Redis publisher
type Config struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

type pubsubClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Close() error
}

// Publisher publishes position events on a Redis pub/sub channel
type Publisher struct {
	rdb     pubsubClient
	channel string
}

// New connects to Redis and verifies the connection with a ping
func New(ctx context.Context, cfg Config) (*Publisher, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Addr, err)
	}

	return &Publisher{rdb: rdb, channel: cfg.Channel}, nil
}

// Publish sends the JSON encoded event to the configured channel
func (p *Publisher) Publish(ctx context.Context, event models.PositionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("redis: marshal event: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis: publish %s: %w", p.channel, err)
	}
	return nil
}

// Close closes the Redis connection
func (p *Publisher) Close() error {
	return p.rdb.Close()
}
