package redisclient

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps the shared redis connection used for cross-instance rate
// limiter state.
type Client struct {
	redisdb *redis.Client
}

type Config struct {
	Addr     string
	Password string
	DB       int
}

func New(cfg Config) *Client {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &Client{redisdb: redisdb}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.redisdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.redisdb.Close()
}

func (c *Client) Raw() *redis.Client {
	return c.redisdb
}
