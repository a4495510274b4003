package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	dialTimeout = 5 * time.Second
	ioTimeout   = 3 * time.Second
)

// Config holds Redis connection settings for the session store and rate limiter.
type Config struct {
	Addr        string
	Password    string
	DB          int
	MaxRetries  int
	PoolSize    int
	MinIdleConn int
	// ClientName is reported by CLIENT LIST, usually the service name.
	ClientName string
}

// Client is a pinged, pooled Redis connection shared by sessions and rate limiting.
type Client struct {
	*redis.Client
	addr string
	log  *zap.Logger
}

// NewClient connects to Redis and fails fast if the server does not answer PING.
func NewClient(ctx context.Context, cfg Config, log *zap.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		ClientName:   cfg.ClientName,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConn,
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
	})

	c := &Client{Client: rdb, addr: cfg.Addr, log: log.Named("redis")}
	if err := c.PingContext(ctx); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	c.log.Info("connected",
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB),
		zap.Int("pool_size", cfg.PoolSize),
	)
	return c, nil
}

// PingContext checks that Redis answers within the dial timeout.
// It lets the client stand in for a health check next to *sql.DB.
func (c *Client) PingContext(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", c.addr, err)
	}
	return nil
}

// Close logs the pool counters and closes every connection.
func (c *Client) Close() error {
	stats := c.PoolStats()
	c.log.Info("closing connection",
		zap.Uint32("hits", stats.Hits),
		zap.Uint32("misses", stats.Misses),
		zap.Uint32("timeouts", stats.Timeouts),
		zap.Uint32("total_conns", stats.TotalConns),
	)
	return c.Client.Close()
}
