package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trendz_shop/internal/models"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss is returned when a key is absent from the cache.
var ErrCacheMiss = errors.New("cache miss")

const orderDetailPrefix = "order_detail:"

type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// Initialize connects to Redis and verifies the connection. Entries written
// through the client expire after ttl.
func Initialize(ctx context.Context, redisURL string, ttl time.Duration) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

func orderDetailKey(orderID uint) string {
	return fmt.Sprintf("%s%d", orderDetailPrefix, orderID)
}

// Order detail caching
func (c *Client) GetOrderDetail(ctx context.Context, orderID uint) (*models.OrderDetail, error) {
	val, err := c.rdb.Get(ctx, orderDetailKey(orderID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get order detail: %w", err)
	}

	var detail models.OrderDetail
	if err := json.Unmarshal(val, &detail); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order detail: %w", err)
	}
	return &detail, nil
}

func (c *Client) SetOrderDetail(ctx context.Context, detail *models.OrderDetail) error {
	jsonData, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("failed to marshal order detail: %w", err)
	}
	return c.rdb.Set(ctx, orderDetailKey(detail.OrderID), jsonData, c.ttl).Err()
}

func (c *Client) DeleteOrderDetail(ctx context.Context, orderID uint) error {
	return c.rdb.Del(ctx, orderDetailKey(orderID)).Err()
}

// Ping reports whether Redis is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
