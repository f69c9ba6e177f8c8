package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"cinema-ticketing/internal/logger"
)

var ErrCacheMiss = errors.New("barcode image not cached")

const keyPrefix = "barcode_png:"

// BarcodeCache keeps rendered barcode PNGs keyed by payload so the HTTP
// surface can serve them without touching the output directory.
type BarcodeCache struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *logger.Logger
}

func NewBarcodeCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *BarcodeCache {
	return &BarcodeCache{
		Client: client,
		TTL:    ttl,
		Logger: log,
	}
}

func key(code string) string {
	return keyPrefix + code
}

// Put stores png under code, replacing whatever a colliding code stored before.
func (c *BarcodeCache) Put(ctx context.Context, code string, png []byte) error {
	if err := c.Client.Set(ctx, key(code), png, c.TTL).Err(); err != nil {
		return fmt.Errorf("failed to cache barcode %s: %w", code, err)
	}
	if c.Logger != nil {
		c.Logger.Debug("REDIS", fmt.Sprintf("cached %s (%d bytes, ttl %s)", key(code), len(png), c.TTL))
	}
	return nil
}

func (c *BarcodeCache) Get(ctx context.Context, code string) ([]byte, error) {
	data, err := c.Client.Get(ctx, key(code)).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached barcode %s: %w", code, err)
	}
	return data, nil
}

func (c *BarcodeCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}
