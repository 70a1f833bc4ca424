package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/config"
)

const cacheKeyPrefix = "cv_screener:resume:"

// NewRedisClient connects and pings. On failure the client is closed and nil
// is returned with the error, so callers can run without a cache.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

type cachingRetriever struct {
	next   ResumeRetriever
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger

	warnedUnavailable atomic.Bool
}

// NewCachingRetriever keeps remote downloads in Redis for ttl. A nil client
// bypasses the cache entirely. Local paths are never cached.
func NewCachingRetriever(next ResumeRetriever, client *redis.Client, ttl time.Duration, log *zap.Logger) ResumeRetriever {
	if client == nil {
		return next
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &cachingRetriever{next: next, client: client, ttl: ttl, log: log}
}

func (c *cachingRetriever) Retrieve(ctx context.Context, location string) (*RetrievedFile, error) {
	if !strings.Contains(location, "://") {
		return c.next.Retrieve(ctx, location)
	}

	key := ResumeCacheKey(location)
	if f, ok := c.get(ctx, key); ok {
		c.log.Debug("resume cache hit", zap.String("location", location))
		return f, nil
	}

	f, err := c.next.Retrieve(ctx, location)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, f)
	return f, nil
}

func (c *cachingRetriever) get(ctx context.Context, key string) (*RetrievedFile, bool) {
	fields, err := c.client.HGetAll(ctx, key).Result()
	if err != nil {
		c.warnUnavailableOnce(err)
		return nil, false
	}
	data, ok := fields["data"]
	if !ok {
		return nil, false
	}
	return &RetrievedFile{
		Name:     fields["name"],
		MimeType: fields["mime"],
		Data:     []byte(data),
	}, true
}

func (c *cachingRetriever) set(ctx context.Context, key string, f *RetrievedFile) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "name", f.Name, "mime", f.MimeType, "data", f.Data)
		pipe.Expire(ctx, key, c.ttl)
		return nil
	})
	if err != nil {
		c.warnUnavailableOnce(err)
	}
}

func (c *cachingRetriever) warnUnavailableOnce(err error) {
	if c.warnedUnavailable.CompareAndSwap(false, true) {
		c.log.Warn("redis unavailable, bypassing resume cache", zap.Error(err))
	}
}

// ResumeCacheKey is the Redis key a location's download is stored under.
func ResumeCacheKey(location string) string {
	sum := sha256.Sum256([]byte(location))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
