// Package cache memoizes JSON-encodable values such as record details.
package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"universo/server/config"
)

// Store keeps JSON values by key. Get reports whether the key was found and
// decodes the value into dest.
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
}

// New builds the store selected by CACHE_BACKEND.
func New(cfg *config.Config, logger *logrus.Logger) (Store, error) {
	switch strings.ToLower(cfg.Cache.Backend) {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		logger.WithField("addr", cfg.Cache.RedisAddr).Info("Using redis cache")
		return NewRedisStore(client, cfg.Cache.TTL), nil
	case "memory", "":
		logger.WithField("ttl", cfg.Cache.TTL.String()).Info("Using in-memory cache")
		return NewMemoryStore(cfg.Cache.TTL), nil
	case "none":
		return Noop{}, nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
}

// RecordKey is the key of a record detail.
func RecordKey(id int64) string {
	return fmt.Sprintf("record:%d", id)
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (Noop) Set(context.Context, string, interface{}) error         { return nil }
func (Noop) Delete(context.Context, string) error                   { return nil }
