// Package cache кеширует разрешение (хост, токен) -> ссылка на горячем
// пути редиректа. Клиент создается и закрывается явно, никакого
// глобального состояния.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	linkKeyPrefix  = "link:"
	defaultLinkTTL = 10 * time.Minute
)

// LinkEntry закешированный результат разрешения короткой ссылки.
type LinkEntry struct {
	LinkID uint   `json:"linkId"`
	URL    string `json:"url"`
}

// LinkCache кеш поверх redis. Нулевой указатель валиден и ведет себя как
// постоянный промах — сервис работает и без redis.
type LinkCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *logrus.Entry
}

// New создает клиент и проверяет соединение. Пустой адрес — запуск без
// кеша, возвращается nil без ошибки.
func New(ctx context.Context, addr string, logger *logrus.Logger) (*LinkCache, error) {
	entry := logger.WithField("module", "cache")
	if addr == "" {
		entry.Info("redis address is empty, link cache disabled")
		return nil, nil //nolint:nilnil
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	entry.Infof("redis client connected on %s", addr)

	return &LinkCache{
		rdb:    rdb,
		ttl:    defaultLinkTTL,
		logger: entry,
	}, nil
}

func linkKey(host, token string) string {
	return linkKeyPrefix + host + ":" + token
}

// Get возвращает запись кеша либо промах. Ошибки redis считаются
// промахом и логируются: кеш не имеет права ломать редирект.
func (c *LinkCache) Get(ctx context.Context, host, token string) (*LinkEntry, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, linkKey(host, token)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WithError(err).Warn("cache get failed")
		}
		return nil, false
	}
	var entry LinkEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.logger.WithError(err).Warn("cache entry is corrupted")
		return nil, false
	}
	return &entry, true
}

func (c *LinkCache) Set(ctx context.Context, host, token string, entry LinkEntry) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		c.logger.WithError(err).Warn("cache entry marshal failed")
		return
	}
	if err := c.rdb.Set(ctx, linkKey(host, token), raw, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Warn("cache set failed")
	}
}

// Invalidate сбрасывает запись после изменения или удаления ссылки.
func (c *LinkCache) Invalidate(ctx context.Context, host, token string) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, linkKey(host, token)).Err(); err != nil {
		c.logger.WithError(err).Warn("cache invalidate failed")
	}
}

// Close закрывает соединение. Безопасен для nil кеша.
func (c *LinkCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
