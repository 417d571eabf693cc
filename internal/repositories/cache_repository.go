package repositories

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss — ключа нет в кеше. Не ошибка, а сигнал идти в БД.
var ErrCacheMiss = errors.New("ключ не найден в кеше")

type CacheRepositoryInterface interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}
