package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss: la key no existe o expiró.
var ErrMiss = errors.New("cache miss")

// Cache guarda valores serializados con TTL. Los adapters son Redis y memoria.
type Cache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// SetNX devuelve true si la key no existía y quedó guardada.
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

// GetOrSet lee key; si no está (o el cache falla) llama fn y guarda el resultado.
// Los errores al guardar se ignoran: el cache nunca corta la request.
func GetOrSet[T any](ctx context.Context, c Cache, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	var result T
	if c == nil {
		return fn()
	}
	if err := c.Get(ctx, key, &result); err == nil {
		return result, nil
	}

	result, err := fn()
	if err != nil {
		return result, err
	}
	_ = c.Set(ctx, key, result, ttl)
	return result, nil
}
