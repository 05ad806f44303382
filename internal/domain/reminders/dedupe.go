package reminders

import (
	"context"
	"time"

	"carecircle/internal/ports/cache"
)

// Deduper asegura que cada recordatorio salga una sola vez, aunque haya
// varias instancias barriendo (Redis) o el barrido se repita.
type Deduper interface {
	// Claim devuelve true la primera vez que se pide key dentro de ttl.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release devuelve una key reclamada cuyo envío falló.
	Release(ctx context.Context, key string) error
}

type cacheDeduper struct {
	c cache.Cache
}

// NewCacheDeduper usa SETNX del cache (Redis o memoria).
func NewCacheDeduper(c cache.Cache) Deduper {
	return cacheDeduper{c: c}
}

func (d cacheDeduper) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return d.c.SetNX(ctx, "reminder:"+key, true, ttl)
}

func (d cacheDeduper) Release(ctx context.Context, key string) error {
	return d.c.Delete(ctx, "reminder:"+key)
}
