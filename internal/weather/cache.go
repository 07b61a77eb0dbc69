package weather

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CachedSource wraps a Source with TTL-bounded LRU caches, one per report
// type. METARs age out fast; station weather older than the TTL is stale
// for planning purposes.
type CachedSource struct {
	inner  Source
	metars *expirable.LRU[string, Metar]
	tafs   *expirable.LRU[string, Taf]
}

// NewCachedSource creates a cache decorator around a source.
func NewCachedSource(inner Source, size int, ttl time.Duration) *CachedSource {
	return &CachedSource{
		inner:  inner,
		metars: expirable.NewLRU[string, Metar](size, nil, ttl),
		tafs:   expirable.NewLRU[string, Taf](size, nil, ttl),
	}
}

func (c *CachedSource) Metar(ctx context.Context, station string) (Metar, error) {
	key := strings.ToUpper(strings.TrimSpace(station))
	if m, ok := c.metars.Get(key); ok {
		return m, nil
	}
	m, err := c.inner.Metar(ctx, station)
	if err != nil {
		return Metar{}, err
	}
	c.metars.Add(key, m)
	return m, nil
}

func (c *CachedSource) Taf(ctx context.Context, station string) (Taf, error) {
	key := strings.ToUpper(strings.TrimSpace(station))
	if t, ok := c.tafs.Get(key); ok {
		return t, nil
	}
	t, err := c.inner.Taf(ctx, station)
	if err != nil {
		return Taf{}, err
	}
	c.tafs.Add(key, t)
	return t, nil
}
