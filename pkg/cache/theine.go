package cache

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Yiling-J/theine-go"
	"github.com/ccoveille/go-safecast/v2"
	"github.com/rs/zerolog"
)

// NewTheineCacheWithMetrics builds a theine backed cache reporting to the package collector
// under name. Names must be unique among open caches; Close releases the name.
func NewTheineCacheWithMetrics[K KeyString, V any](name string, config *Config) (Cache[K, V], error) {
	if config.MaxCost <= 0 {
		return nil, fmt.Errorf("cache %q needs a positive max cost, got %d", name, config.MaxCost)
	}

	backing, err := theine.NewBuilder[K, V](config.MaxCost).Build()
	if err != nil {
		return nil, err
	}

	tc := &theineCache[K, V]{name: name, config: *config, backing: backing}
	if err := openCaches.register(name, tc); err != nil {
		backing.Close()
		return nil, err
	}
	return tc, nil
}

type theineCache[K KeyString, V any] struct {
	name    string
	config  Config
	backing *theine.Cache[K, V]

	costAdded atomic.Uint64
	closeOnce sync.Once
}

func (tc *theineCache[K, V]) Get(key K) (V, bool) {
	return tc.backing.Get(key)
}

// Set stores value with the given cost, expiring it after the configured TTL when one is set.
// Negative costs are stored but not counted.
func (tc *theineCache[K, V]) Set(key K, value V, cost int64) bool {
	if counted, err := safecast.Convert[uint64](cost); err == nil {
		tc.costAdded.Add(counted)
	}

	if ttl := tc.config.DefaultTTL; ttl > 0 {
		return tc.backing.SetWithTTL(key, value, cost, ttl)
	}
	return tc.backing.Set(key, value, cost)
}

func (tc *theineCache[K, V]) Close() {
	tc.closeOnce.Do(func() {
		openCaches.unregister(tc.name)
		tc.backing.Close()
	})
}

func (tc *theineCache[K, V]) GetMetrics() Metrics { return theineMetrics[K, V]{tc} }

func (tc *theineCache[K, V]) MarshalZerologObject(e *zerolog.Event) {
	e.Str("backend", "theine").Str("name", tc.name).Object("config", &tc.config)
}

type theineMetrics[K KeyString, V any] struct {
	tc *theineCache[K, V]
}

func (tm theineMetrics[K, V]) CostAdded() uint64 { return tm.tc.costAdded.Load() }
func (tm theineMetrics[K, V]) Hits() uint64      { return tm.tc.backing.Stats().Hits() }
func (tm theineMetrics[K, V]) Misses() uint64    { return tm.tc.backing.Stats().Misses() }

