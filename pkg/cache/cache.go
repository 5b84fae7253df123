package cache

import (
	"time"

	"github.com/ccoveille/go-safecast/v2"
	"github.com/creasty/defaults"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// KeyString is an interface for keys that can be converted to strings.
type KeyString interface {
	comparable
	KeyString() string
}

// StringKey is a simple string key.
type StringKey string

func (sk StringKey) KeyString() string {
	return string(sk)
}

// Config for caching.
type Config struct {
	// MaxCost is the capacity of the cache, in the units the caller passes as cost to Set.
	// Schema entries are costed by the number of properties they carry.
	MaxCost int64 `default:"65536"`

	// DefaultTTL configures a default deadline on the lifetime of any keys set
	// to the cache. Zero or negative disables expiration.
	DefaultTTL time.Duration `default:"1m"`
}

// DefaultConfig returns a Config populated from its struct defaults.
func DefaultConfig() *Config {
	config := &Config{}
	if err := defaults.Set(config); err != nil {
		panic(err)
	}
	return config
}

func (c *Config) MarshalZerologObject(e *zerolog.Event) {
	e.Str("maxCost", humanize.Comma(c.MaxCost))
	if maxCost, err := safecast.Convert[uint64](c.MaxCost); err == nil {
		e.Str("maxCostSI", humanize.SIWithDigits(float64(maxCost), 1, ""))
	}
	e.Dur("defaultTTL", c.DefaultTTL)
}

// Cache defines an interface for a generic cache.
type Cache[K KeyString, V any] interface {
	// Get returns the value for the given key in the cache, if it exists.
	Get(key K) (V, bool)

	// Set sets a value for the key in the cache, with the given cost.
	Set(key K, entry V, cost int64) bool

	// Close closes the cache's background workers (if any).
	Close()

	// GetMetrics returns the metrics block for the cache.
	GetMetrics() Metrics

	zerolog.LogObjectMarshaler
}

// Metrics defines metrics exported by the cache.
type Metrics interface {
	// Hits is the number of cache hits.
	Hits() uint64

	// Misses is the number of cache misses.
	Misses() uint64

	// CostAdded returns the total cost of added items.
	CostAdded() uint64
}

// NoopCache returns a cache that does nothing.
func NoopCache[K KeyString, V any]() Cache[K, V] { return &noopCache[K, V]{} }

type noopCache[K KeyString, V any] struct{}

var _ Cache[StringKey, any] = (*noopCache[StringKey, any])(nil)

func (no *noopCache[K, V]) Get(_ K) (V, bool)          { return *new(V), false }
func (no *noopCache[K, V]) Set(_ K, _ V, _ int64) bool { return false }
func (no *noopCache[K, V]) Close()                     {}
func (no *noopCache[K, V]) GetMetrics() Metrics        { return &noopMetrics{} }
func (no *noopCache[K, V]) MarshalZerologObject(e *zerolog.Event) {
	e.Bool("enabled", false)
}

type noopMetrics struct{}

var _ Metrics = (*noopMetrics)(nil)

func (no *noopMetrics) Hits() uint64      { return 0 }
func (no *noopMetrics) Misses() uint64    { return 0 }
func (no *noopMetrics) CostAdded() uint64 { return 0 }
