package cache

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/jzelinskie/stringz"
	"github.com/prometheus/client_golang/prometheus"
)

// Open caches report through one collector, labeled by cache name.
var openCaches = newRegistry()

func init() {
	prometheus.MustRegister(openCaches)
}

type withMetrics interface {
	GetMetrics() Metrics
}

type registry struct {
	sync.RWMutex
	caches map[string]withMetrics

	hits      *prometheus.Desc
	misses    *prometheus.Desc
	costAdded *prometheus.Desc
	hitRatio  *prometheus.Desc
}

var _ prometheus.Collector = (*registry)(nil)

func newRegistry() *registry {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(stringz.Join("_", "graphplanner", "cache", name), help, []string{"cache"}, nil)
	}
	return &registry{
		caches:    map[string]withMetrics{},
		hits:      desc("hits_total", "Number of cache hits"),
		misses:    desc("misses_total", "Number of cache misses"),
		costAdded: desc("cost_added_total", "Cost of entries added to the cache"),
		hitRatio:  desc("hit_ratio", "Fraction of lookups served from the cache"),
	}
}

func (r *registry) register(name string, c withMetrics) error {
	r.Lock()
	defer r.Unlock()
	if _, ok := r.caches[name]; ok {
		return fmt.Errorf("a cache named %q is already open", name)
	}
	r.caches[name] = c
	return nil
}

func (r *registry) unregister(name string) {
	r.Lock()
	defer r.Unlock()
	delete(r.caches, name)
}

func (r *registry) Describe(ch chan<- *prometheus.Desc) {
	ch <- r.hits
	ch <- r.misses
	ch <- r.costAdded
	ch <- r.hitRatio
}

func (r *registry) Collect(ch chan<- prometheus.Metric) {
	r.RLock()
	defer r.RUnlock()

	for _, name := range slices.Sorted(maps.Keys(r.caches)) {
		metrics := r.caches[name].GetMetrics()
		hits, misses := float64(metrics.Hits()), float64(metrics.Misses())

		ratio := 0.0
		if hits+misses > 0 {
			ratio = hits / (hits + misses)
		}

		ch <- prometheus.MustNewConstMetric(r.hits, prometheus.CounterValue, hits, name)
		ch <- prometheus.MustNewConstMetric(r.misses, prometheus.CounterValue, misses, name)
		ch <- prometheus.MustNewConstMetric(r.costAdded, prometheus.CounterValue, float64(metrics.CostAdded()), name)
		ch <- prometheus.MustNewConstMetric(r.hitRatio, prometheus.GaugeValue, ratio, name)
	}
}
