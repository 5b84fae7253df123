// Package metrics defines the prometheus collectors of the plan compiler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TraversalPlansBuilt counts compiled traversal plans by step shape.
	TraversalPlansBuilt = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "graphplanner",
		Subsystem: "compile",
		Name:      "traversal_plans_total",
		Help:      "number of traversal plans compiled, by step shape",
	}, []string{"shape"})

	// TraversalPlanNodes observes the number of operators in each compiled traversal plan.
	TraversalPlanNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "graphplanner",
		Subsystem: "compile",
		Name:      "traversal_plan_nodes",
		Help:      "number of plan operators in a compiled traversal plan",
		Buckets:   prometheus.ExponentialBuckets(4, 2, 8),
	})

	// FetchVertexPlansBuilt counts vertex fetch sub-plans appended to match plans.
	FetchVertexPlansBuilt = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "graphplanner",
		Subsystem: "compile",
		Name:      "fetch_vertex_plans_total",
		Help:      "number of vertex fetch sub-plans built",
	})

	// CompileFailures counts plan builds aborted by an error, by component.
	CompileFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "graphplanner",
		Subsystem: "compile",
		Name:      "failures_total",
		Help:      "number of plan builds aborted by an error",
	}, []string{"component"})
)
