// Package qctx holds the state owned by one query's compile pass.
package qctx

import (
	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/authzed/graphplanner/internal/logging"
	"github.com/authzed/graphplanner/pkg/expr"
	"github.com/authzed/graphplanner/pkg/plan"
	"github.com/authzed/graphplanner/pkg/schema"
)

// QueryContext owns the expression arena, plan graph and symbol table of a single query and
// carries the schema reader used to resolve it. It is not safe for concurrent use.
type QueryContext struct {
	id      xid.ID
	space   string
	exprs   *expr.Arena
	symbols *plan.SymbolTable
	graph   *plan.Graph
	schema  schema.Reader
	logger  zerolog.Logger

	loggerSet bool
}

// Option configures a QueryContext.
type Option func(*QueryContext)

// WithQueryID overrides the generated query id.
func WithQueryID(id xid.ID) Option {
	return func(qc *QueryContext) {
		qc.id = id
	}
}

// WithLogger sets the logger the query's child logger derives from. Defaults to the global
// logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(qc *QueryContext) {
		qc.logger = logger
		qc.loggerSet = true
	}
}

// New creates the context for compiling one query against space.
func New(space string, reader schema.Reader, opts ...Option) *QueryContext {
	qc := &QueryContext{
		id:      xid.New(),
		space:   space,
		exprs:   expr.NewArena(),
		symbols: plan.NewSymbolTable(),
		schema:  reader,
	}
	for _, opt := range opts {
		opt(qc)
	}

	if qc.loggerSet {
		qc.logger = qc.logger.With().Str("query_id", qc.id.String()).Str("space", space).Logger()
	} else {
		qc.logger = logging.ForQuery(qc.id.String(), space)
	}
	qc.graph = plan.NewGraph(qc.exprs, qc.symbols)
	return qc
}

// ID returns the query id.
func (qc *QueryContext) ID() xid.ID { return qc.id }

// Space returns the graph space the query runs in.
func (qc *QueryContext) Space() string { return qc.space }

// Exprs returns the query's expression arena.
func (qc *QueryContext) Exprs() *expr.Arena { return qc.exprs }

// Plan returns the query's plan graph.
func (qc *QueryContext) Plan() *plan.Graph { return qc.graph }

// Symbols returns the query's symbol table.
func (qc *QueryContext) Symbols() *plan.SymbolTable { return qc.symbols }

// Schema returns the schema reader.
func (qc *QueryContext) Schema() schema.Reader { return qc.schema }

// Logger returns the query-scoped logger.
func (qc *QueryContext) Logger() *zerolog.Logger { return &qc.logger }
