package match

import (
	"fmt"

	"github.com/authzed/graphplanner/internal/metrics"
	"github.com/authzed/graphplanner/pkg/expr"
	"github.com/authzed/graphplanner/pkg/plan"
	"github.com/authzed/graphplanner/pkg/planerrors"
	"github.com/authzed/graphplanner/pkg/qctx"
	"github.com/authzed/graphplanner/pkg/schema"
)

// AppendFetchVertexPlan extends sp with the fetch of the vertices identified by the output of
// its root. See AppendFetchVertexPlanFromVar.
func AppendFetchVertexPlan(qc *qctx.QueryContext, nodeFilter, initialExpr expr.ID, sp plan.SubPlan) (plan.SubPlan, error) {
	if sp.IsEmpty() {
		return plan.SubPlan{}, planerrors.MustBugf("cannot fetch vertices of an empty sub-plan")
	}
	return AppendFetchVertexPlanFromVar(qc, nodeFilter, initialExpr, qc.Plan().OutputVar(sp.Root), sp)
}

// AppendFetchVertexPlanFromVar extends sp with the fetch of the vertices identified by the rows
// of inputVar. The ids come from initialExpr when set, otherwise from the end vertex of the path
// in the variable's last column. Ids are deduplicated before the fetch, nodeFilter (in alias
// form) is applied to the fetched vertices when set, and the result is normalized into the
// single path column ColPath.
func AppendFetchVertexPlanFromVar(
	qc *qctx.QueryContext,
	nodeFilter, initialExpr expr.ID,
	inputVar string,
	sp plan.SubPlan,
) (plan.SubPlan, error) {
	g, a := qc.Plan(), qc.Exprs()

	project, dedup, err := extractAndDedupVidColumn(qc, initialExpr, sp.Root, inputVar)
	if err != nil {
		return plan.SubPlan{}, err
	}
	if sp.Tail == plan.Nil {
		sp.Tail = project
	}

	props, err := schema.AllVertexProps(qc.Schema(), qc.Space(), true)
	if err != nil {
		qc.Logger().Debug().Err(err).Msg("unable to list vertex properties for fetch")
		metrics.CompileFailures.WithLabelValues("fetch_vertex").Inc()
		return plan.SubPlan{}, fmt.Errorf("unable to build vertex fetch: %w", err)
	}

	root := g.GetVertices(dedup, "", a.InputProperty(plan.ColVid), props)
	if nodeFilter != expr.Nil {
		root = g.Filter(root, "", RewriteLabelToVertex(a, nodeFilter))
	}

	root = g.Project(root, "", plan.Column{Name: ColPath, Expr: a.PathBuild(a.Vertex())})
	metrics.FetchVertexPlansBuilt.Inc()
	return sp.Extend(root), nil
}

func extractAndDedupVidColumn(qc *qctx.QueryContext, initialExpr expr.ID, dep plan.NodeID, inputVar string) (project, dedup plan.NodeID, err error) {
	g, a := qc.Plan(), qc.Exprs()

	vidExpr := initialExpr
	if vidExpr == expr.Nil {
		cols, ok := qc.Symbols().Columns(inputVar)
		if !ok || len(cols) == 0 {
			return plan.Nil, plan.Nil, planerrors.MustBugf("variable `%s` has no path column to fetch vertices from", inputVar)
		}
		vidExpr = EndVidInPath(a, cols[len(cols)-1])
	}

	project = g.Project(dep, inputVar, plan.Column{Name: plan.ColVid, Expr: vidExpr})
	return project, g.Dedup(project), nil
}
