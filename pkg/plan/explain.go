package plan

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/authzed/graphplanner/pkg/expr"
	"github.com/authzed/graphplanner/pkg/planerrors"
	"github.com/authzed/graphplanner/pkg/schema"
)

// Explain describes a plan node and the nodes it depends on.
type Explain struct {
	Info       string
	SubExplain []Explain
}

func (e Explain) String() string {
	var sb strings.Builder
	e.write(&sb, 0)
	return sb.String()
}

func (e Explain) write(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(e.Info)
	sb.WriteByte('\n')
	for _, sub := range e.SubExplain {
		sub.write(sb, depth+1)
	}
}

// Explain returns the tree of nodes reachable from root, dependencies first-to-last. A node shared
// by several dependents is described in full at its first occurrence and referenced by its
// output variable afterwards.
func (g *Graph) Explain(root NodeID) Explain {
	return g.explain(root, map[NodeID]struct{}{})
}

func (g *Graph) explain(id NodeID, seen map[NodeID]struct{}) Explain {
	n := g.get(id)
	if _, ok := seen[id]; ok {
		return Explain{Info: "ref " + n.OutputVar}
	}
	seen[id] = struct{}{}

	explain := Explain{Info: g.describe(n)}
	for _, dep := range n.Deps {
		explain.SubExplain = append(explain.SubExplain, g.explain(dep, seen))
	}
	return explain
}

func (g *Graph) describe(n *Node) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s [%s]", n.Kind, n.OutputVar, strings.Join(n.ColNames, ", "))
	if n.InputVar != "" {
		fmt.Fprintf(&sb, " input=%s", n.InputVar)
	}

	switch n.Kind {
	case KindStart, KindDedup:
	case KindValues:
		fmt.Fprintf(&sb, " rows=[%s]", g.exprList(n.Rows))
	case KindProject:
		cols := make([]string, 0, len(n.Columns))
		for _, col := range n.Columns {
			cols = append(cols, col.Name+"="+g.exprs.String(col.Expr))
		}
		fmt.Fprintf(&sb, " columns={%s}", strings.Join(cols, ", "))
	case KindFilter:
		fmt.Fprintf(&sb, " condition=%s", g.exprs.String(n.Condition))
	case KindGetVertices:
		fmt.Fprintf(&sb, " src=%s props=%s", g.exprs.String(n.Src), describeVertexProps(n.VertexProps))
	case KindGetNeighbors:
		fmt.Fprintf(&sb, " src=%s over=%s %s", g.exprs.String(n.Src), strings.Join(n.EdgeTypes, ","), n.Direction)
		if len(n.VertexProps) > 0 {
			fmt.Fprintf(&sb, " vertexProps=%s", describeVertexProps(n.VertexProps))
		}
		fmt.Fprintf(&sb, " edgeProps=%s", describeEdgeProps(n.EdgeProps))
	case KindInnerJoin, KindLeftJoin:
		fmt.Fprintf(&sb, " left=%s right=%s hash=[%s] probe=[%s]",
			n.LeftVar, n.RightVar, g.exprList(n.HashKeys), g.exprList(n.ProbeKeys))
	case KindUnion:
		fmt.Fprintf(&sb, " left=%s right=%s", n.LeftVar, n.RightVar)
	default:
		planerrors.MustPanicf("unknown plan node kind %s", n.Kind)
	}
	return sb.String()
}

func (g *Graph) exprList(ids []expr.ID) string {
	rendered := make([]string, 0, len(ids))
	for _, id := range ids {
		rendered = append(rendered, g.exprs.String(id))
	}
	return strings.Join(rendered, ", ")
}

func describeVertexProps(props []schema.VertexProp) string {
	parts := make([]string, 0, len(props))
	for _, vp := range props {
		parts = append(parts, vp.Tag+"{"+strings.Join(vp.Props, ",")+"}")
	}
	return strings.Join(parts, " ")
}

func describeEdgeProps(props []schema.EdgeProp) string {
	parts := make([]string, 0, len(props))
	for _, ep := range props {
		parts = append(parts, ep.TypeName()+"{"+strings.Join(ep.Props, ",")+"}")
	}
	return strings.Join(parts, " ")
}

// Reachable returns every node reachable from root through dependencies, root first, each node
// once.
func (g *Graph) Reachable(root NodeID) []NodeID {
	var order []NodeID
	seen := map[NodeID]struct{}{}
	var visit func(id NodeID)
	visit = func(id NodeID) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		order = append(order, id)
		for _, dep := range g.get(id).Deps {
			visit(dep)
		}
	}
	visit(root)
	return order
}

// CountKinds counts the operators reachable from root by kind.
func (g *Graph) CountKinds(root NodeID) map[Kind]int {
	counts := map[Kind]int{}
	for _, id := range g.Reachable(root) {
		counts[g.nodes[id].Kind]++
	}
	return counts
}

// Find returns the nodes of the given kind reachable from root, in Reachable order.
func (g *Graph) Find(root NodeID, kind Kind) []NodeID {
	var found []NodeID
	for _, id := range g.Reachable(root) {
		if g.nodes[id].Kind == kind {
			found = append(found, id)
		}
	}
	return found
}

// Fingerprint hashes the explain text of root. Two plans with the same operators, wiring and
// expressions share a fingerprint.
func (g *Graph) Fingerprint(root NodeID) uint64 {
	return xxhash.Sum64String(g.Explain(root).String())
}
