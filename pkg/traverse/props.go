package traverse

import (
	"fmt"
	"slices"
	"strings"

	"github.com/authzed/graphplanner/pkg/expr"
	"github.com/authzed/graphplanner/pkg/genutil/mapz"
	"github.com/authzed/graphplanner/pkg/match"
	"github.com/authzed/graphplanner/pkg/plan"
	"github.com/authzed/graphplanner/pkg/schema"
)

// refColumn is a property referenced by the yield clause, materialized as a column named after
// the reference. expr computes it over the row of the operator producing the column.
type refColumn struct {
	name string
	expr expr.ID
}

// propRefs classifies the property references of a traversal's filter and yields.
type propRefs struct {
	srcEdge []refColumn
	dst     []refColumn
	input   []string

	srcProps   *mapz.MultiMap[string, string]
	dstProps   *mapz.MultiMap[string, string]
	edgeProps  *mapz.MultiMap[string, string]
	labelProps []string
}

func newPropRefs() *propRefs {
	return &propRefs{
		srcProps:  mapz.NewMultiMap[string, string](),
		dstProps:  mapz.NewMultiMap[string, string](),
		edgeProps: mapz.NewMultiMap[string, string](),
	}
}

func isPropRef(a *expr.Arena, id expr.ID) bool {
	switch a.Kind(id) {
	case expr.KindSourceProperty, expr.KindEdgeProperty, expr.KindDestProperty,
		expr.KindInputProperty, expr.KindLabel, expr.KindLabelAttribute:
		return true
	default:
		return false
	}
}

func addColumn(cols []refColumn, col refColumn) []refColumn {
	if slices.ContainsFunc(cols, func(existing refColumn) bool { return existing.name == col.name }) {
		return cols
	}
	return append(cols, col)
}

// collect records the references of id. Filter references are only requested from storage;
// yield references also become columns.
func (pr *propRefs) collect(a *expr.Arena, id expr.ID, inFilter bool) error {
	var err error
	a.Walk(id, func(id expr.ID) bool {
		if err != nil || !isPropRef(a, id) {
			return err == nil
		}

		name := a.String(id)
		switch a.Kind(id) {
		case expr.KindSourceProperty:
			pr.srcProps.Add(a.Name(id), a.Prop(id))
			if !inFilter {
				pr.srcEdge = addColumn(pr.srcEdge, refColumn{name: name, expr: a.Clone(id)})
			}

		case expr.KindEdgeProperty:
			pr.edgeProps.Add(a.Name(id), a.Prop(id))
			if !inFilter {
				pr.srcEdge = addColumn(pr.srcEdge, refColumn{name: name, expr: a.Clone(id)})
			}

		case expr.KindLabel, expr.KindLabelAttribute:
			if la, ok := a.AsLabelAttribute(id); ok && !slices.Contains(pr.labelProps, la.Field) {
				pr.labelProps = append(pr.labelProps, la.Field)
			}
			if !inFilter {
				pr.srcEdge = addColumn(pr.srcEdge, refColumn{name: name, expr: match.RewriteLabelToEdge(a, id)})
			}

		case expr.KindDestProperty:
			if inFilter {
				err = NewDestPropertyInFilterErr(name)
				return false
			}
			pr.dstProps.Add(a.Name(id), a.Prop(id))
			pr.dst = addColumn(pr.dst, refColumn{name: name, expr: a.TagProperty(a.Name(id), a.Prop(id))})

		case expr.KindInputProperty:
			if inFilter {
				err = fmt.Errorf("input column `%s` cannot be used in the traversal filter", a.Prop(id))
				return false
			}
			if !slices.Contains(pr.input, a.Prop(id)) {
				pr.input = append(pr.input, a.Prop(id))
			}
		}
		return false
	})
	return err
}

// requests are the storage property requests of a traversal.
type requests struct {
	edgeTypes []string
	direction plan.Direction
	srcProps  []schema.VertexProp
	dstProps  []schema.VertexProp
	edgeProps []schema.EdgeProp
}

func (b *Builder) buildRequests(refs *propRefs, over Over) (requests, error) {
	reader, space := b.qc.Schema(), b.qc.Space()

	edgeTypes := slices.Clone(over.EdgeTypes)
	if len(edgeTypes) == 0 {
		all, err := reader.ListEdges(space)
		if err != nil {
			return requests{}, err
		}
		edgeTypes = all
	}

	srcProps, err := vertexRequests(reader, space, refs.srcProps)
	if err != nil {
		return requests{}, err
	}
	dstProps, err := vertexRequests(reader, space, refs.dstProps)
	if err != nil {
		return requests{}, err
	}

	for _, edge := range refs.edgeProps.Keys() {
		if !slices.Contains(edgeTypes, edge) {
			return requests{}, fmt.Errorf("edge `%s` is referenced but not traversed", edge)
		}
	}

	labelDeclared := map[string]bool{}
	var edgeProps []schema.EdgeProp
	for _, edge := range edgeTypes {
		defs, err := reader.EdgeProps(space, edge)
		if err != nil {
			return requests{}, err
		}

		explicit, _ := refs.edgeProps.Get(edge)
		if err := schema.RequireProps(defs, edge, explicit); err != nil {
			return requests{}, err
		}

		props := []string{schema.PropDst}
		for _, prop := range explicit {
			if !slices.Contains(props, prop) {
				props = append(props, prop)
			}
		}
		for _, prop := range refs.labelProps {
			if schema.RequireProps(defs, edge, []string{prop}) != nil {
				continue
			}
			labelDeclared[prop] = true
			if !slices.Contains(props, prop) {
				props = append(props, prop)
			}
		}

		if over.Direction != plan.DirectionIn {
			edgeProps = append(edgeProps, schema.EdgeProp{Edge: edge, Props: props})
		}
		if over.Direction != plan.DirectionOut {
			edgeProps = append(edgeProps, schema.EdgeProp{Edge: edge, Reverse: true, Props: slices.Clone(props)})
		}
	}

	for _, prop := range refs.labelProps {
		if !labelDeclared[prop] {
			return requests{}, schema.NewPropertyNotFoundErr(strings.Join(edgeTypes, ","), prop)
		}
	}

	return requests{
		edgeTypes: edgeTypes,
		direction: over.Direction,
		srcProps:  srcProps,
		dstProps:  dstProps,
		edgeProps: edgeProps,
	}, nil
}

func vertexRequests(reader schema.Reader, space string, byTag *mapz.MultiMap[string, string]) ([]schema.VertexProp, error) {
	var out []schema.VertexProp
	for _, tag := range byTag.Keys() {
		defs, err := reader.TagProps(space, tag)
		if err != nil {
			return nil, err
		}
		props, _ := byTag.Get(tag)
		if err := schema.RequireProps(defs, tag, props); err != nil {
			return nil, err
		}
		out = append(out, schema.VertexProp{Tag: tag, Props: props})
	}
	return out, nil
}
