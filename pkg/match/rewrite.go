package match

import (
	"github.com/authzed/graphplanner/pkg/expr"
	"github.com/authzed/graphplanner/pkg/planerrors"
)

func isLabel(a *expr.Arena, id expr.ID) bool {
	kind := a.Kind(id)
	return kind == expr.KindLabel || kind == expr.KindLabelAttribute
}

// RewriteLabelToVertex resolves every alias reference to the current row's vertex:
// `v` becomes VERTEX and `v.prop` becomes VERTEX.prop.
func RewriteLabelToVertex(a *expr.Arena, id expr.ID) expr.ID {
	return a.Transform(id, isLabel, func(a *expr.Arena, id expr.ID) expr.ID {
		if la, ok := a.AsLabelAttribute(id); ok {
			return a.Attribute(a.Vertex(), a.Clone(la.FieldID))
		}
		return a.Vertex()
	})
}

// RewriteLabelToEdge resolves every alias reference to the current row's edge:
// `e` becomes EDGE and `e.prop` becomes EDGE.prop.
func RewriteLabelToEdge(a *expr.Arena, id expr.ID) expr.ID {
	return a.Transform(id, isLabel, func(a *expr.Arena, id expr.ID) expr.ID {
		if la, ok := a.AsLabelAttribute(id); ok {
			return a.Attribute(a.Edge(), a.Clone(la.FieldID))
		}
		return a.Edge()
	})
}

// RewriteLabelToVarProp resolves every alias reference to the variable of the same name:
// `v` becomes $v and `v.prop` becomes $v["prop"], an attribute over a constant holding the
// field name.
func RewriteLabelToVarProp(a *expr.Arena, id expr.ID) expr.ID {
	return a.Transform(id, isLabel, func(a *expr.Arena, id expr.ID) expr.ID {
		if la, ok := a.AsLabelAttribute(id); ok {
			return a.Attribute(a.VariableProperty("", la.Alias), a.Constant(la.Field))
		}
		name, _ := a.AsLabel(id)
		return a.VariableProperty("", name)
	})
}

// DoRewrite checks that every alias referenced by the tree was declared by the pattern, then
// resolves the references to variables with RewriteLabelToVarProp.
func DoRewrite(a *expr.Arena, aliases AliasTable, id expr.ID) (expr.ID, error) {
	var undeclared string
	a.Walk(id, func(id expr.ID) bool {
		if undeclared != "" {
			return false
		}
		if name, ok := a.AsLabel(id); ok {
			if _, declared := aliases[name]; !declared {
				undeclared = name
			}
		}
		return true
	})
	if undeclared != "" {
		return expr.Nil, planerrors.MustBugf("alias `%s` is not declared by the pattern", undeclared)
	}
	return RewriteLabelToVarProp(a, id), nil
}
