package expr

import (
	"strconv"
	"strings"

	"github.com/authzed/graphplanner/pkg/planerrors"
)

// String renders the subtree rooted at id. Nil renders as the empty string.
func (a *Arena) String(id ID) string {
	var sb strings.Builder
	a.render(&sb, id)
	return sb.String()
}

func (a *Arena) render(sb *strings.Builder, id ID) {
	if id == Nil {
		return
	}

	n := a.get(id)
	switch n.kind {
	case KindConstant:
		sb.WriteString(renderValue(n.value))

	case KindLabel:
		sb.WriteString(n.name)

	case KindLabelAttribute, KindAttribute:
		a.render(sb, n.children[0])
		if field, ok := a.fieldName(n.children[1]); ok {
			sb.WriteByte('.')
			sb.WriteString(field)
			return
		}
		sb.WriteByte('[')
		a.render(sb, n.children[1])
		sb.WriteByte(']')

	case KindVertex:
		sb.WriteString("VERTEX")

	case KindEdge:
		sb.WriteString("EDGE")

	case KindVariableProperty:
		sb.WriteByte('$')
		if n.name != "" {
			sb.WriteString(n.name)
			sb.WriteByte('.')
		}
		sb.WriteString(n.prop)

	case KindInputProperty:
		sb.WriteString("$-.")
		sb.WriteString(n.prop)

	case KindTagProperty, KindEdgeProperty:
		sb.WriteString(n.name)
		sb.WriteByte('.')
		sb.WriteString(n.prop)

	case KindSourceProperty:
		sb.WriteString("$^.")
		sb.WriteString(n.name)
		sb.WriteByte('.')
		sb.WriteString(n.prop)

	case KindDestProperty:
		sb.WriteString("$$.")
		sb.WriteString(n.name)
		sb.WriteByte('.')
		sb.WriteString(n.prop)

	case KindRelEQ, KindRelNE, KindRelLT, KindRelLE, KindRelGT, KindRelGE:
		a.render(sb, n.children[0])
		sb.WriteByte(' ')
		sb.WriteString(n.kind.operator())
		sb.WriteByte(' ')
		a.render(sb, n.children[1])

	case KindLogicalAnd, KindLogicalOr:
		sb.WriteByte('(')
		for i, child := range n.children {
			if i > 0 {
				sb.WriteByte(' ')
				sb.WriteString(n.kind.operator())
				sb.WriteByte(' ')
			}
			a.render(sb, child)
		}
		sb.WriteByte(')')

	case KindUnaryNot:
		sb.WriteString("!(")
		a.render(sb, n.children[0])
		sb.WriteByte(')')

	case KindFunctionCall:
		sb.WriteString(n.name)
		sb.WriteByte('(')
		a.renderList(sb, n.children)
		sb.WriteByte(')')

	case KindPathBuild:
		sb.WriteString("PathBuild[")
		a.renderList(sb, n.children)
		sb.WriteByte(']')

	case KindMap:
		sb.WriteByte('{')
		for i, key := range n.keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(key)
			sb.WriteString(": ")
			a.render(sb, n.children[i])
		}
		sb.WriteByte('}')

	case KindInvalid:
		planerrors.MustPanicf("cannot render an invalid expression node")

	default:
		planerrors.MustPanicf("unknown expression kind %s", n.kind)
	}
}

func (a *Arena) renderList(sb *strings.Builder, ids []ID) {
	for i, id := range ids {
		if i > 0 {
			sb.WriteString(", ")
		}
		a.render(sb, id)
	}
}

func (a *Arena) fieldName(id ID) (string, bool) {
	value, ok := a.AsConstant(id)
	if !ok {
		return "", false
	}
	field, ok := value.(string)
	return field, ok
}

func renderValue(v Value) string {
	switch typed := v.(type) {
	case nil:
		return "NULL"
	case bool:
		return strconv.FormatBool(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case float64:
		return strconv.FormatFloat(typed, 'g', -1, 64)
	case string:
		return strconv.Quote(typed)
	default:
		planerrors.MustPanicf("unsupported constant type %T", v)
		return ""
	}
}
