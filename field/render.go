package field

import (
	"fmt"
	"strconv"
	"strings"
)

// Render produces a parser-round-trippable human form of f: Operator
// renders infix in parentheses, Alias renders "<inner> AS <name>".
func (f Field) Render() string {
	switch f.kind {
	case KindIdentity:
		return "o"
	case KindAttribute:
		return "o." + f.attr
	case KindKey:
		return "o[" + renderLiteral(f.key) + "]"
	case KindConstant:
		return renderLiteral(f.value)
	case KindList:
		return RenderList(f.children)
	case KindAlias:
		return f.children[0].Render() + " AS " + f.alias
	case KindOperator:
		return f.renderOperator()
	case KindScalarFn, KindAggregateFn:
		args := make([]string, len(f.children))
		for i, c := range f.children {
			args[i] = c.Render()
		}
		return f.op + "(" + strings.Join(args, ", ") + ")"
	default:
		return "?"
	}
}

func (f Field) renderOperator() string {
	switch f.op {
	case "NOT":
		return "NOT " + f.children[0].Render()
	case "IN":
		return "(" + f.children[0].Render() + " IN " + RenderList(f.children[1].children) + ")"
	default:
		return "(" + f.children[0].Render() + " " + f.op + " " + f.children[1].Render() + ")"
	}
}

// DisplayName is the key used to materialize f into a RETURNING shape:
// the attribute/key name itself, the alias for Alias, and the printed
// form for everything else.
func (f Field) DisplayName() string {
	switch f.kind {
	case KindAttribute:
		return f.attr
	case KindKey:
		return fmt.Sprintf("%v", f.key)
	case KindAlias:
		return f.alias
	case KindConstant:
		return renderLiteral(f.value)
	default:
		return f.Render()
	}
}

func renderLiteral(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "NONE"
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case string:
		var b strings.Builder
		b.WriteByte('\'')
		for _, r := range x {
			switch r {
			case '\\':
				b.WriteString(`\\`)
			case '\'':
				b.WriteString(`\'`)
			default:
				b.WriteRune(r)
			}
		}
		b.WriteByte('\'')
		return b.String()
	case float32, float64:
		return strconv.FormatFloat(toFloatOrZero(x), 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func toFloatOrZero(v interface{}) float64 {
	f, _ := toFloat(v)
	return f
}

// RenderList renders a field sequence the way the grammar's fexprplus
// does: no enclosing brackets, comma-separated, and — per spec §4.F's
// observation that a trailing comma forces list form — a single-element
// list prints with a trailing comma so it round-trips to the same (list,
// not flattened) shape.
func RenderList(fields []Field) string {
	switch len(fields) {
	case 0:
		return "()"
	case 1:
		return fields[0].Render() + ","
	default:
		parts := make([]string, len(fields))
		for i, f := range fields {
			parts[i] = f.Render()
		}
		return strings.Join(parts, ", ")
	}
}
