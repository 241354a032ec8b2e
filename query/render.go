package query

import (
	"strings"

	"github.com/jbchouinard/go-snakeql/field"
)

// String is an alias for Render, satisfying fmt.Stringer.
func (q *Query) String() string { return q.Render() }

// Render produces the multi-line textual form used by the round-trip
// property test: SELECT [DISTINCT] projection, one optional clause line
// per WHERE/GROUP BY/RETURNING that is present.
func (q *Query) Render() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if q.distinct {
		b.WriteString("DISTINCT ")
	}
	b.WriteString(renderProjection(q.fields, q.flatten))

	if q.where != nil {
		b.WriteString("\nWHERE ")
		b.WriteString(q.where.Render())
	}
	if len(q.groupBy) > 0 {
		b.WriteString("\nGROUP BY ")
		parts := make([]string, len(q.groupBy))
		for i, g := range q.groupBy {
			parts[i] = g.Render()
		}
		b.WriteString(strings.Join(parts, ", "))
	}
	if q.returnName != "" {
		b.WriteString("\nRETURNING ")
		b.WriteString(q.returnName)
	}
	return b.String()
}

// renderProjection mirrors field.RenderList's trailing-comma convention
// for a one-element non-flattened list, since that is exactly the shape a
// trailing comma in the grammar round-trips to; a flattened single field
// renders bare.
func renderProjection(fields []field.Field, flatten bool) string {
	if flatten && len(fields) == 1 {
		return fields[0].Render()
	}
	return field.RenderList(fields)
}
