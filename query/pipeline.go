package query

import (
	"github.com/jbchouinard/go-snakeql/field"
	"github.com/jbchouinard/go-snakeql/registry"
	"github.com/mitchellh/hashstructure"
	"github.com/pkg/errors"
)

// item flows through the pipeline's channels: exactly one of value (a
// record, pre-projection, or a row, post-projection) or err is
// meaningful. An err item is always the last one sent on its channel.
type item struct {
	value interface{}
	err   error
}

func sourceStage(records []interface{}) <-chan item {
	out := make(chan item)
	go func() {
		defer close(out)
		for _, r := range records {
			out <- item{value: r}
		}
	}()
	return out
}

// filterStage implements the WHERE pipeline stage: pass-through when
// where is nil, otherwise retains records where where.EvalScalar is
// truthy (spec §4.D stage 1).
func filterStage(in <-chan item, where *field.Field) <-chan item {
	if where == nil {
		return in
	}
	out := make(chan item)
	go func() {
		defer close(out)
		for it := range in {
			if it.err != nil {
				out <- it
				return
			}
			v, err := where.EvalScalar(it.value)
			if err != nil {
				out <- item{err: err}
				return
			}
			if field.Truthy(v) {
				out <- it
			}
		}
	}()
	return out
}

// projectStage implements the ungrouped branch of stage 2: maps each
// surviving record to a tuple (f1(r), ..., fn(r)).
func projectStage(in <-chan item, fields []field.Field) <-chan item {
	out := make(chan item)
	go func() {
		defer close(out)
		for it := range in {
			if it.err != nil {
				out <- it
				return
			}
			row := make([]interface{}, len(fields))
			for i, f := range fields {
				v, err := f.EvalScalar(it.value)
				if err != nil {
					out <- item{err: err}
					return
				}
				row[i] = v
			}
			out <- item{value: row}
		}
	}()
	return out
}

// groupEntry accumulates the records sharing one group key, in the order
// the key was first seen.
type groupEntry struct {
	key     []interface{}
	records []interface{}
}

// groupStage implements the grouped branch of stage 2: it materializes
// surviving records (bounded by total input size, not the full input
// upfront — filtering has already run), partitions them by the group key
// tuple in first-seen order (spec §9 point 4's resolved open question),
// and emits one projected row per group.
func groupStage(in <-chan item, groupBy []field.Field, fields []field.Field) <-chan item {
	out := make(chan item)
	go func() {
		defer close(out)

		order := make([]uint64, 0)
		groups := make(map[uint64]*groupEntry)

		for it := range in {
			if it.err != nil {
				out <- it
				return
			}
			key := make([]interface{}, len(groupBy))
			for i, g := range groupBy {
				v, err := g.EvalScalar(it.value)
				if err != nil {
					out <- item{err: err}
					return
				}
				key[i] = v
			}
			hash, err := hashstructure.Hash(key, nil)
			if err != nil {
				out <- item{err: errors.Wrap(err, "group key is not hashable")}
				return
			}
			entry, ok := groups[hash]
			if !ok {
				entry = &groupEntry{key: key}
				groups[hash] = entry
				order = append(order, hash)
			}
			entry.records = append(entry.records, it.value)
		}

		for _, hash := range order {
			entry := groups[hash]
			row, err := projectGroupRow(fields, groupBy, entry.key, entry.records)
			if err != nil {
				out <- item{err: err}
				return
			}
			out <- item{value: row}
		}
	}()
	return out
}

// projectGroupRow produces one output row for a group: a projection field
// structurally equal to a GROUP BY entry takes that entry's key value;
// every other projection field (which GroupBy already validated is
// aggregate) is evaluated across the whole group.
func projectGroupRow(fields, groupBy []field.Field, key []interface{}, records []interface{}) ([]interface{}, error) {
	row := make([]interface{}, len(fields))
	for i, f := range fields {
		if idx := groupKeyIndex(f, groupBy); idx >= 0 {
			row[i] = key[idx]
			continue
		}
		v, err := f.EvalAggregate(records)
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}

func groupKeyIndex(f field.Field, groupBy []field.Field) int {
	for i, g := range groupBy {
		if f.StructuralEquals(g) {
			return i
		}
	}
	return -1
}

// flattenStage implements stage 3: when flatten is set, a one-element row
// is replaced by its sole value.
func flattenStage(in <-chan item, flatten bool) <-chan item {
	if !flatten {
		return in
	}
	out := make(chan item)
	go func() {
		defer close(out)
		for it := range in {
			if it.err != nil {
				out <- it
				return
			}
			row := it.value.([]interface{})
			if len(row) == 1 {
				out <- item{value: row[0]}
			} else {
				out <- it
			}
		}
	}()
	return out
}

// distinctStage implements stage 4: yields only rows not seen before,
// structural equality on row values implemented via hashstructure.Hash,
// preserving first-seen order. A row shape that cannot be hashed (e.g. it
// embeds a function value) surfaces as an EvaluationError, per the
// restriction documented for spec §9 point 5.
func distinctStage(in <-chan item, distinct bool) <-chan item {
	if !distinct {
		return in
	}
	out := make(chan item)
	go func() {
		defer close(out)
		seen := make(map[uint64]bool)
		for it := range in {
			if it.err != nil {
				out <- it
				return
			}
			hash, err := hashstructure.Hash(it.value, nil)
			if err != nil {
				out <- item{err: field.ErrEvaluationError.New("DISTINCT", errors.Wrap(err, "row is not hashable"))}
				return
			}
			if seen[hash] {
				continue
			}
			seen[hash] = true
			out <- it
		}
	}()
	return out
}

// returnStage implements stage 5: zips projection display names with row
// values into ctor, passing them as a keyed record.
func returnStage(in <-chan item, fields []field.Field, returnName string, ctor registry.Constructor) <-chan item {
	if ctor == nil {
		return in
	}
	out := make(chan item)
	go func() {
		defer close(out)
		for it := range in {
			if it.err != nil {
				out <- it
				return
			}
			row := it.value.([]interface{})
			values := make(map[string]interface{}, len(fields))
			for i, f := range fields {
				values[f.DisplayName()] = row[i]
			}
			v, err := ctor(values)
			if err != nil {
				out <- item{err: ErrReturningShapeMismatch.New(returnName, values)}
				return
			}
			out <- item{value: v}
		}
	}()
	return out
}
