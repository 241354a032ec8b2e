package query

import "github.com/sirupsen/logrus"

// Run compiles q against records and returns a lazy Result. Validation
// that depends on the final, fully-chained query shape (rather than on a
// single clause in isolation) happens here: a projection field that is
// aggregate with no GROUP BY attached fails with AggregateWithoutGroup.
func (q *Query) Run(records []interface{}) (*Result, error) {
	if len(q.groupBy) == 0 {
		for _, f := range q.fields {
			if !f.IsScalar() {
				return nil, ErrAggregateWithoutGroup.New(f.Render())
			}
		}
	}

	logrus.WithFields(logrus.Fields{
		"fields":   len(q.fields),
		"groupBy":  len(q.groupBy),
		"distinct": q.distinct,
		"flatten":  q.flatten,
	}).Debug("query: running pipeline")

	out := sourceStage(records)
	out = filterStage(out, q.where)
	if len(q.groupBy) > 0 {
		out = groupStage(out, q.groupBy, q.fields)
	} else {
		out = projectStage(out, q.fields)
	}
	out = flattenStage(out, q.flatten)
	out = distinctStage(out, q.distinct)
	out = returnStage(out, q.fields, q.returnName, q.returnCtor)

	return &Result{ch: out}, nil
}
