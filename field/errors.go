package field

import goerrors "gopkg.in/src-d/go-errors.v1"

// Error kinds raised while evaluating a field against a record or group,
// named after spec §7.
var (
	ErrMissingAttribute  = goerrors.NewKind("missing attribute %q")
	ErrMissingKey        = goerrors.NewKind("missing key %v")
	ErrUnsupportedLookup = goerrors.NewKind("record of type %T does not support keyed lookup")
	ErrEvaluationError   = goerrors.NewKind("evaluation error in %s: %s")
	ErrInvalidAlias      = goerrors.NewKind("invalid alias name %q")

	// ErrNotScalar and ErrNotAggregate guard the total-function shape of
	// EvalScalar/EvalAggregate: the executor only ever calls the one a
	// field's classification predicates allow, so these are defensive,
	// not expected to surface from a well-formed query.
	ErrNotScalar    = goerrors.NewKind("%s is not a scalar field")
	ErrNotAggregate = goerrors.NewKind("%s is not an aggregate field")
)
