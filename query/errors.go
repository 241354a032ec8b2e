package query

import goerrors "gopkg.in/src-d/go-errors.v1"

// Error kinds raised while building or running a Query, named after spec
// §7. Evaluation-level kinds (MissingAttribute, EvaluationError, ...) live
// in package field; lookup kinds live in package registry.
var (
	ErrInvalidClause         = goerrors.NewKind("%s clause %q is not scalar")
	ErrUngroupedProjection   = goerrors.NewKind("projection field %q is neither a GROUP BY key nor an aggregate")
	ErrAggregateWithoutGroup = goerrors.NewKind("projection field %q is aggregate but GROUP BY is absent")
	ErrReturningShapeMismatch = goerrors.NewKind("returning constructor %q rejected keys %v")
	ErrEmptyResult           = goerrors.NewKind("result has no rows")
	ErrAmbiguousResult       = goerrors.NewKind("result has more than one row")
)
