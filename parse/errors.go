// Package parse turns the textual query surface into a *query.Query: a
// recursive-descent, precedence-climbing parser over the token stream
// package lex produces, grounded on spec §4.F's grammar.
package parse

import goerrors "gopkg.in/src-d/go-errors.v1"

// ErrParseError is raised on any token the grammar does not expect at
// that position, named after spec §7.
var ErrParseError = goerrors.NewKind("unexpected %s token %q at line %d")

// ErrUnterminatedStatement is raised when the parser finds no token at all
// where a grammar production expects one. Input that simply ends early
// (a missing ')' or ']') still ends in an EOF token and is reported as
// ErrParseError.
var ErrUnterminatedStatement = goerrors.NewKind("unexpected end of input, expected %s")
