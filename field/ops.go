package field

// Built-in operator identities. Operator nodes built for the same symbol
// share one *FuncRef, so two independently-constructed Eq(...) nodes
// compare function-identity-equal the way spec §3's StructuralEquals
// requires.
var (
	opAnd      = &FuncRef{Name: "AND"}
	opOr       = &FuncRef{Name: "OR"}
	opNot      = &FuncRef{Name: "NOT"}
	opEq       = &FuncRef{Name: "==", Scalar: func(a []interface{}) (interface{}, error) { return equalValues(a[0], a[1]), nil }}
	opNe       = &FuncRef{Name: "!=", Scalar: func(a []interface{}) (interface{}, error) { return !equalValues(a[0], a[1]), nil }}
	opLt       = &FuncRef{Name: "<", Scalar: func(a []interface{}) (interface{}, error) { return lessValues(a[0], a[1]) }}
	opLe       = &FuncRef{Name: "<=", Scalar: func(a []interface{}) (interface{}, error) {
		if equalValues(a[0], a[1]) {
			return true, nil
		}
		return lessValues(a[0], a[1])
	}}
	opGt = &FuncRef{Name: ">", Scalar: func(a []interface{}) (interface{}, error) {
		lt, err := lessValues(a[0], a[1])
		if err != nil {
			return nil, err
		}
		return !lt && !equalValues(a[0], a[1]), nil
	}}
	opGe = &FuncRef{Name: ">=", Scalar: func(a []interface{}) (interface{}, error) {
		lt, err := lessValues(a[0], a[1])
		if err != nil {
			return nil, err
		}
		return !lt, nil
	}}
	opAdd      = &FuncRef{Name: "+", Scalar: func(a []interface{}) (interface{}, error) { return valAdd(a[0], a[1]) }}
	opSub      = &FuncRef{Name: "-", Scalar: func(a []interface{}) (interface{}, error) { return valSub(a[0], a[1]) }}
	opMul      = &FuncRef{Name: "*", Scalar: func(a []interface{}) (interface{}, error) { return valMul(a[0], a[1]) }}
	opDiv      = &FuncRef{Name: "/", Scalar: func(a []interface{}) (interface{}, error) { return valDiv(a[0], a[1]) }}
	opMod      = &FuncRef{Name: "%", Scalar: func(a []interface{}) (interface{}, error) { return valMod(a[0], a[1]) }}
	opPow      = &FuncRef{Name: "**", Scalar: func(a []interface{}) (interface{}, error) { return valPow(a[0], a[1]) }}
	opIs       = &FuncRef{Name: "IS", Scalar: func(a []interface{}) (interface{}, error) { return equalValues(a[0], a[1]), nil }}
	opContains = &FuncRef{Name: "CONTAINS", Scalar: func(a []interface{}) (interface{}, error) { return valContains(a[0], a[1]) }}
	opLike     = &FuncRef{Name: "LIKE", Scalar: func(a []interface{}) (interface{}, error) { return valLike(a[0], a[1]) }}
	opMatches  = &FuncRef{Name: "MATCHES", Scalar: func(a []interface{}) (interface{}, error) { return valMatches(a[0], a[1]) }}
	opIn       = &FuncRef{Name: "IN"}
)

func binOp(ref *FuncRef, l Field, r interface{}, symbol string) Field {
	return NewOperator(ref, []Field{l, toField(r)}, symbol)
}

// Eq builds l == r.
func (f Field) Eq(r interface{}) Field { return binOp(opEq, f, r, "==") }

// Ne builds l != r.
func (f Field) Ne(r interface{}) Field { return binOp(opNe, f, r, "!=") }

// Lt builds l < r.
func (f Field) Lt(r interface{}) Field { return binOp(opLt, f, r, "<") }

// Le builds l <= r.
func (f Field) Le(r interface{}) Field { return binOp(opLe, f, r, "<=") }

// Gt builds l > r.
func (f Field) Gt(r interface{}) Field { return binOp(opGt, f, r, ">") }

// Ge builds l >= r.
func (f Field) Ge(r interface{}) Field { return binOp(opGe, f, r, ">=") }

// Add builds l + r.
func (f Field) Add(r interface{}) Field { return binOp(opAdd, f, r, "+") }

// Sub builds l - r.
func (f Field) Sub(r interface{}) Field { return binOp(opSub, f, r, "-") }

// Mul builds l * r.
func (f Field) Mul(r interface{}) Field { return binOp(opMul, f, r, "*") }

// Div builds l / r (true division).
func (f Field) Div(r interface{}) Field { return binOp(opDiv, f, r, "/") }

// Mod builds l % r.
func (f Field) Mod(r interface{}) Field { return binOp(opMod, f, r, "%") }

// Pow builds l ** r.
func (f Field) Pow(r interface{}) Field { return binOp(opPow, f, r, "**") }

// And builds l AND r.
func (f Field) And(r interface{}) Field { return binOp(opAnd, f, r, "AND") }

// Or builds l OR r.
func (f Field) Or(r interface{}) Field { return binOp(opOr, f, r, "OR") }

// Is builds l IS r.
func (f Field) Is(r interface{}) Field { return binOp(opIs, f, r, "IS") }

// Contains builds l CONTAINS r.
func (f Field) Contains(r interface{}) Field { return binOp(opContains, f, r, "CONTAINS") }

// Like builds l LIKE r, a shell-glob match.
func (f Field) Like(r interface{}) Field { return binOp(opLike, f, r, "LIKE") }

// Matches builds l MATCHES r, a regular-expression match.
func (f Field) Matches(r interface{}) Field { return binOp(opMatches, f, r, "MATCHES") }

// In builds l IN (others...).
func (f Field) In(others ...interface{}) Field {
	return NewOperator(opIn, []Field{f, List(toFields(others)...)}, "IN")
}

// As tags f with a user-visible name; it panics if name is not a valid
// identifier, mirroring the textual grammar's ID token shape (a builder
// caller controls name directly, unlike the parser, so a panic here
// surfaces a programming error immediately rather than threading an error
// return through every fluent call).
func (f Field) As(name string) Field {
	aliased, err := As(f, name)
	if err != nil {
		panic(err)
	}
	return aliased
}

// Not builds the unary NOT f.
func Not(f Field) Field {
	return NewOperator(opNot, []Field{f}, "NOT")
}

// And combines any number of fields with AND, left-associatively.
func And(fields ...Field) Field {
	return foldBinary(opAnd, "AND", fields)
}

// Or combines any number of fields with OR, left-associatively.
func Or(fields ...Field) Field {
	return foldBinary(opOr, "OR", fields)
}

func foldBinary(ref *FuncRef, symbol string, fields []Field) Field {
	if len(fields) == 0 {
		return Constant(symbol == "AND")
	}
	acc := fields[0]
	for _, f := range fields[1:] {
		acc = NewOperator(ref, []Field{acc, f}, symbol)
	}
	return acc
}
