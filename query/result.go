package query

// Result is the lazy row sequence a Run produces: a single-pass pull
// stream, cancelled simply by abandoning iteration (the pipeline holds no
// external handles to release).
type Result struct {
	ch <-chan item
}

// Next pulls the next row. ok is false once the sequence is exhausted
// (err is nil in that case); an error stops the sequence permanently.
func (r *Result) Next() (row interface{}, ok bool, err error) {
	it, open := <-r.ch
	if !open {
		return nil, false, nil
	}
	if it.err != nil {
		return nil, false, it.err
	}
	return it.value, true, nil
}

// List materializes the whole sequence into an ordered slice.
func (r *Result) List() ([]interface{}, error) {
	var rows []interface{}
	for {
		row, ok, err := r.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return rows, nil
		}
		rows = append(rows, row)
	}
}

// One consumes the sequence expecting exactly one row: ErrEmptyResult for
// zero, ErrAmbiguousResult for two or more.
func (r *Result) One() (interface{}, error) {
	row, ok, err := r.Next()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrEmptyResult.New()
	}
	_, ok, err = r.Next()
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, ErrAmbiguousResult.New()
	}
	return row, nil
}
