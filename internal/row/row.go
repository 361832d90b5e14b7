// Package row implements the Row and Dataset types: an insertion-order
// preserving column map and an insertion/sort-order preserving map of
// row-id to Row, per spec §3.
package row

import "sqlfake/internal/sqlvalue"

// FakeValuesPrefix is the synthetic-column prefix applySet injects so
// `VALUES(col)` expressions can read the row an INSERT ... ON DUPLICATE
// KEY UPDATE would have inserted. It never reaches persisted data
// (spec §3, §4.5.2.1).
const FakeValuesPrefix = "sql_fake_values."

// Row is an ordered column-name -> Value mapping. Order is insertion
// order, matching spec §3's "insertion order preserved" contract.
type Row struct {
	names  []string
	values map[string]sqlvalue.Value
}

// NewRow returns an empty Row.
func NewRow() *Row {
	return &Row{values: make(map[string]sqlvalue.Value)}
}

// Set assigns col to v, appending col to the insertion order the first
// time it is written.
func (r *Row) Set(col string, v sqlvalue.Value) {
	if _, ok := r.values[col]; !ok {
		r.names = append(r.names, col)
	}
	r.values[col] = v
}

// Get returns the value at col and whether col is present.
func (r *Row) Get(col string) (sqlvalue.Value, bool) {
	v, ok := r.values[col]
	return v, ok
}

// GetOr returns the value at col, or sqlvalue.Null if absent.
func (r *Row) GetOr(col string) sqlvalue.Value {
	v, ok := r.values[col]
	if !ok {
		return sqlvalue.Null
	}
	return v
}

// Delete removes col from the row.
func (r *Row) Delete(col string) {
	if _, ok := r.values[col]; !ok {
		return
	}
	delete(r.values, col)
	for i, n := range r.names {
		if n == col {
			r.names = append(r.names[:i], r.names[i+1:]...)
			break
		}
	}
}

// Columns returns the column names in insertion order. Callers must not
// mutate the returned slice.
func (r *Row) Columns() []string { return r.names }

// Clone returns a deep-enough copy of r: a new backing map and name
// slice, sharing no mutable state with r. Values themselves are
// immutable, so a shallow copy of each entry suffices.
func (r *Row) Clone() *Row {
	n := &Row{
		names:  make([]string, len(r.names)),
		values: make(map[string]sqlvalue.Value, len(r.values)),
	}
	copy(n.names, r.names)
	for k, v := range r.values {
		n.values[k] = v
	}
	return n
}

// WithFakeValues returns a clone of r with every column of values
// attached under the FakeValuesPrefix, implementing spec §4.5.2.1's
// `VALUES(col)` channel for INSERT ... ON DUPLICATE KEY UPDATE.
func (r *Row) WithFakeValues(values *Row) *Row {
	n := r.Clone()
	if values == nil {
		return n
	}
	for _, col := range values.Columns() {
		n.Set(FakeValuesPrefix+col, values.GetOr(col))
	}
	return n
}

// StripSynthetic returns a clone of r with every FakeValuesPrefix column
// removed. Synthetic ORDER BY key columns are left alone here:
// internal/engine.MaterializeOrderKeys adds them only to cloned rows of a
// SELECT result, and those rows are never persisted.
func (r *Row) StripSynthetic() *Row {
	n := NewRow()
	for _, col := range r.names {
		if len(col) >= len(FakeValuesPrefix) && col[:len(FakeValuesPrefix)] == FakeValuesPrefix {
			continue
		}
		n.Set(col, r.values[col])
	}
	return n
}
