package row

import "sqlfake/internal/sqlvalue"

// ID is a dataset row-id: an arbitrary comparable key, typically the
// primary key value (spec §3's "Dataset" definition). It wraps either an
// int64 or a string so datasets can be keyed like MySQL primary keys
// without resorting to an unconstrained `any` map key at every call site.
type ID struct {
	i     int64
	s     string
	isStr bool
}

// IntID builds an integer row-id.
func IntID(v int64) ID { return ID{i: v} }

// StringID builds a string row-id.
func StringID(v string) ID { return ID{s: v, isStr: true} }

// FromValue derives a row-id from a primary-key Value, matching spec
// Invariant I4 ("Dataset key for the PK column equals the row's value of
// that column at all times").
func FromValue(v sqlvalue.Value) ID {
	if v.Kind() == sqlvalue.KindInt {
		return IntID(v.Int())
	}
	return StringID(v.String())
}

// String renders the id for display and for use as an index-ref leaf
// key component.
func (id ID) String() string {
	if id.isStr {
		return id.s
	}
	return sqlvalue.NewInt(id.i).String()
}

// Dataset is an ordered row-id -> Row mapping. Order carries both
// insertion order and, after ApplyOrderBy, sort order (spec §3).
type Dataset struct {
	order []ID
	rows  map[ID]*Row
}

// NewDataset returns an empty Dataset.
func NewDataset() *Dataset {
	return &Dataset{rows: make(map[ID]*Row)}
}

// Len reports the number of rows.
func (d *Dataset) Len() int { return len(d.order) }

// Keys returns the row-ids in current order. Callers must not mutate the
// returned slice.
func (d *Dataset) Keys() []ID { return d.order }

// Get returns the row at id, or nil if absent.
func (d *Dataset) Get(id ID) *Row { return d.rows[id] }

// Has reports whether id is present.
func (d *Dataset) Has(id ID) bool {
	_, ok := d.rows[id]
	return ok
}

// Set inserts or overwrites the row at id, appending id to the order the
// first time it is written.
func (d *Dataset) Set(id ID, r *Row) {
	if _, ok := d.rows[id]; !ok {
		d.order = append(d.order, id)
	}
	d.rows[id] = r
}

// Delete removes id from the dataset.
func (d *Dataset) Delete(id ID) {
	if _, ok := d.rows[id]; !ok {
		return
	}
	delete(d.rows, id)
	for i, k := range d.order {
		if k == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Rekey replaces the entry at oldID with newID -> row, preserving the
// position of surrounding entries — spec §4.5.2.5.g requires this exact
// in-place behavior when a PRIMARY KEY UPDATE changes the row-id
// (scenario 4: `[10,20,30]` with 20 rekeyed to 25 yields `[10,25,30]`).
func (d *Dataset) Rekey(oldID, newID ID, newRow *Row) {
	if oldID == newID {
		d.rows[oldID] = newRow
		return
	}
	delete(d.rows, oldID)
	d.rows[newID] = newRow
	for i, k := range d.order {
		if k == oldID {
			d.order[i] = newID
			return
		}
	}
	// oldID was not actually present; append as a new row.
	d.order = append(d.order, newID)
}

// Clone returns a Dataset with an independent order slice and row map,
// but sharing *Row pointers with the receiver — the copy-on-write
// discipline spec §5 recommends: callers that mutate a row must first
// replace it with a fresh *Row (e.g. via Row.Clone), not mutate in place.
func (d *Dataset) Clone() *Dataset {
	n := &Dataset{
		order: make([]ID, len(d.order)),
		rows:  make(map[ID]*Row, len(d.rows)),
	}
	copy(n.order, d.order)
	for k, v := range d.rows {
		n.rows[k] = v
	}
	return n
}

// Reorder returns a new Dataset containing the same rows, reordered to
// match newOrder. newOrder must be a permutation of d.Keys().
func (d *Dataset) Reorder(newOrder []ID) *Dataset {
	n := &Dataset{
		order: make([]ID, len(newOrder)),
		rows:  d.rows,
	}
	copy(n.order, newOrder)
	return n
}

// Slice returns a new Dataset retaining only the rows whose keys appear
// in ids, in that order — used by ApplyLimit (spec §4.3).
func (d *Dataset) Slice(ids []ID) *Dataset {
	n := &Dataset{
		order: make([]ID, 0, len(ids)),
		rows:  make(map[ID]*Row, len(ids)),
	}
	for _, id := range ids {
		if r, ok := d.rows[id]; ok {
			n.order = append(n.order, id)
			n.rows[id] = r
		}
	}
	return n
}

// Each calls fn for every row in current order.
func (d *Dataset) Each(fn func(id ID, r *Row)) {
	for _, id := range d.order {
		fn(id, d.rows[id])
	}
}
