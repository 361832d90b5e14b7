package engine

import (
	"reflect"

	"sqlfake/internal/indexrefs"
	"sqlfake/internal/integrity"
	"sqlfake/internal/queryctx"
	"sqlfake/internal/row"
	"sqlfake/internal/schema"
	"sqlfake/internal/sqlexpr"
)

// Assignment is one `column = expr` pair from a SET clause.
type Assignment struct {
	Column string
	Expr   sqlexpr.Expression
}

// SetOptions controls applySet's duplicate-key handling (spec
// §4.5.2.5.d).
type SetOptions struct {
	// IgnoreDupes skips (rather than fails) a row whose update would
	// violate a unique constraint, as INSERT IGNORE / UPDATE IGNORE do.
	IgnoreDupes bool
	// Strict enables strict schema coercion: a value that cannot be
	// represented in its column's declared type fails the whole
	// operation instead of being kept as-is.
	Strict bool
}

// SetResult is ApplySet's outcome.
type SetResult struct {
	Table        *row.Dataset
	Refs         *indexrefs.Store
	UpdatedCount int
}

// ApplySet applies assignments to every row in target (typically the
// dataset ApplyWhere already filtered down) against the full table
// dataset and index-refs, per spec §4.5. values, if non-nil, is the
// candidate row an INSERT ... ON DUPLICATE KEY UPDATE would have
// inserted, exposed to assignment expressions as VALUES(col) (spec
// §4.5.2.1). Rows whose assignments evaluate to their existing value are
// left untouched — no index churn, no dirty-PK mark, no count (spec
// §4.5.2.3).
func ApplySet(
	conn Connection,
	db, table string,
	tableSchema *schema.TableSchema,
	fullTable *row.Dataset,
	refs *indexrefs.Store,
	qctx *queryctx.Context,
	target *row.Dataset,
	assignments []Assignment,
	values *row.Row,
	opts SetOptions,
) (*SetResult, error) {
	if tableSchema != nil {
		for _, a := range assignments {
			if tableSchema.FindColumn(a.Column) == nil {
				return nil, &RuntimeError{Message: "assignment to unknown column " + a.Column}
			}
		}
	}

	assignedColumns := make([]string, len(assignments))
	for i, a := range assignments {
		assignedColumns[i] = a.Column
	}

	var pk *schema.Index
	pkChanged := false
	if tableSchema != nil {
		pk = tableSchema.PrimaryIndex()
		if pk != nil && fieldsIntersect(pk.Fields, assignedColumns) {
			pkChanged = true
		}
	}
	applicable := ComputeApplicableIndexes(tableSchema, assignedColumns, pkChanged)

	newTable := fullTable.Clone()
	newRefs := refs.Clone()
	result := &SetResult{Table: newTable, Refs: newRefs}
	relax := qctx != nil && qctx.RelaxUniqueConstraints

	var applyErr error
	target.Each(func(id row.ID, _ *row.Row) {
		if applyErr != nil {
			return
		}
		before := newTable.Get(id)
		if before == nil {
			return
		}

		working := before.Clone()
		if values != nil {
			working = before.WithFakeValues(values)
		}

		changed := false
		for _, a := range assignments {
			nv, err := a.Expr.Evaluate(working, conn)
			if err != nil {
				applyErr = err
				return
			}
			if !before.GetOr(a.Column).Equal(nv) {
				changed = true
			}
			working.Set(a.Column, nv)
		}
		if !changed {
			return
		}

		candidate := working.StripSynthetic()
		if tableSchema != nil {
			coerced, err := integrity.CoerceToSchema(candidate, tableSchema, opts.Strict)
			if err != nil {
				applyErr = &SchemaCoercionError{Err: err}
				return
			}
			candidate = coerced
		}

		newID := id
		if pk != nil && pk.IsSinglePrimary() {
			newID = row.FromValue(candidate.GetOr(pk.Fields[0]))
		}

		oldKeys := ComputeIndexKeys(applicable, before)
		newKeys := ComputeIndexKeys(applicable, candidate)

		if keyMayViolate(newTable, newRefs, id, newID, newKeys) {
			name, violated := integrity.CheckUniqueConstraints(newTable, candidate, tableSchema, &id)
			if violated {
				switch {
				case opts.IgnoreDupes:
					return
				case !relax:
					applyErr = &UniqueKeyViolation{Constraint: name}
					return
				}
				// relax == true: continue silently, applying the update anyway.
			}
		}

		for _, k := range oldKeys {
			newRefs.Remove(k.IndexName, k.Path, k.StoreAsUnique, id)
		}
		for _, k := range newKeys {
			newRefs.Add(k.IndexName, k.Path, k.StoreAsUnique, newID)
		}

		if qctx != nil {
			qctx.MarkDirty(table, newID)
		}
		if newID != id {
			newTable.Rekey(id, newID, candidate)
		} else {
			newTable.Set(id, candidate)
		}
		result.UpdatedCount++
	})
	if applyErr != nil {
		return nil, applyErr
	}

	if conn != nil && !isNilServerStore(conn.Server()) {
		var dirty map[row.ID]struct{}
		if qctx != nil {
			dirty = qctx.DirtyPKs(table)
		}
		if err := conn.Server().SaveTable(db, table, newTable, newRefs, dirty); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// keyMayViolate cheaply screens for a possible unique-constraint
// collision before paying for the full brute-force
// integrity.CheckUniqueConstraints pass: either the row-id itself
// changed onto an existing row, or one of the new unique index paths
// already resolves to a different row-id.
func keyMayViolate(table *row.Dataset, refs *indexrefs.Store, id, newID row.ID, newKeys []indexrefs.IndexKey) bool {
	if newID != id && table.Has(newID) {
		return true
	}
	for _, k := range newKeys {
		if !k.StoreAsUnique {
			continue
		}
		ids, found := refs.Lookup(k.IndexName, k.Path)
		if !found {
			continue
		}
		for _, existing := range ids {
			if existing != id {
				return true
			}
		}
	}
	return false
}

// isNilServerStore reports whether s is nil, guarding against the
// classic Go typed-nil pitfall: a Connection implementation whose
// Server() returns a nil pointer of some concrete type still produces a
// non-nil ServerStore interface value, so a plain `s != nil` check would
// wrongly treat it as usable and panic on the first call through it.
func isNilServerStore(s ServerStore) bool {
	if s == nil {
		return true
	}
	v := reflect.ValueOf(s)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
