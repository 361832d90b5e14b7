package statements

import (
	"sqlfake/internal/engine"
	"sqlfake/internal/integrity"
	"sqlfake/internal/queryctx"
	"sqlfake/internal/row"
	"sqlfake/internal/schema"
	"sqlfake/internal/server"
	"sqlfake/internal/sqlvalue"
)

// Insert is a reference `INSERT INTO table (...) VALUES (...) [ON
// DUPLICATE KEY UPDATE ...]`, wiring the AUTO_INCREMENT and
// LAST_INSERT_ID supplements from SPEC_FULL.md §3 and the full
// `sql_fake_values.*` channel internal/engine.ApplySet's values parameter
// exists for.
type Insert struct {
	Table                string
	Row                  *row.Row
	OnDuplicateKeyUpdate []engine.Assignment
	Options              engine.SetOptions
}

// Execute runs the INSERT against conn's current table snapshot,
// returning the row-id of the inserted (or, for ON DUPLICATE KEY UPDATE,
// updated) row.
func (ins *Insert) Execute(conn *server.Connection, qctx *queryctx.Context) (row.ID, error) {
	db, table, err := engine.ParseTableName(ins.Table, conn.CurrentDatabase())
	if err != nil {
		return row.ID{}, err
	}
	tbl, ok := conn.Store().GetTable(db, table)
	if !ok {
		return row.ID{}, &engine.RuntimeError{Message: "unknown table " + ins.Table}
	}

	candidate, err := integrity.CoerceToSchema(ins.Row, tbl.Schema, ins.Options.Strict)
	if err != nil {
		return row.ID{}, &engine.SchemaCoercionError{Err: err}
	}

	pk := tbl.Schema.PrimaryIndex()
	if pk != nil && pk.IsSinglePrimary() {
		if col := tbl.Schema.FindColumn(pk.Fields[0]); col != nil && col.AutoIncrement {
			v := candidate.GetOr(pk.Fields[0])
			if v.IsNull() || v.Int() == 0 {
				next, err := conn.Store().NextAutoIncrement(db, table)
				if err != nil {
					return row.ID{}, err
				}
				candidate.Set(pk.Fields[0], sqlvalue.NewInt(next))
				conn.RecordLastInsertID(next)
			}
		}
	}

	if conflictID, found := conflictingRowID(tbl, candidate); found {
		if len(ins.OnDuplicateKeyUpdate) == 0 {
			return row.ID{}, &engine.UniqueKeyViolation{Constraint: "unique"}
		}
		target := row.NewDataset()
		target.Set(conflictID, tbl.Dataset.Get(conflictID))
		if _, err := engine.ApplySet(conn, db, table, tbl.Schema, tbl.Dataset, tbl.Refs, qctx, target, ins.OnDuplicateKeyUpdate, candidate, ins.Options); err != nil {
			return row.ID{}, err
		}
		return conflictID, nil
	}

	var id row.ID
	if pk != nil && pk.IsSinglePrimary() {
		id = row.FromValue(candidate.GetOr(pk.Fields[0]))
	} else {
		id = row.FromValue(candidate.GetOr("id"))
	}

	newTable := tbl.Dataset.Clone()
	newRefs := tbl.Refs.Clone()
	newTable.Set(id, candidate)
	applicable := engine.ComputeApplicableIndexes(tbl.Schema, nil, true)
	for _, k := range engine.ComputeIndexKeys(applicable, candidate) {
		newRefs.Add(k.IndexName, k.Path, k.StoreAsUnique, id)
	}
	if qctx != nil {
		qctx.MarkDirty(table, id)
	}
	var dirty map[row.ID]struct{}
	if qctx != nil {
		dirty = qctx.DirtyPKs(table)
	}
	if err := conn.Server().SaveTable(db, table, newTable, newRefs, dirty); err != nil {
		return row.ID{}, err
	}
	return id, nil
}

// conflictingRowID reports the existing row-id (if any) that candidate
// would collide with: either the PRIMARY key itself, or any UNIQUE
// index's current entry for candidate's values.
func conflictingRowID(tbl *server.Table, candidate *row.Row) (row.ID, bool) {
	pk := tbl.Schema.PrimaryIndex()
	if pk != nil && pk.IsSinglePrimary() {
		id := row.FromValue(candidate.GetOr(pk.Fields[0]))
		if tbl.Dataset.Has(id) {
			return id, true
		}
	}
	for _, idx := range tbl.Schema.Indexes {
		if idx.Kind != schema.KindUnique {
			continue
		}
		keys := engine.ComputeIndexKeys([]engine.ApplicableIndex{{Index: idx, StoreAsUnique: true}}, candidate)
		for _, k := range keys {
			if !k.StoreAsUnique {
				continue
			}
			if ids, found := tbl.Refs.Lookup(k.IndexName, k.Path); found && len(ids) > 0 {
				return ids[0], true
			}
		}
	}
	return row.ID{}, false
}
