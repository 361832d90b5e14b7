package statements

import (
	"sqlfake/internal/engine"
	"sqlfake/internal/planner"
	"sqlfake/internal/queryctx"
	"sqlfake/internal/row"
	"sqlfake/internal/server"
	"sqlfake/internal/sqlexpr"
)

// Delete is a reference `DELETE FROM table WHERE ...`. The CORE has no
// dedicated applyDelete (spec §4 only names applyWhere/OrderBy/Limit/Set),
// so this statement filters with internal/engine.ApplyWhere and then
// removes the matched rows from the dataset and every index-ref entry
// itself, the mirror image of internal/engine.ApplySet's index
// reconciliation.
type Delete struct {
	Table string
	Where sqlexpr.Expression
	Hints *planner.Hints
}

// Execute runs the DELETE against conn's current table snapshot,
// returning the number of rows removed.
func (d *Delete) Execute(conn *server.Connection, qctx *queryctx.Context) (int, error) {
	db, table, err := engine.ParseTableName(d.Table, conn.CurrentDatabase())
	if err != nil {
		return 0, err
	}
	tbl, ok := conn.Store().GetTable(db, table)
	if !ok {
		return 0, &engine.RuntimeError{Message: "unknown table " + d.Table}
	}

	target, err := engine.ApplyWhere(conn, tbl.Dataset, tbl.Refs, qctx, d.Hints, table, d.Where)
	if err != nil {
		return 0, err
	}

	newTable := tbl.Dataset.Clone()
	newRefs := tbl.Refs.Clone()
	applicable := engine.ComputeApplicableIndexes(tbl.Schema, nil, true)

	count := 0
	target.Each(func(id row.ID, r *row.Row) {
		for _, k := range engine.ComputeIndexKeys(applicable, r) {
			newRefs.Remove(k.IndexName, k.Path, k.StoreAsUnique, id)
		}
		newTable.Delete(id)
		if qctx != nil {
			qctx.MarkDirty(table, id)
		}
		count++
	})

	var dirty map[row.ID]struct{}
	if qctx != nil {
		dirty = qctx.DirtyPKs(table)
	}
	if err := conn.Server().SaveTable(db, table, newTable, newRefs, dirty); err != nil {
		return 0, err
	}
	return count, nil
}
