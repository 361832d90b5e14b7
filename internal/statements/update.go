package statements

import (
	"sqlfake/internal/engine"
	"sqlfake/internal/planner"
	"sqlfake/internal/queryctx"
	"sqlfake/internal/server"
	"sqlfake/internal/sqlexpr"
)

// Update is a reference `UPDATE table SET ... WHERE ...`: filter with
// internal/engine.ApplyWhere, then mutate with internal/engine.ApplySet.
type Update struct {
	Table       string
	Where       sqlexpr.Expression
	Hints       *planner.Hints
	Assignments []engine.Assignment
	Options     engine.SetOptions
}

// Execute runs the UPDATE against conn's current table snapshot.
func (u *Update) Execute(conn *server.Connection, qctx *queryctx.Context) (*engine.SetResult, error) {
	db, table, err := engine.ParseTableName(u.Table, conn.CurrentDatabase())
	if err != nil {
		return nil, err
	}
	tbl, ok := conn.Store().GetTable(db, table)
	if !ok {
		return nil, &engine.RuntimeError{Message: "unknown table " + u.Table}
	}

	target, err := engine.ApplyWhere(conn, tbl.Dataset, tbl.Refs, qctx, u.Hints, table, u.Where)
	if err != nil {
		return nil, err
	}

	return engine.ApplySet(conn, db, table, tbl.Schema, tbl.Dataset, tbl.Refs, qctx, target, u.Assignments, nil, u.Options)
}
