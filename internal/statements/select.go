// Package statements supplies the concrete SELECT/UPDATE/DELETE/INSERT
// objects spec §1 calls out as out of scope for the CORE itself, built
// entirely on internal/engine's primitives — the demonstration/
// integration layer cmd/sqlfake drives, grounded on the orchestration
// role cmd/smf/main.go plays over internal/diff + internal/apply in the
// teacher repo.
package statements

import (
	"sqlfake/internal/engine"
	"sqlfake/internal/planner"
	"sqlfake/internal/queryctx"
	"sqlfake/internal/row"
	"sqlfake/internal/server"
	"sqlfake/internal/sqlexpr"
)

// Select is a reference `SELECT ... FROM table WHERE ... ORDER BY ...
// LIMIT ...` built from internal/engine.ApplyWhere/ApplyOrderBy/ApplyLimit
// in that order, per spec §4's component ordering.
type Select struct {
	Table    string
	Where    sqlexpr.Expression
	Hints    *planner.Hints
	OrderBy  []engine.OrderRule
	Offset   int
	Limit    int
	HasLimit bool
}

// Execute runs the SELECT against conn's current table snapshot.
func (s *Select) Execute(conn *server.Connection, qctx *queryctx.Context) (*row.Dataset, error) {
	db, table, err := engine.ParseTableName(s.Table, conn.CurrentDatabase())
	if err != nil {
		return nil, err
	}
	tbl, ok := conn.Store().GetTable(db, table)
	if !ok {
		return nil, &engine.RuntimeError{Message: "unknown table " + s.Table}
	}

	filtered, err := engine.ApplyWhere(conn, tbl.Dataset, tbl.Refs, qctx, s.Hints, table, s.Where)
	if err != nil {
		return nil, err
	}

	if len(s.OrderBy) > 0 {
		materialized, err := engine.MaterializeOrderKeys(filtered, conn, s.OrderBy)
		if err != nil {
			return nil, err
		}
		filtered = engine.ApplyOrderBy(materialized, s.OrderBy)
	}

	return engine.ApplyLimit(filtered, s.Offset, s.Limit, s.HasLimit), nil
}
