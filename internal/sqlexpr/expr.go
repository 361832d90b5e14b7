// Package sqlexpr is the reference implementation of the "external"
// expression/evaluator collaborator spec §6 specifies only at its
// interface ("the expression evaluator for non-SET clauses" and "the SQL
// parser producing the expression tree" are both explicitly out of scope
// for the CORE). It exists so internal/engine's WHERE/ORDER BY/SET
// handling can be exercised end-to-end by tests and by cmd/sqlfake,
// built on the teacher's own SQL-parsing dependency
// (github.com/pingcap/tidb/pkg/parser) rather than the full MySQL
// grammar the spec disclaims.
package sqlexpr

import "sqlfake/internal/sqlvalue"

// Row is the minimal row shape an Expression needs: column lookup by
// name. internal/row.Row satisfies this.
type Row interface {
	Get(col string) (sqlvalue.Value, bool)
}

// Connection is the minimal connection shape an Expression needs. It is
// declared locally (rather than imported from internal/server) so this
// package has no dependency on the server facade; internal/server's
// Connection type satisfies it structurally.
type Connection interface {
	CurrentDatabase() string
}

// Expression evaluates to a Value given a row and a connection, per
// spec §6. Name is the identifier ORDER BY key materialization uses
// (spec §4.2: "Sort key values are pre-materialized on each row under
// the expression's .name").
type Expression interface {
	Name() string
	Evaluate(r Row, conn Connection) (sqlvalue.Value, error)
}

// ColumnReference is the Expression subtype exposing a bare column
// reference, used by internal/planner for index narrowing (spec §6).
// internal/engine.ApplyOrderBy reads only the pre-materialized sort keys
// and does not consult it.
type ColumnReference interface {
	Expression
	ColumnName() string
	// TableName returns the qualifying table, if the reference is
	// qualified (e.g. "t.col").
	TableName() (string, bool)
	// AllowFallthrough reports whether this reference may evaluate
	// across joined tables without a schema lookup — true for any bare,
	// unqualified column reference (spec §4.2).
	AllowFallthrough() bool
}
