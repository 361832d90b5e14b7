package engine

import (
	"sqlfake/internal/indexrefs"
	"sqlfake/internal/row"
	"sqlfake/internal/sqlexpr"
)

// Connection is the minimal facade ApplyWhere/ApplySet need from the
// caller: the current database (for unqualified table resolution) and a
// handle to the server-side store mutations are persisted to. It embeds
// sqlexpr.Connection so any Expression.Evaluate call can also treat it
// as one.
type Connection interface {
	sqlexpr.Connection
	Server() ServerStore
}

// ServerStore is the one operation internal/engine needs from spec §5's
// server facade: persisting a table's post-mutation dataset, index-refs,
// and dirty-PK set. internal/server.Store implements it.
type ServerStore interface {
	SaveTable(db, table string, dataset *row.Dataset, refs *indexrefs.Store, dirtyPKs map[row.ID]struct{}) error
}
