package engine

import (
	"sqlfake/internal/indexrefs"
	"sqlfake/internal/row"
)

// fakeServer is a minimal ServerStore that just remembers its last save,
// standing in for internal/server in these unit tests.
type fakeServer struct {
	saved   bool
	db      string
	table   string
	dataset *row.Dataset
	refs    *indexrefs.Store
}

func (s *fakeServer) SaveTable(db, table string, dataset *row.Dataset, refs *indexrefs.Store, _ map[row.ID]struct{}) error {
	s.saved = true
	s.db = db
	s.table = table
	s.dataset = dataset
	s.refs = refs
	return nil
}

// fakeConn is a minimal Connection for these unit tests.
type fakeConn struct {
	database string
	server   *fakeServer
}

func (c *fakeConn) CurrentDatabase() string { return c.database }
func (c *fakeConn) Server() ServerStore {
	if c.server == nil {
		return nil
	}
	return c.server
}
