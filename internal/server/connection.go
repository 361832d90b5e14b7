package server

import "sqlfake/internal/engine"

// Connection is one client's view of a Store: the database it is
// currently using, and the last AUTO_INCREMENT value it generated
// (MySQL's `LAST_INSERT_ID()` session semantics, SPEC_FULL.md §3).
// internal/statements callers record a generated id with
// RecordLastInsertID after an INSERT; spec §6 describes this role as part
// of the (otherwise out-of-scope) server/connection facade.
type Connection struct {
	store        *Store
	database     string
	lastInsertID int64
}

// NewConnection returns a Connection bound to store, initially using
// database.
func (s *Store) NewConnection(database string) *Connection {
	return &Connection{store: s, database: database}
}

// CurrentDatabase returns the database this connection is using,
// satisfying sqlexpr.Connection and engine.Connection.
func (c *Connection) CurrentDatabase() string { return c.database }

// UseDatabase switches this connection's current database, the
// equivalent of a MySQL `USE` statement.
func (c *Connection) UseDatabase(name string) { c.database = name }

// Server returns the underlying Store as an engine.ServerStore,
// satisfying engine.Connection.
func (c *Connection) Server() engine.ServerStore { return c.store }

// Store returns the underlying *Store directly, for callers (such as
// internal/statements) that need operations beyond engine.ServerStore's
// narrow SaveTable-only interface, like GetTable and NextAutoIncrement.
func (c *Connection) Store() *Store { return c.store }

// RecordLastInsertID records id as this connection's most recently
// generated AUTO_INCREMENT value.
func (c *Connection) RecordLastInsertID(id int64) { c.lastInsertID = id }

// LastInsertID returns the value a `SELECT LAST_INSERT_ID()` on this
// connection would return.
func (c *Connection) LastInsertID() int64 { return c.lastInsertID }
