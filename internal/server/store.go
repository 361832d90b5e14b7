// Package server implements the ServerStore + Connection facade spec §6
// specifies only at its interface: an in-memory map-of-databases holding
// each table's current Dataset and IndexRefs snapshot, guarded by a
// single mutex (spec §5) the way internal/apply.Applier in the teacher
// repo guards its shared *sql.DB state around each operation.
package server

import (
	"fmt"
	"sync"

	"sqlfake/internal/indexrefs"
	"sqlfake/internal/row"
	"sqlfake/internal/schema"
)

// Table is one table's live state: its schema, current row data, and
// secondary-index refs, plus the AUTO_INCREMENT counter SPEC_FULL.md §3
// adds on top of spec.md's data model.
type Table struct {
	Schema  *schema.TableSchema
	Dataset *row.Dataset
	Refs    *indexrefs.Store

	autoIncrement int64
}

// Database is a named collection of tables.
type Database struct {
	Name   string
	Tables map[string]*Table
}

// Store is the process-wide table store. All mutation goes through
// SaveTable, matching the copy-on-write discipline spec §5 recommends:
// callers build a new Dataset/IndexRefs snapshot and hand it to Store
// rather than mutating one in place.
type Store struct {
	mu        sync.Mutex
	databases map[string]*Database
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{databases: make(map[string]*Database)}
}

// CreateDatabase registers an empty database named name, replacing any
// existing database of that name.
func (s *Store) CreateDatabase(name string) *Database {
	s.mu.Lock()
	defer s.mu.Unlock()
	db := &Database{Name: name, Tables: make(map[string]*Table)}
	s.databases[name] = db
	return db
}

// Database returns the named database, if it exists.
func (s *Store) Database(name string) (*Database, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	db, ok := s.databases[name]
	return db, ok
}

// CreateTable registers table with the given schema and an empty dataset,
// creating db's database entry first if needed.
func (s *Store) CreateTable(dbName, tableName string, tableSchema *schema.TableSchema) *Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	db, ok := s.databases[dbName]
	if !ok {
		db = &Database{Name: dbName, Tables: make(map[string]*Table)}
		s.databases[dbName] = db
	}
	t := &Table{Schema: tableSchema, Dataset: row.NewDataset(), Refs: indexrefs.NewStore()}
	db.Tables[tableName] = t
	return t
}

// GetTable returns the named table and its current snapshot.
func (s *Store) GetTable(dbName, tableName string) (*Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table(dbName, tableName)
}

func (s *Store) table(dbName, tableName string) (*Table, bool) {
	db, ok := s.databases[dbName]
	if !ok {
		return nil, false
	}
	t, ok := db.Tables[tableName]
	return t, ok
}

// SaveTable implements internal/engine.ServerStore: it replaces table's
// current Dataset and IndexRefs with the post-mutation snapshot
// internal/engine.ApplySet built. The dirtyPKs argument is accepted to
// satisfy the interface; dirty-PK tracking itself lives in
// internal/queryctx.Context, threaded through by the caller.
func (s *Store) SaveTable(dbName, tableName string, dataset *row.Dataset, refs *indexrefs.Store, _ map[row.ID]struct{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.table(dbName, tableName)
	if !ok {
		return fmt.Errorf("server: unknown table %s.%s", dbName, tableName)
	}
	t.Dataset = dataset
	t.Refs = refs
	return nil
}

// NextAutoIncrement reserves and returns the next AUTO_INCREMENT value
// for table, the supplemented feature from SPEC_FULL.md §3.
func (s *Store) NextAutoIncrement(dbName, tableName string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.table(dbName, tableName)
	if !ok {
		return 0, fmt.Errorf("server: unknown table %s.%s", dbName, tableName)
	}
	t.autoIncrement++
	return t.autoIncrement, nil
}
