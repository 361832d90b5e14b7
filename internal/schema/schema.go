// Package schema models the MySQL table schema the engine enforces:
// fields, indexes, and an optional Vitess-style sharding key. It is the
// static counterpart to internal/row's Dataset — a Dataset is only
// checked against a TableSchema when one is known to the caller.
package schema

import "fmt"

// ColumnType is a coarse declared type, used only to inform the planner
// of filter capability and the integrity package of coercion rules.
type ColumnType int

const (
	TypeUnknown ColumnType = iota
	TypeInt
	TypeFloat
	TypeString
	TypeBool
)

// Column is a field name and its declared type.
type Column struct {
	Name          string
	Type          ColumnType
	AutoIncrement bool
}

// IndexKind distinguishes the three kinds of index the engine maintains.
type IndexKind int

const (
	KindPrimary IndexKind = iota
	KindUnique
	KindIndex
)

// Index is `{name, kind, fields}`, matching spec §3's Index type.
// IsPrimarySingle is derived by Index.IsSinglePrimary and not stored
// here, per §9's "single-column PRIMARY shortcut" design note.
type Index struct {
	Name   string
	Kind   IndexKind
	Fields []string
}

// VitessSharding models the optional `vitess_sharding = {keyspace,
// sharding_key}` block from spec §3. When present it is modeled as an
// additional synthetic INDEX over the sharding key, keyed by keyspace
// name (see ComputeApplicableIndexes in internal/engine).
type VitessSharding struct {
	Keyspace    string
	ShardingKey string
}

// TableSchema is the full schema of one table.
type TableSchema struct {
	Name           string
	Fields         []Column
	Indexes        []Index
	VitessSharding *VitessSharding
}

// FindColumn returns the column named name, or nil.
func (t *TableSchema) FindColumn(name string) *Column {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i]
		}
	}
	return nil
}

// PrimaryIndex returns the table's PRIMARY index, if any.
func (t *TableSchema) PrimaryIndex() *Index {
	for i := range t.Indexes {
		if t.Indexes[i].Kind == KindPrimary {
			return &t.Indexes[i]
		}
	}
	return nil
}

// IsSinglePrimary reports whether idx is a single-column PRIMARY index —
// the case spec §3 Invariant I3 says must never be materialized in
// IndexRefs, because the dataset key already is that value.
func (idx *Index) IsSinglePrimary() bool {
	return idx.Kind == KindPrimary && len(idx.Fields) == 1
}

// Validate performs the structural checks every Index must pass:
// non-empty name uniqueness and fields that exist on the table. Mirrors
// the teacher's internal/core/validate_index.go duplicate-name and
// empty-columns checks, generalized to this package's Index/Column types.
func (t *TableSchema) Validate() error {
	seen := make(map[string]bool, len(t.Indexes))
	for _, idx := range t.Indexes {
		if idx.Name == "" {
			continue
		}
		if seen[idx.Name] {
			return fmt.Errorf("duplicate index name %q", idx.Name)
		}
		seen[idx.Name] = true
		if len(idx.Fields) == 0 {
			return fmt.Errorf("index %q has no fields", idx.Name)
		}
		for _, f := range idx.Fields {
			if t.FindColumn(f) == nil {
				return fmt.Errorf("index %q references nonexistent column %q", idx.Name, f)
			}
		}
	}
	return nil
}
