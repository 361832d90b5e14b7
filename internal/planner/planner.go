// Package planner implements the QueryPlanner collaborator from spec §6:
// a greedy index-narrowing filter for simple equality predicates,
// reporting whether the index fully discharged the WHERE clause so
// internal/engine can skip the row-by-row fallback scan.
//
// Grounded on the "walk the predicate, narrow by equality-matched index
// prefix" shape of
// other_examples/61f7086a_dolthub-go-mysql-server__sql-analyzer-fix_exec_indexes.go,
// simplified to single-table, single-column equality lookups — the spec
// explicitly scopes this to "greedy index filtering", not a cost-based
// optimizer.
package planner

import (
	"sqlfake/internal/indexrefs"
	"sqlfake/internal/row"
	"sqlfake/internal/schema"
	"sqlfake/internal/sqlexpr"
)

// Hints narrows the planner's search to the columns and indexes the
// caller already knows are relevant (spec §4.1's "optional {columns,
// indexes} planner hints").
type Hints struct {
	Columns []schema.Column
	Indexes []schema.Index
}

// FilterWithIndexes attempts to narrow dataset using a single-column
// equality predicate (`column = literal`) matched against one of
// hints.Indexes. It returns the narrowed dataset (or the original
// dataset, unnarrowed, if no index could be used) and whether the index
// lookup alone fully answers where (allMatched) — when true,
// internal/engine skips its row-by-row fallback scan entirely (spec
// §4.1.2-3).
func FilterWithIndexes(dataset *row.Dataset, refs *indexrefs.Store, hints *Hints, where sqlexpr.Expression) (*row.Dataset, bool) {
	if hints == nil || where == nil {
		return dataset, false
	}
	bin, ok := where.(*sqlexpr.Binary)
	if !ok || bin.Op() != sqlexpr.OpEQ {
		return dataset, false
	}
	col, lit, ok := equalityOperands(bin)
	if !ok {
		return dataset, false
	}

	for _, idx := range hints.Indexes {
		if len(idx.Fields) != 1 || idx.Fields[0] != col.ColumnName() {
			continue
		}
		if idx.IsSinglePrimary() {
			id := row.FromValue(lit.Value())
			if r := dataset.Get(id); r != nil {
				out := row.NewDataset()
				out.Set(id, r)
				return out, true
			}
			return row.NewDataset(), true
		}
		ids, found := refs.Lookup(idx.Name, []string{lit.Value().String()})
		if !found {
			return row.NewDataset(), true
		}
		out := row.NewDataset()
		for _, id := range ids {
			if r := dataset.Get(id); r != nil {
				out.Set(id, r)
			}
		}
		return out, true
	}
	return dataset, false
}

// equalityOperands extracts (columnRef, literal) from a `col = lit` or
// `lit = col` binary expression.
func equalityOperands(b *sqlexpr.Binary) (sqlexpr.ColumnReference, *sqlexpr.Literal, bool) {
	if col, ok := b.L().(sqlexpr.ColumnReference); ok {
		if lit, ok := b.R().(*sqlexpr.Literal); ok {
			return col, lit, true
		}
	}
	if col, ok := b.R().(sqlexpr.ColumnReference); ok {
		if lit, ok := b.L().(*sqlexpr.Literal); ok {
			return col, lit, true
		}
	}
	return nil, nil, false
}
