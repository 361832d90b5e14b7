package engine

import (
	"sqlfake/internal/indexrefs"
	"sqlfake/internal/planner"
	"sqlfake/internal/queryctx"
	"sqlfake/internal/row"
	"sqlfake/internal/sqlexpr"
)

// ApplyWhere filters dataset by where (spec §4.1). When hints names an
// index matching a simple equality predicate, internal/planner narrows
// the scan first; otherwise — or if the index only partially answers
// where — every remaining row is evaluated directly. A nil where returns
// dataset unchanged, with no replica guard applied.
//
// When qctx enables PreventReplicaReadsAfterWrites and the connection is
// reading from a replica, ApplyWhere refuses to return any row this
// request itself dirtied, returning a ReplicaAfterWriteError instead
// (spec §4.1.4).
func ApplyWhere(
	conn Connection,
	dataset *row.Dataset,
	refs *indexrefs.Store,
	qctx *queryctx.Context,
	hints *planner.Hints,
	tableName string,
	where sqlexpr.Expression,
) (*row.Dataset, error) {
	if where == nil {
		return dataset, nil
	}

	candidate := dataset
	allMatched := false
	if hints != nil {
		candidate, allMatched = planner.FilterWithIndexes(dataset, refs, hints, where)
	}

	filtered := candidate
	if !allMatched {
		filtered = row.NewDataset()
		var evalErr error
		candidate.Each(func(id row.ID, r *row.Row) {
			if evalErr != nil {
				return
			}
			v, err := where.Evaluate(r, conn)
			if err != nil {
				evalErr = err
				return
			}
			if v.Bool() {
				filtered.Set(id, r)
			}
		})
		if evalErr != nil {
			return nil, evalErr
		}
	}

	if qctx != nil && qctx.UseReplica && qctx.InRequest && qctx.PreventReplicaReadsAfterWrites {
		if qctx.IntersectsDirty(tableName, filtered.Keys()) {
			return nil, &ReplicaAfterWriteError{Query: qctx.Query}
		}
	}

	return filtered, nil
}
