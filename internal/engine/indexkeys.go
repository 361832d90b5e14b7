package engine

import (
	"sqlfake/internal/indexrefs"
	"sqlfake/internal/row"
	"sqlfake/internal/schema"
	"sqlfake/internal/sqlvalue"
)

// ApplicableIndex pairs a schema.Index with whether its entries should
// currently be stored as a unique leaf — ordinarily derived from
// idx.Kind, but spec §4.6's sparse-null rule can degrade this to false
// per computed key, and the synthetic Vitess-sharding index is always
// forced true (spec §9's "vitess_sharding as synthetic unique index").
type ApplicableIndex struct {
	Index         schema.Index
	StoreAsUnique bool
}

// ComputeApplicableIndexes returns the subset of s's indexes (plus the
// synthetic sharding index, if any) an UPDATE assigning assignedColumns
// must maintain: any index touching an assigned column, or every index
// if the primary key itself changed (pkChanged) — spec §4.5.1.
func ComputeApplicableIndexes(s *schema.TableSchema, assignedColumns []string, pkChanged bool) []ApplicableIndex {
	if s == nil {
		return nil
	}
	var out []ApplicableIndex
	for _, idx := range s.Indexes {
		if !pkChanged && !fieldsIntersect(idx.Fields, assignedColumns) {
			continue
		}
		out = append(out, ApplicableIndex{
			Index:         idx,
			StoreAsUnique: idx.Kind == schema.KindUnique || idx.Kind == schema.KindPrimary,
		})
	}
	if s.VitessSharding != nil && (pkChanged || contains(assignedColumns, s.VitessSharding.ShardingKey)) {
		out = append(out, ApplicableIndex{
			Index: schema.Index{
				Name:   s.VitessSharding.Keyspace,
				Kind:   schema.KindIndex,
				Fields: []string{s.VitessSharding.ShardingKey},
			},
			StoreAsUnique: true,
		})
	}
	return out
}

func fieldsIntersect(fields, assigned []string) bool {
	for _, f := range fields {
		if contains(assigned, f) {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// ComputeIndexKeys derives the index-ref path and store-as-unique flag
// for r against each applicable index, per spec §4.6. A single-column
// PRIMARY index is always skipped (Invariant I3: never materialized in
// IndexRefs). A NULL at the first field of a multi-field index exempts
// the whole entry; a NULL at any later field — including the last —
// degrades the entry to non-unique but still includes it. The worked
// example in spec §8's scenario 3 governs here over §4.6's
// prose, since the two disagree on a final-position NULL.
func ComputeIndexKeys(applicable []ApplicableIndex, r *row.Row) []indexrefs.IndexKey {
	var out []indexrefs.IndexKey
	for _, ai := range applicable {
		idx := ai.Index
		if idx.IsSinglePrimary() {
			continue
		}
		if len(idx.Fields) == 1 {
			v := r.GetOr(idx.Fields[0])
			out = append(out, indexrefs.IndexKey{
				IndexName:     idx.Name,
				Path:          []string{valueOrNull(v)},
				StoreAsUnique: ai.StoreAsUnique,
			})
			continue
		}

		storeAsUnique := ai.StoreAsUnique
		path := make([]string, len(idx.Fields))
		skip := false
		for i, f := range idx.Fields {
			v := r.GetOr(f)
			if v.IsNull() {
				if i == 0 {
					skip = true
					break
				}
				storeAsUnique = false
			}
			path[i] = valueOrNull(v)
		}
		if skip {
			continue
		}
		out = append(out, indexrefs.IndexKey{IndexName: idx.Name, Path: path, StoreAsUnique: storeAsUnique})
	}
	return out
}

func valueOrNull(v sqlvalue.Value) string {
	if v.IsNull() {
		return indexrefs.NullSentinel
	}
	return v.String()
}
