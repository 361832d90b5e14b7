package integrity

import (
	"sqlfake/internal/row"
	"sqlfake/internal/schema"
)

// CheckUniqueConstraints performs the full, brute-force uniqueness check
// spec §4.5.2.5.d calls for once the cheap pre-check in internal/engine
// flags a possible violation: walk every other row in table and compare
// it against r on each UNIQUE/PRIMARY index's fields. existingRowID, if
// non-nil, is excluded (the row being updated never conflicts with
// itself). Returns the violated index's name and true, or ("", false) if
// r is compatible with every unique constraint.
//
// The same sparse-null rule as internal/engine's ComputeIndexKeys
// applies: a NULL in the first field of a multi-column unique index
// exempts that index entirely (spec §4.6).
func CheckUniqueConstraints(table *row.Dataset, r *row.Row, s *schema.TableSchema, existingRowID *row.ID) (string, bool) {
	if s == nil {
		return "", false
	}
	for _, idx := range s.Indexes {
		if idx.Kind != schema.KindUnique && idx.Kind != schema.KindPrimary {
			continue
		}
		if idx.IsSinglePrimary() {
			v := r.GetOr(idx.Fields[0])
			if v.IsNull() {
				continue
			}
			candidate := row.FromValue(v)
			if table.Has(candidate) && (existingRowID == nil || *existingRowID != candidate) {
				return idx.Name, true
			}
			continue
		}

		values := make([]string, len(idx.Fields))
		skip := false
		degraded := false
		for i, f := range idx.Fields {
			v := r.GetOr(f)
			if v.IsNull() {
				if i == 0 {
					skip = true
					break
				}
				degraded = true
			}
			values[i] = v.String()
		}
		if skip || degraded {
			continue
		}

		violated := false
		table.Each(func(id row.ID, other *row.Row) {
			if violated {
				return
			}
			if existingRowID != nil && id == *existingRowID {
				return
			}
			for i, f := range idx.Fields {
				ov := other.GetOr(f)
				if ov.IsNull() || ov.String() != values[i] {
					return
				}
			}
			violated = true
		})
		if violated {
			return idx.Name, true
		}
	}
	return "", false
}
