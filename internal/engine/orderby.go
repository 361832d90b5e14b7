package engine

import (
	"sort"

	"sqlfake/internal/row"
	"sqlfake/internal/sqlexpr"
	"sqlfake/internal/sqlvalue"
)

// OrderRule is one ORDER BY key: an expression and a sort direction.
type OrderRule struct {
	Expr sqlexpr.Expression
	Desc bool
}

// MaterializeOrderKeys evaluates every rule's expression against each row
// of dataset and returns a new Dataset whose rows additionally carry the
// result under the expression's Name() — the pre-materialization step
// spec §4.2 requires before sorting, so ApplyOrderBy itself never
// re-evaluates an expression. Rows are cloned rather than mutated in
// place, preserving the copy-on-write discipline spec §5 recommends.
func MaterializeOrderKeys(dataset *row.Dataset, conn Connection, rules []OrderRule) (*row.Dataset, error) {
	out := row.NewDataset()
	var evalErr error
	dataset.Each(func(id row.ID, r *row.Row) {
		if evalErr != nil {
			return
		}
		nr := r.Clone()
		for _, rule := range rules {
			v, err := rule.Expr.Evaluate(r, conn)
			if err != nil {
				evalErr = err
				return
			}
			nr.Set(rule.Expr.Name(), v)
		}
		out.Set(id, nr)
	})
	if evalErr != nil {
		return nil, evalErr
	}
	return out, nil
}

// ApplyOrderBy returns a new Dataset with dataset's rows reordered by
// rules, each compared via sqlvalue.Compare over the pre-materialized
// sort key (see MaterializeOrderKeys). Ties fall back to each row's
// current relative position via a stable sort, so re-applying the same
// rules to an already-sorted dataset is a no-op (spec §8 P3).
func ApplyOrderBy(dataset *row.Dataset, rules []OrderRule) *row.Dataset {
	if len(rules) == 0 {
		return dataset
	}
	keys := dataset.Keys()
	ordered := make([]row.ID, len(keys))
	copy(ordered, keys)

	sort.SliceStable(ordered, func(i, j int) bool {
		ri := dataset.Get(ordered[i])
		rj := dataset.Get(ordered[j])
		for _, rule := range rules {
			vi := ri.GetOr(rule.Expr.Name())
			vj := rj.GetOr(rule.Expr.Name())
			c := sqlvalue.Compare(vi, vj)
			if rule.Desc {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return false
	})

	return dataset.Reorder(ordered)
}
