// Package integrity implements the DataIntegrity collaborator from spec
// §6: schema coercion and unique-constraint checking. Grounded on the
// teacher's internal/core/validate_column.go and validate_constraint.go
// per-field checking style, adapted from "does this column definition
// make sense" to "does this runtime value conform to its column".
package integrity

import (
	"fmt"
	"strconv"

	"sqlfake/internal/row"
	"sqlfake/internal/schema"
	"sqlfake/internal/sqlvalue"
)

// CoerceError is returned by CoerceToSchema in strict mode when a value
// cannot be made to conform to its column's declared type — spec §7's
// SchemaCoercionError.
type CoerceError struct {
	Column string
	Reason string
}

func (e *CoerceError) Error() string {
	return fmt.Sprintf("integrity: column %q: %s", e.Column, e.Reason)
}

// CoerceToSchema returns a copy of r with every column coerced to the
// type its schema.Column declares. In strict mode, a value that cannot
// be represented in the declared type returns a *CoerceError; otherwise
// coercion is best-effort (falling back to the original value).
func CoerceToSchema(r *row.Row, s *schema.TableSchema, strict bool) (*row.Row, error) {
	if s == nil {
		return r, nil
	}
	out := row.NewRow()
	for _, col := range r.Columns() {
		v := r.GetOr(col)
		field := s.FindColumn(col)
		if field == nil {
			out.Set(col, v)
			continue
		}
		coerced, err := coerceValue(v, field.Type)
		if err != nil {
			if strict {
				return nil, &CoerceError{Column: col, Reason: err.Error()}
			}
			out.Set(col, v)
			continue
		}
		out.Set(col, coerced)
	}
	return out, nil
}

func coerceValue(v sqlvalue.Value, t schema.ColumnType) (sqlvalue.Value, error) {
	if v.IsNull() {
		return v, nil
	}
	switch t {
	case schema.TypeInt:
		if v.Kind() == sqlvalue.KindInt {
			return v, nil
		}
		if v.Kind() == sqlvalue.KindString {
			i, err := strconv.ParseInt(v.String(), 10, 64)
			if err != nil {
				return v, fmt.Errorf("cannot coerce %q to integer", v.String())
			}
			return sqlvalue.NewInt(i), nil
		}
		return sqlvalue.NewInt(v.Int()), nil
	case schema.TypeFloat:
		if v.Kind() == sqlvalue.KindString {
			f, err := strconv.ParseFloat(v.String(), 64)
			if err != nil {
				return v, fmt.Errorf("cannot coerce %q to float", v.String())
			}
			return sqlvalue.NewFloat(f), nil
		}
		return sqlvalue.NewFloat(v.Float()), nil
	case schema.TypeBool:
		return sqlvalue.NewBool(v.Bool()), nil
	case schema.TypeString:
		return sqlvalue.NewString(v.String()), nil
	default:
		return v, nil
	}
}
