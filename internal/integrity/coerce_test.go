package integrity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlfake/internal/row"
	"sqlfake/internal/schema"
	"sqlfake/internal/sqlvalue"
)

func TestCoerceStringToIntStrict(t *testing.T) {
	s := &schema.TableSchema{Fields: []schema.Column{{Name: "age", Type: schema.TypeInt}}}
	r := row.NewRow()
	r.Set("age", sqlvalue.NewString("21"))

	out, err := CoerceToSchema(r, s, true)
	require.NoError(t, err)
	assert.Equal(t, int64(21), out.GetOr("age").Int())
}

func TestCoerceStrictRejectsUnparseable(t *testing.T) {
	s := &schema.TableSchema{Fields: []schema.Column{{Name: "age", Type: schema.TypeInt}}}
	r := row.NewRow()
	r.Set("age", sqlvalue.NewString("not-a-number"))

	_, err := CoerceToSchema(r, s, true)
	require.Error(t, err)
	var coerceErr *CoerceError
	assert.ErrorAs(t, err, &coerceErr)
}

func TestCoerceBestEffortIgnoresErrors(t *testing.T) {
	s := &schema.TableSchema{Fields: []schema.Column{{Name: "age", Type: schema.TypeInt}}}
	r := row.NewRow()
	r.Set("age", sqlvalue.NewString("not-a-number"))

	out, err := CoerceToSchema(r, s, false)
	require.NoError(t, err)
	assert.Equal(t, "not-a-number", out.GetOr("age").String())
}
