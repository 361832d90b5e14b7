package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTableNameDefaultsToCurrentDatabase(t *testing.T) {
	db, table, err := ParseTableName("users", "shop")
	assert.NoError(t, err)
	assert.Equal(t, "shop", db)
	assert.Equal(t, "users", table)
}

func TestParseTableNameQualified(t *testing.T) {
	db, table, err := ParseTableName("shop.users", "other")
	assert.NoError(t, err)
	assert.Equal(t, "shop", db)
	assert.Equal(t, "users", table)
}

func TestParseTableNameRejectsTooManyParts(t *testing.T) {
	_, _, err := ParseTableName("a.b.c", "shop")
	assert.Error(t, err)
	assert.IsType(t, &RuntimeError{}, err)
}
