package engine

import (
	"fmt"
	"strings"
)

// ParseTableName splits a possibly db-qualified table reference
// ("db.table" or "table") into its database and table name, defaulting
// to currentDB when unqualified — spec §4.4.
func ParseTableName(name, currentDB string) (db, table string, err error) {
	parts := strings.Split(name, ".")
	switch len(parts) {
	case 1:
		return currentDB, parts[0], nil
	case 2:
		return parts[0], parts[1], nil
	default:
		return "", "", &RuntimeError{Message: fmt.Sprintf("malformed table name %q", name)}
	}
}
