// Package mysqlerr translates this engine's typed errors into
// *mysql.MySQLError values carrying the same error numbers a real MySQL
// server would return for the equivalent failure, so a caller comparing
// against github.com/go-sql-driver/mysql error numbers sees the same
// codes whether it is talking to this engine or the real thing. Grounded
// on cmd/smf/main.go's blank import of github.com/go-sql-driver/mysql to
// register the driver; here the package is used directly for its
// MySQLError type rather than as a database/sql driver.
package mysqlerr

import (
	"errors"

	"github.com/go-sql-driver/mysql"

	"sqlfake/internal/engine"
)

// Error numbers, matching SPEC_FULL.md §7's table.
const (
	ErDupEntry                    = 1062
	ErTruncatedWrongValueForField = 1366
	ErBadField                    = 1054
	// ErReplicaAfterWrite is not a real MySQL error number; MySQL itself
	// has no equivalent of this engine's replica-after-write guard. 1918
	// is used as a distinguishable, clearly-synthetic stand-in.
	ErReplicaAfterWrite = 1918
)

// Translate maps one of this engine's typed errors (internal/engine's
// RuntimeError, UniqueKeyViolation, SchemaCoercionError,
// ReplicaAfterWriteError) to a *mysql.MySQLError with the matching error
// number. Errors it doesn't recognize are returned unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	var unique *engine.UniqueKeyViolation
	if errors.As(err, &unique) {
		return &mysql.MySQLError{Number: ErDupEntry, Message: "Duplicate entry for key '" + unique.Constraint + "'"}
	}

	var coercion *engine.SchemaCoercionError
	if errors.As(err, &coercion) {
		return &mysql.MySQLError{Number: ErTruncatedWrongValueForField, Message: coercion.Error()}
	}

	var runtimeErr *engine.RuntimeError
	if errors.As(err, &runtimeErr) {
		return &mysql.MySQLError{Number: ErBadField, Message: runtimeErr.Message}
	}

	var replica *engine.ReplicaAfterWriteError
	if errors.As(err, &replica) {
		return &mysql.MySQLError{Number: ErReplicaAfterWrite, Message: replica.Error()}
	}

	return err
}
