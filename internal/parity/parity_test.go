// Package parity runs the same sequence of statements against both this
// engine and a real MySQL server (via testcontainers-go) and asserts the
// observable results match. Grounded on
// internal/apply/apply_connector_test.go's setupMySQL helper: spin up a
// mysql:8.0 container with testcontainers-go/modules/mysql, open it with
// github.com/go-sql-driver/mysql, skip the whole suite in short mode.
package parity

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"

	"sqlfake/internal/engine"
	"sqlfake/internal/queryctx"
	"sqlfake/internal/row"
	"sqlfake/internal/schema"
	"sqlfake/internal/server"
	"sqlfake/internal/sqlexpr"
	"sqlfake/internal/sqlvalue"
	"sqlfake/internal/statements"
)

type realMySQL struct {
	container *mysql.MySQLContainer
	db        *sql.DB
}

func setupMySQL(t *testing.T) *realMySQL {
	t.Helper()
	ctx := context.Background()

	c, err := mysql.Run(ctx, "mysql:8.0",
		mysql.WithDatabase("testdb"),
		mysql.WithUsername("root"),
		mysql.WithPassword("testpass"),
	)
	require.NoError(t, err, "failed to start MySQL container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(c); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := c.ConnectionString(ctx, "parseTime=true")
	require.NoError(t, err)

	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	require.NoError(t, db.PingContext(ctx))
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, `CREATE TABLE users (
		id INT PRIMARY KEY AUTO_INCREMENT,
		email VARCHAR(255) UNIQUE,
		age INT
	)`)
	require.NoError(t, err)

	return &realMySQL{container: c, db: db}
}

func fakeUsersConn(t *testing.T) *server.Connection {
	t.Helper()
	store := server.NewStore()
	store.CreateDatabase("testdb")
	store.CreateTable("testdb", "users", &schema.TableSchema{
		Name: "users",
		Fields: []schema.Column{
			{Name: "id", Type: schema.TypeInt, AutoIncrement: true},
			{Name: "email", Type: schema.TypeString},
			{Name: "age", Type: schema.TypeInt},
		},
		Indexes: []schema.Index{
			{Name: "PRIMARY", Kind: schema.KindPrimary, Fields: []string{"id"}},
			{Name: "uq_email", Kind: schema.KindUnique, Fields: []string{"email"}},
		},
	})
	return store.NewConnection("testdb")
}

// TestInsertSelectParity inserts the same row through this engine and
// through a real MySQL server and asserts both report the same
// LAST_INSERT_ID, and that the real server returns the inserted age on
// SELECT.
func TestInsertSelectParity(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping parity test in short mode")
	}
	real := setupMySQL(t)
	fakeConn := fakeUsersConn(t)

	res, err := real.db.Exec(`INSERT INTO users (email, age) VALUES (?, ?)`, "alice@example.com", 30)
	require.NoError(t, err)
	realID, err := res.LastInsertId()
	require.NoError(t, err)

	r := row.NewRow()
	r.Set("email", sqlvalue.NewString("alice@example.com"))
	r.Set("age", sqlvalue.NewInt(30))
	ins := &statements.Insert{Table: "users", Row: r}
	id, err := ins.Execute(fakeConn, queryctx.New())
	require.NoError(t, err)

	var realAge int
	require.NoError(t, real.db.QueryRow(`SELECT age FROM users WHERE email = ?`, "alice@example.com").Scan(&realAge))
	assert.Equal(t, int64(realAge), int64(30))
	assert.Equal(t, row.IntID(1), id)
	assert.Equal(t, int64(1), fakeConn.LastInsertID())
	assert.Equal(t, realID, fakeConn.LastInsertID())
}

// TestUniqueViolationParity asserts both backends reject a duplicate
// email the same way: an error, with no row added.
func TestUniqueViolationParity(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping parity test in short mode")
	}
	real := setupMySQL(t)
	fakeConn := fakeUsersConn(t)

	_, err := real.db.Exec(`INSERT INTO users (email, age) VALUES (?, ?)`, "bob@example.com", 20)
	require.NoError(t, err)
	_, err = real.db.Exec(`INSERT INTO users (email, age) VALUES (?, ?)`, "bob@example.com", 21)
	assert.Error(t, err)
	var realCount int
	require.NoError(t, real.db.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, "bob@example.com").Scan(&realCount))
	assert.Equal(t, 1, realCount)

	r1 := row.NewRow()
	r1.Set("email", sqlvalue.NewString("bob@example.com"))
	r1.Set("age", sqlvalue.NewInt(20))
	_, err = (&statements.Insert{Table: "users", Row: r1}).Execute(fakeConn, queryctx.New())
	require.NoError(t, err)

	r2 := row.NewRow()
	r2.Set("email", sqlvalue.NewString("bob@example.com"))
	r2.Set("age", sqlvalue.NewInt(21))
	_, err = (&statements.Insert{Table: "users", Row: r2}).Execute(fakeConn, queryctx.New())
	var violation *engine.UniqueKeyViolation
	assert.ErrorAs(t, err, &violation)
	tbl, ok := fakeConn.Store().GetTable("testdb", "users")
	require.True(t, ok)
	assert.Equal(t, 1, tbl.Dataset.Len())
}

// TestUpdateWhereParity asserts an UPDATE ... WHERE touches the same row
// set on both backends.
func TestUpdateWhereParity(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping parity test in short mode")
	}
	real := setupMySQL(t)
	fakeConn := fakeUsersConn(t)

	for _, row := range []struct {
		email string
		age   int
	}{{"carol@example.com", 40}, {"dave@example.com", 10}} {
		_, err := real.db.Exec(`INSERT INTO users (email, age) VALUES (?, ?)`, row.email, row.age)
		require.NoError(t, err)
		r := newRow(row.email, row.age)
		_, err = (&statements.Insert{Table: "users", Row: r}).Execute(fakeConn, queryctx.New())
		require.NoError(t, err)
	}

	res, err := real.db.Exec(`UPDATE users SET age = age + 1 WHERE age >= 18`)
	require.NoError(t, err)
	realAffected, err := res.RowsAffected()
	require.NoError(t, err)

	p := sqlexpr.NewParser()
	where, err := p.ParseExpr("age >= 18")
	require.NoError(t, err)
	ageExpr, err := p.ParseExpr("age + 1")
	require.NoError(t, err)

	upd := &statements.Update{
		Table: "users",
		Where: where,
		Assignments: []engine.Assignment{
			{Column: "age", Expr: ageExpr},
		},
	}
	result, err := upd.Execute(fakeConn, queryctx.New())
	require.NoError(t, err)

	assert.Equal(t, realAffected, int64(result.UpdatedCount))
}

func newRow(email string, age int) *row.Row {
	r := row.NewRow()
	r.Set("email", sqlvalue.NewString(email))
	r.Set("age", sqlvalue.NewInt(int64(age)))
	return r
}
