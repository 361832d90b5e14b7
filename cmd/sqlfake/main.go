// Package main is the command-line entry point: load a TOML fixture into
// the in-memory server, then either run a `.sql` script against it or
// explain how one SELECT would be planned. Grounded on cmd/smf/main.go's
// cobra root command plus subcommand-flags-RunE shape, and on
// internal/apply.Applier's injectable io.Writer for all CLI output.
package main

import (
	"fmt"
	"io"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"

	"sqlfake/internal/engine"
	"sqlfake/internal/fixture"
	"sqlfake/internal/indexrefs"
	"sqlfake/internal/planner"
	"sqlfake/internal/queryctx"
	"sqlfake/internal/row"
	"sqlfake/internal/server"
	"sqlfake/internal/sqlstmt"
	"sqlfake/internal/statements"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sqlfake",
		Short: "In-memory MySQL-emulating query executor",
	}

	rootCmd.AddCommand(runCmd(os.Stdout))
	rootCmd.AddCommand(explainCmd(os.Stdout))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "run <fixture.toml> <script.sql>",
		Short: "Load a fixture and run a SQL script against it",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runScript(out, args[0], args[1])
		},
	}
}

func explainCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "explain <fixture.toml> <select-statement>",
		Short: "Show how a SELECT would be planned, without executing it",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runExplain(out, args[0], args[1])
		},
	}
}

// loadStore builds a server.Store and QueryContext from a fixture file,
// seeding every table's dataset and index refs from the fixture's rows.
func loadStore(fixturePath string) (*server.Store, *server.Connection, *queryctx.Context, error) {
	fx, err := fixture.NewParser().ParseFile(fixturePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading fixture: %w", err)
	}

	store := server.NewStore()
	store.CreateDatabase(fx.Database)
	for name, tf := range fx.Tables {
		tbl := store.CreateTable(fx.Database, name, tf.Schema)
		tbl.Dataset = tf.Dataset
		tbl.Refs = indexrefs.NewStore()
		applicable := engine.ComputeApplicableIndexes(tf.Schema, nil, true)
		tf.Dataset.Each(func(id row.ID, r *row.Row) {
			for _, k := range engine.ComputeIndexKeys(applicable, r) {
				tbl.Refs.Add(k.IndexName, k.Path, k.StoreAsUnique, id)
			}
		})
	}

	conn := store.NewConnection(fx.Database)
	return store, conn, fx.QueryContext, nil
}

func runScript(out io.Writer, fixturePath, scriptPath string) error {
	_, conn, qctx, err := loadStore(fixturePath)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("reading script: %w", err)
	}

	stmts, err := sqlstmt.NewParser().ParseScript(string(content))
	if err != nil {
		return fmt.Errorf("parsing script: %w", err)
	}

	for _, stmt := range stmts {
		if err := runStatement(out, conn, qctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func runStatement(out io.Writer, conn *server.Connection, qctx *queryctx.Context, stmt sqlstmt.Statement) error {
	switch s := stmt.(type) {
	case *statements.Select:
		dataset, err := s.Execute(conn, qctx)
		if err != nil {
			return err
		}
		printDataset(out, dataset)
	case *statements.Update:
		result, err := s.Execute(conn, qctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "updated %d row(s)\n", result.UpdatedCount)
	case *statements.Delete:
		count, err := s.Execute(conn, qctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "deleted %d row(s)\n", count)
	case *statements.Insert:
		id, err := s.Execute(conn, qctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "inserted row %s (last_insert_id=%d)\n", id, conn.LastInsertID())
	default:
		return fmt.Errorf("unsupported statement type %T", stmt)
	}
	return nil
}

func printDataset(out io.Writer, dataset *row.Dataset) {
	dataset.Each(func(id row.ID, r *row.Row) {
		fmt.Fprintf(out, "%s:", id)
		for _, col := range r.Columns() {
			fmt.Fprintf(out, " %s=%s", col, r.GetOr(col).String())
		}
		fmt.Fprintln(out)
	})
}

func runExplain(out io.Writer, fixturePath, selectText string) error {
	_, conn, _, err := loadStore(fixturePath)
	if err != nil {
		return err
	}

	stmts, err := sqlstmt.NewParser().ParseScript(selectText)
	if err != nil {
		return fmt.Errorf("parsing statement: %w", err)
	}
	if len(stmts) != 1 {
		return fmt.Errorf("explain takes exactly one statement")
	}
	sel, ok := stmts[0].(*statements.Select)
	if !ok {
		return fmt.Errorf("explain only supports SELECT statements")
	}

	db, table, err := engine.ParseTableName(sel.Table, conn.CurrentDatabase())
	if err != nil {
		return err
	}
	tbl, ok := conn.Store().GetTable(db, table)
	if !ok {
		return fmt.Errorf("unknown table %s", sel.Table)
	}

	hints := &planner.Hints{Columns: tbl.Schema.Fields, Indexes: tbl.Schema.Indexes}
	narrowed, allMatched := planner.FilterWithIndexes(tbl.Dataset, tbl.Refs, hints, sel.Where)

	fmt.Fprintf(out, "table: %s (%d rows)\n", table, tbl.Dataset.Len())
	if allMatched {
		fmt.Fprintf(out, "plan: index lookup fully answers WHERE, %d row(s) matched\n", narrowed.Len())
	} else {
		fmt.Fprintf(out, "plan: row-by-row scan over %d row(s)\n", tbl.Dataset.Len())
	}
	return nil
}
