// Package sqlstmt parses whole SQL statements (SELECT/UPDATE/DELETE/
// INSERT) into internal/statements' executable statement types, the way
// internal/parser/mysql.Parser turns whole CREATE TABLE text into
// internal/core types. It reuses the same tidb parser internal/sqlexpr
// parses scalar expressions with, narrowed to the single-table,
// no-subquery statement shapes this engine executes; cmd/sqlfake is the
// only caller, translating a `.sql` script file into calls against the
// in-memory server.
package sqlstmt

import (
	"fmt"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"

	"sqlfake/internal/engine"
	"sqlfake/internal/row"
	"sqlfake/internal/sqlexpr"
	"sqlfake/internal/statements"
)

// Parser parses SQL script text into a sequence of runnable statements.
type Parser struct {
	p *parser.Parser
}

// NewParser returns a Parser backed by a fresh tidb parser instance.
func NewParser() *Parser { return &Parser{p: parser.New()} }

// Statement is anything internal/statements produces an Execute method
// for; cmd/sqlfake type-switches on the concrete type to print results.
type Statement interface{}

// ParseScript parses a `;`-separated script into one Statement per SQL
// statement, in source order.
func (p *Parser) ParseScript(script string) ([]Statement, error) {
	stmtNodes, _, err := p.p.Parse(script, "", "")
	if err != nil {
		return nil, fmt.Errorf("sqlstmt: parse error: %w", err)
	}
	out := make([]Statement, 0, len(stmtNodes))
	for _, n := range stmtNodes {
		stmt, err := convertStmt(n)
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}

func convertStmt(n ast.StmtNode) (Statement, error) {
	switch s := n.(type) {
	case *ast.SelectStmt:
		return convertSelect(s)
	case *ast.UpdateStmt:
		return convertUpdate(s)
	case *ast.DeleteStmt:
		return convertDelete(s)
	case *ast.InsertStmt:
		return convertInsert(s)
	default:
		return nil, fmt.Errorf("sqlstmt: unsupported statement type %T", n)
	}
}

func tableName(refs *ast.TableRefsClause) (string, error) {
	if refs == nil || refs.TableRefs == nil {
		return "", fmt.Errorf("sqlstmt: statement has no table reference")
	}
	join := refs.TableRefs
	src, ok := join.Left.(*ast.TableSource)
	if !ok {
		return "", fmt.Errorf("sqlstmt: unsupported FROM clause shape %T", join.Left)
	}
	tn, ok := src.Source.(*ast.TableName)
	if !ok {
		return "", fmt.Errorf("sqlstmt: only plain table names are supported, got %T", src.Source)
	}
	if tn.Schema.O != "" {
		return tn.Schema.O + "." + tn.Name.O, nil
	}
	return tn.Name.O, nil
}

func whereExpr(e ast.ExprNode) (sqlexpr.Expression, error) {
	if e == nil {
		return nil, nil
	}
	return sqlexpr.ExprFromNode(e)
}

func convertSelect(s *ast.SelectStmt) (*statements.Select, error) {
	table, err := tableName(s.From)
	if err != nil {
		return nil, err
	}
	where, err := whereExpr(s.Where)
	if err != nil {
		return nil, err
	}

	sel := &statements.Select{Table: table, Where: where}

	if s.OrderBy != nil {
		for _, item := range s.OrderBy.Items {
			expr, err := sqlexpr.ExprFromNode(item.Expr)
			if err != nil {
				return nil, err
			}
			sel.OrderBy = append(sel.OrderBy, engine.OrderRule{Expr: expr, Desc: item.Desc})
		}
	}

	if s.Limit != nil {
		count, err := evalLimitOperand(s.Limit.Count)
		if err != nil {
			return nil, err
		}
		sel.HasLimit = true
		sel.Limit = int(count)
		if s.Limit.Offset != nil {
			offset, err := evalLimitOperand(s.Limit.Offset)
			if err != nil {
				return nil, err
			}
			sel.Offset = int(offset)
		}
	}

	return sel, nil
}

func evalLimitOperand(e ast.ExprNode) (int64, error) {
	expr, err := sqlexpr.ExprFromNode(e)
	if err != nil {
		return 0, err
	}
	v, err := expr.Evaluate(nil, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlstmt: evaluating LIMIT/OFFSET: %w", err)
	}
	return v.Int(), nil
}

func convertUpdate(s *ast.UpdateStmt) (*statements.Update, error) {
	table, err := tableName(s.TableRefs)
	if err != nil {
		return nil, err
	}
	where, err := whereExpr(s.Where)
	if err != nil {
		return nil, err
	}
	assignments, err := convertAssignments(s.List)
	if err != nil {
		return nil, err
	}
	return &statements.Update{Table: table, Where: where, Assignments: assignments}, nil
}

func convertDelete(s *ast.DeleteStmt) (*statements.Delete, error) {
	table, err := tableName(s.TableRefs)
	if err != nil {
		return nil, err
	}
	where, err := whereExpr(s.Where)
	if err != nil {
		return nil, err
	}
	return &statements.Delete{Table: table, Where: where}, nil
}

func convertInsert(s *ast.InsertStmt) (*statements.Insert, error) {
	table, err := tableName(s.Table)
	if err != nil {
		return nil, err
	}
	if len(s.Lists) != 1 {
		return nil, fmt.Errorf("sqlstmt: INSERT supports exactly one VALUES row, got %d", len(s.Lists))
	}
	if len(s.Columns) != len(s.Lists[0]) {
		return nil, fmt.Errorf("sqlstmt: INSERT column count does not match VALUES count")
	}

	r := row.NewRow()
	for i, col := range s.Columns {
		expr, err := sqlexpr.ExprFromNode(s.Lists[0][i])
		if err != nil {
			return nil, err
		}
		v, err := expr.Evaluate(nil, nil)
		if err != nil {
			return nil, fmt.Errorf("sqlstmt: evaluating value for column %q: %w", col.Name.O, err)
		}
		r.Set(col.Name.O, v)
	}

	onDup, err := convertAssignments(s.OnDuplicate)
	if err != nil {
		return nil, err
	}

	return &statements.Insert{Table: table, Row: r, OnDuplicateKeyUpdate: onDup}, nil
}

func convertAssignments(list []*ast.Assignment) ([]engine.Assignment, error) {
	out := make([]engine.Assignment, 0, len(list))
	for _, a := range list {
		expr, err := sqlexpr.ExprFromNode(a.Expr)
		if err != nil {
			return nil, err
		}
		out = append(out, engine.Assignment{Column: a.Column.Name.O, Expr: expr})
	}
	return out, nil
}
