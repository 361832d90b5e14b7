package sqlexpr

import (
	"fmt"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	"github.com/pingcap/tidb/pkg/parser/opcode"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"

	"sqlfake/internal/sqlvalue"
)

// Parser parses SQL expression text into an Expression tree, the way
// internal/parser/mysql.Parser parses whole CREATE TABLE statements in
// the teacher repo — same tidb parser, narrowed to scalar expressions
// since the CORE only needs WHERE/ORDER BY/SET operands, not full DDL.
type Parser struct {
	p *parser.Parser
}

// NewParser returns a Parser backed by a fresh tidb parser instance.
func NewParser() *Parser { return &Parser{p: parser.New()} }

// ParseExpr parses one scalar SQL expression, such as "age >= 18" or
// "count + VALUES(count)". It works by parsing a synthetic
// `SELECT <text>` statement and pulling out the single projected
// expression — the parser has no standalone expression-only entry
// point, so this mirrors how query tools embed expression text in a
// throwaway SELECT to reuse the full grammar.
func (p *Parser) ParseExpr(text string) (Expression, error) {
	stmtNodes, _, err := p.p.Parse("SELECT "+text, "", "")
	if err != nil {
		return nil, fmt.Errorf("sqlexpr: parse error: %w", err)
	}
	if len(stmtNodes) != 1 {
		return nil, fmt.Errorf("sqlexpr: expected exactly one statement")
	}
	sel, ok := stmtNodes[0].(*ast.SelectStmt)
	if !ok || sel.Fields == nil || len(sel.Fields.Fields) != 1 {
		return nil, fmt.Errorf("sqlexpr: expected a single expression")
	}
	return convert(sel.Fields.Fields[0].Expr, text)
}

// ExprFromNode converts one already-parsed tidb ast.ExprNode into an
// Expression. It exists for callers (internal/sqlstmt) that parse whole
// statements with the same tidb parser and only need this package's
// expression conversion for the WHERE/ORDER BY/assignment operands
// inside them.
func ExprFromNode(n ast.ExprNode) (Expression, error) {
	return convert(n, n.Text())
}

// convert walks one tidb ast.ExprNode into an Expression. text is the
// original source slice for this node, used verbatim as Name() for
// operator expressions (binary, unary, IS NULL, IN, LIKE, BETWEEN);
// column references, literals and VALUES() derive their own names.
func convert(n ast.ExprNode, text string) (Expression, error) {
	switch e := n.(type) {
	case *ast.ColumnNameExpr:
		if e.Name.Table.O != "" {
			return NewQualifiedColumnRef(e.Name.Table.O, e.Name.Name.O), nil
		}
		return NewColumnRef(e.Name.Name.O), nil

	case ast.ValueExpr:
		return NewLiteral(datumToValue(e.GetValue())), nil

	case *ast.ParenthesesExpr:
		return convert(e.Expr, text)

	case *ast.BinaryOperationExpr:
		op, ok := binOpFor(e.Op)
		if !ok {
			return nil, fmt.Errorf("sqlexpr: unsupported operator %v", e.Op)
		}
		l, err := convert(e.L, "")
		if err != nil {
			return nil, err
		}
		r, err := convert(e.R, "")
		if err != nil {
			return nil, err
		}
		return NewBinary(op, l, r, text), nil

	case *ast.UnaryOperationExpr:
		sub, err := convert(e.V, "")
		if err != nil {
			return nil, err
		}
		switch e.Op {
		case opcode.Not:
			return NewNot(sub, text), nil
		case opcode.Minus:
			return NewNegate(sub, text), nil
		case opcode.Plus:
			return sub, nil
		default:
			return nil, fmt.Errorf("sqlexpr: unsupported unary operator %v", e.Op)
		}

	case *ast.IsNullExpr:
		sub, err := convert(e.Expr, "")
		if err != nil {
			return nil, err
		}
		return NewIsNull(sub, e.Not, text), nil

	case *ast.PatternInExpr:
		sub, err := convert(e.Expr, "")
		if err != nil {
			return nil, err
		}
		list := make([]Expression, 0, len(e.List))
		for _, item := range e.List {
			ie, err := convert(item, "")
			if err != nil {
				return nil, err
			}
			list = append(list, ie)
		}
		return NewIn(sub, list, e.Not, text), nil

	case *ast.PatternLikeOrIlikeExpr:
		sub, err := convert(e.Expr, "")
		if err != nil {
			return nil, err
		}
		pat, err := convert(e.Pattern, "")
		if err != nil {
			return nil, err
		}
		return NewLike(sub, pat, e.Not, text), nil

	case *ast.BetweenExpr:
		sub, err := convert(e.Expr, "")
		if err != nil {
			return nil, err
		}
		lo, err := convert(e.Left, "")
		if err != nil {
			return nil, err
		}
		hi, err := convert(e.Right, "")
		if err != nil {
			return nil, err
		}
		return NewBetween(sub, lo, hi, e.Not, text), nil

	case *ast.FuncCallExpr:
		if e.FnName.L == "values" && len(e.Args) == 1 {
			col, ok := e.Args[0].(*ast.ColumnNameExpr)
			if !ok {
				return nil, fmt.Errorf("sqlexpr: VALUES() requires a column argument")
			}
			return NewValuesFunc(col.Name.Name.O), nil
		}
		return nil, fmt.Errorf("sqlexpr: unsupported function %s", e.FnName.O)

	default:
		return nil, fmt.Errorf("sqlexpr: unsupported expression type %T", n)
	}
}

func binOpFor(op opcode.Op) (BinOp, bool) {
	switch op {
	case opcode.EQ:
		return OpEQ, true
	case opcode.NE:
		return OpNE, true
	case opcode.LT:
		return OpLT, true
	case opcode.LE:
		return OpLE, true
	case opcode.GT:
		return OpGT, true
	case opcode.GE:
		return OpGE, true
	case opcode.LogicAnd:
		return OpAnd, true
	case opcode.LogicOr:
		return OpOr, true
	case opcode.Plus:
		return OpAdd, true
	case opcode.Minus:
		return OpSub, true
	case opcode.Mul:
		return OpMul, true
	case opcode.Div:
		return OpDiv, true
	default:
		return 0, false
	}
}

// datumToValue converts the interface{} a tidb ValueExpr literal holds
// (via types.Datum.GetValue(), registered through the test_driver blank
// import) into a sqlvalue.Value.
func datumToValue(v interface{}) sqlvalue.Value {
	switch val := v.(type) {
	case nil:
		return sqlvalue.Null
	case int64:
		return sqlvalue.NewInt(val)
	case uint64:
		return sqlvalue.NewInt(int64(val))
	case float32:
		return sqlvalue.NewFloat(float64(val))
	case float64:
		return sqlvalue.NewFloat(val)
	case string:
		return sqlvalue.NewString(val)
	case []byte:
		return sqlvalue.NewString(string(val))
	case bool:
		return sqlvalue.NewBool(val)
	default:
		return sqlvalue.NewString(fmt.Sprintf("%v", val))
	}
}
