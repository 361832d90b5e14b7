package sqlexpr

import (
	"fmt"
	"strings"

	"sqlfake/internal/row"
	"sqlfake/internal/sqlvalue"
)

// Literal is a constant value expression.
type Literal struct {
	name string
	val  sqlvalue.Value
}

// NewLiteral wraps v as an Expression whose Name is its rendered text.
func NewLiteral(v sqlvalue.Value) *Literal {
	return &Literal{name: v.String(), val: v}
}

func (l *Literal) Name() string { return l.name }

func (l *Literal) Evaluate(Row, Connection) (sqlvalue.Value, error) { return l.val, nil }

// Value returns the literal's wrapped value, used by internal/planner
// to recognize `column = literal` equality predicates.
func (l *Literal) Value() sqlvalue.Value { return l.val }

// ColumnRef is a (possibly table-qualified) column reference.
type ColumnRef struct {
	column   string
	table    string
	hasTable bool
}

// NewColumnRef builds an unqualified column reference.
func NewColumnRef(column string) *ColumnRef {
	return &ColumnRef{column: column}
}

// NewQualifiedColumnRef builds a table-qualified column reference.
func NewQualifiedColumnRef(table, column string) *ColumnRef {
	return &ColumnRef{column: column, table: table, hasTable: true}
}

func (c *ColumnRef) Name() string {
	if c.hasTable {
		return c.table + "." + c.column
	}
	return c.column
}

func (c *ColumnRef) ColumnName() string { return c.column }

func (c *ColumnRef) TableName() (string, bool) { return c.table, c.hasTable }

func (c *ColumnRef) AllowFallthrough() bool { return !c.hasTable }

func (c *ColumnRef) Evaluate(r Row, _ Connection) (sqlvalue.Value, error) {
	v, ok := r.Get(c.column)
	if !ok {
		return sqlvalue.Null, nil
	}
	return v, nil
}

// ValuesFunc implements MySQL's VALUES(col) pseudo-function, reading the
// row-injected sql_fake_values.<col> channel (spec §4.5.2.1, §9 DESIGN
// NOTES "Synthetic-column channel for VALUES()").
type ValuesFunc struct {
	column string
}

// NewValuesFunc builds a VALUES(col) reference.
func NewValuesFunc(column string) *ValuesFunc { return &ValuesFunc{column: column} }

func (f *ValuesFunc) Name() string { return fmt.Sprintf("VALUES(%s)", f.column) }

func (f *ValuesFunc) Evaluate(r Row, _ Connection) (sqlvalue.Value, error) {
	v, ok := r.Get(row.FakeValuesPrefix + f.column)
	if !ok {
		return sqlvalue.Null, nil
	}
	return v, nil
}

// BinOp identifies a supported binary operator.
type BinOp int

const (
	OpEQ BinOp = iota
	OpNE
	OpLT
	OpLE
	OpGT
	OpGE
	OpAnd
	OpOr
	OpAdd
	OpSub
	OpMul
	OpDiv
)

// Binary is a binary expression over two sub-expressions.
type Binary struct {
	op   BinOp
	l, r Expression
	text string
}

// NewBinary builds a binary expression. text is the rendered SQL used
// for Name() when this expression is used directly as an ORDER BY key
// (rather than as a sub-expression of one).
func NewBinary(op BinOp, l, r Expression, text string) *Binary {
	return &Binary{op: op, l: l, r: r, text: text}
}

func (b *Binary) Name() string { return b.text }

// Op, L, and R expose the operator and operands so internal/planner can
// recognize equality predicates without a dedicated visitor.
func (b *Binary) Op() BinOp     { return b.op }
func (b *Binary) L() Expression { return b.l }
func (b *Binary) R() Expression { return b.r }

func (b *Binary) Evaluate(row Row, conn Connection) (sqlvalue.Value, error) {
	lv, err := b.l.Evaluate(row, conn)
	if err != nil {
		return sqlvalue.Null, err
	}
	if b.op == OpAnd && !lv.Bool() {
		return sqlvalue.NewBool(false), nil
	}
	if b.op == OpOr && lv.Bool() {
		return sqlvalue.NewBool(true), nil
	}
	rv, err := b.r.Evaluate(row, conn)
	if err != nil {
		return sqlvalue.Null, err
	}
	switch b.op {
	case OpEQ:
		return sqlvalue.NewBool(sqlvalue.Compare(lv, rv) == 0), nil
	case OpNE:
		return sqlvalue.NewBool(sqlvalue.Compare(lv, rv) != 0), nil
	case OpLT:
		return sqlvalue.NewBool(sqlvalue.Compare(lv, rv) < 0), nil
	case OpLE:
		return sqlvalue.NewBool(sqlvalue.Compare(lv, rv) <= 0), nil
	case OpGT:
		return sqlvalue.NewBool(sqlvalue.Compare(lv, rv) > 0), nil
	case OpGE:
		return sqlvalue.NewBool(sqlvalue.Compare(lv, rv) >= 0), nil
	case OpAnd:
		return sqlvalue.NewBool(rv.Bool()), nil
	case OpOr:
		return sqlvalue.NewBool(rv.Bool()), nil
	case OpAdd:
		return sqlvalue.NewFloat(lv.Float() + rv.Float()), nil
	case OpSub:
		return sqlvalue.NewFloat(lv.Float() - rv.Float()), nil
	case OpMul:
		return sqlvalue.NewFloat(lv.Float() * rv.Float()), nil
	case OpDiv:
		if rv.Float() == 0 {
			return sqlvalue.Null, nil
		}
		return sqlvalue.NewFloat(lv.Float() / rv.Float()), nil
	default:
		return sqlvalue.Null, fmt.Errorf("sqlexpr: unsupported binary operator")
	}
}

// Unary is a unary expression: NOT or arithmetic negation.
type Unary struct {
	not  bool
	neg  bool
	expr Expression
	text string
}

// NewNot builds a NOT expression.
func NewNot(e Expression, text string) *Unary { return &Unary{not: true, expr: e, text: text} }

// NewNegate builds an arithmetic negation expression.
func NewNegate(e Expression, text string) *Unary { return &Unary{neg: true, expr: e, text: text} }

func (u *Unary) Name() string { return u.text }

func (u *Unary) Evaluate(r Row, conn Connection) (sqlvalue.Value, error) {
	v, err := u.expr.Evaluate(r, conn)
	if err != nil {
		return sqlvalue.Null, err
	}
	if u.not {
		return sqlvalue.NewBool(!v.Bool()), nil
	}
	return sqlvalue.NewFloat(-v.Float()), nil
}

// IsNull implements `expr IS [NOT] NULL`.
type IsNull struct {
	expr Expression
	not  bool
	text string
}

// NewIsNull builds an IS [NOT] NULL expression.
func NewIsNull(e Expression, not bool, text string) *IsNull {
	return &IsNull{expr: e, not: not, text: text}
}

func (n *IsNull) Name() string { return n.text }

func (n *IsNull) Evaluate(r Row, conn Connection) (sqlvalue.Value, error) {
	v, err := n.expr.Evaluate(r, conn)
	if err != nil {
		return sqlvalue.Null, err
	}
	result := v.IsNull()
	if n.not {
		result = !result
	}
	return sqlvalue.NewBool(result), nil
}

// In implements `expr [NOT] IN (list...)`.
type In struct {
	expr Expression
	list []Expression
	not  bool
	text string
}

// NewIn builds an IN expression.
func NewIn(e Expression, list []Expression, not bool, text string) *In {
	return &In{expr: e, list: list, not: not, text: text}
}

func (in *In) Name() string { return in.text }

func (in *In) Evaluate(r Row, conn Connection) (sqlvalue.Value, error) {
	v, err := in.expr.Evaluate(r, conn)
	if err != nil {
		return sqlvalue.Null, err
	}
	found := false
	for _, item := range in.list {
		iv, err := item.Evaluate(r, conn)
		if err != nil {
			return sqlvalue.Null, err
		}
		if sqlvalue.Compare(v, iv) == 0 {
			found = true
			break
		}
	}
	if in.not {
		found = !found
	}
	return sqlvalue.NewBool(found), nil
}

// Like implements `expr [NOT] LIKE pattern`, with MySQL's `%`/`_`
// wildcards translated to a simple glob match.
type Like struct {
	expr    Expression
	pattern Expression
	not     bool
	text    string
}

// NewLike builds a LIKE expression.
func NewLike(e, pattern Expression, not bool, text string) *Like {
	return &Like{expr: e, pattern: pattern, not: not, text: text}
}

func (l *Like) Name() string { return l.text }

func (l *Like) Evaluate(r Row, conn Connection) (sqlvalue.Value, error) {
	v, err := l.expr.Evaluate(r, conn)
	if err != nil {
		return sqlvalue.Null, err
	}
	p, err := l.pattern.Evaluate(r, conn)
	if err != nil {
		return sqlvalue.Null, err
	}
	matched := likeMatch(v.String(), p.String())
	if l.not {
		matched = !matched
	}
	return sqlvalue.NewBool(matched), nil
}

// likeMatch implements MySQL LIKE semantics for the `%` (any run) and
// `_` (single char) wildcards, case-insensitively.
func likeMatch(s, pattern string) bool {
	s = strings.ToLower(s)
	pattern = strings.ToLower(pattern)
	return likeMatchRunes([]rune(s), []rune(pattern))
}

func likeMatchRunes(s, p []rune) bool {
	if len(p) == 0 {
		return len(s) == 0
	}
	if p[0] == '%' {
		if likeMatchRunes(s, p[1:]) {
			return true
		}
		for i := range s {
			if likeMatchRunes(s[i+1:], p[1:]) {
				return true
			}
		}
		return false
	}
	if len(s) == 0 {
		return false
	}
	if p[0] == '_' || p[0] == s[0] {
		return likeMatchRunes(s[1:], p[1:])
	}
	return false
}

// Between implements `expr [NOT] BETWEEN lo AND hi`.
type Between struct {
	expr   Expression
	lo, hi Expression
	not    bool
	text   string
}

// NewBetween builds a BETWEEN expression.
func NewBetween(e, lo, hi Expression, not bool, text string) *Between {
	return &Between{expr: e, lo: lo, hi: hi, not: not, text: text}
}

func (b *Between) Name() string { return b.text }

func (b *Between) Evaluate(r Row, conn Connection) (sqlvalue.Value, error) {
	v, err := b.expr.Evaluate(r, conn)
	if err != nil {
		return sqlvalue.Null, err
	}
	lo, err := b.lo.Evaluate(r, conn)
	if err != nil {
		return sqlvalue.Null, err
	}
	hi, err := b.hi.Evaluate(r, conn)
	if err != nil {
		return sqlvalue.Null, err
	}
	within := sqlvalue.Compare(v, lo) >= 0 && sqlvalue.Compare(v, hi) <= 0
	if b.not {
		within = !within
	}
	return sqlvalue.NewBool(within), nil
}
