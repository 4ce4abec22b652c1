package imp

import (
	"fmt"
	"sort"
	"strconv"
)

// Expression represents a node in a program expression tree.
//
// The set of implementations is closed: VariableValue, Constant, BinaryExpr
// and NotExpr. Expressions are immutable once built and may be shared by
// concurrent readers.
type Expression interface {
	String() string
	expression()
}

func (*VariableValue) expression() {}
func (*Constant) expression()      {}
func (*BinaryExpr) expression()    {}
func (*NotExpr) expression()       {}

// ExprType returns the type tag of the expression.
func ExprType(e Expression) Type {
	switch e := e.(type) {
	case *VariableValue:
		return NAT
	case *Constant:
		return e.Type
	case *BinaryExpr:
		if e.Op.IsArithmetic() {
			return NAT
		}
		return BOOL
	case *NotExpr:
		return BOOL
	default:
		panic("unreachable")
	}
}

// BinaryOp represents a binary expression operation.
type BinaryOp int

// BinaryExpr operations.
const (
	arithmetic_op_begin = BinaryOp(iota)
	PLUS
	MINUS
	PRODUCT
	DIVISION
	arithmetic_op_end

	compare_op_begin
	EQUAL
	LESS
	compare_op_end

	logical_op_begin
	AND
	OR
	logical_op_end
)

var binaryOps = [...]string{
	PLUS:     "+",
	MINUS:    "-",
	PRODUCT:  "*",
	DIVISION: "/",
	EQUAL:    "==",
	LESS:     "<",
	AND:      "&&",
	OR:       "||",
}

var smtOps = [...]string{
	PLUS:     "+",
	MINUS:    "-",
	PRODUCT:  "*",
	DIVISION: "div",
	EQUAL:    "=",
	LESS:     "<",
	AND:      "and",
	OR:       "or",
}

// String returns the infix symbol of the operation.
func (op BinaryOp) String() string {
	if op >= 0 && op < BinaryOp(len(binaryOps)) && binaryOps[op] != "" {
		return binaryOps[op]
	}
	return fmt.Sprintf("BinaryOp<%d>", op)
}

// SMT returns the SMT-LIB2 function symbol of the operation.
func (op BinaryOp) SMT() string {
	if op >= 0 && op < BinaryOp(len(smtOps)) && smtOps[op] != "" {
		return smtOps[op]
	}
	return fmt.Sprintf("BinaryOp<%d>", op)
}

// IsArithmetic returns true if op is an arithmetic operator.
func (op BinaryOp) IsArithmetic() bool {
	return op > arithmetic_op_begin && op < arithmetic_op_end
}

// IsCompare returns true if op is a relational operator.
func (op BinaryOp) IsCompare() bool {
	return op > compare_op_begin && op < compare_op_end
}

// IsLogical returns true if op is a boolean connective.
func (op BinaryOp) IsLogical() bool {
	return op > logical_op_begin && op < logical_op_end
}

// VariableValue represents a read of a program variable.
type VariableValue struct {
	Name string
}

// NewVariableValue returns a new instance of VariableValue.
func NewVariableValue(name string) *VariableValue {
	return &VariableValue{Name: name}
}

// String returns the string representation of the expression.
func (e *VariableValue) String() string { return e.Name }

// Constant represents a literal value. Boolean constants hold 0 or 1.
type Constant struct {
	Type  Type
	Value int64
}

// NewNatConstant returns a NAT constant.
func NewNatConstant(value int64) *Constant {
	return &Constant{Type: NAT, Value: value}
}

// NewBoolConstant returns a BOOL constant.
func NewBoolConstant(value bool) *Constant {
	if value {
		return &Constant{Type: BOOL, Value: 1}
	}
	return &Constant{Type: BOOL, Value: 0}
}

// String returns the string representation of the expression.
// BOOL constants render as "True" or "False".
func (e *Constant) String() string {
	if e.Type == BOOL {
		if e.Value != 0 {
			return "True"
		}
		return "False"
	}
	return strconv.FormatInt(e.Value, 10)
}

// BinaryExpr represents an operation on two expressions.
type BinaryExpr struct {
	Op  BinaryOp
	LHS Expression
	RHS Expression
}

// NewBinaryExpr returns a new instance of BinaryExpr.
func NewBinaryExpr(op BinaryOp, lhs, rhs Expression) *BinaryExpr {
	assert(op.IsArithmetic() || op.IsCompare() || op.IsLogical(), "invalid binary op: %s", op)
	return &BinaryExpr{Op: op, LHS: lhs, RHS: rhs}
}

// Binary expression constructors, one per operator.
func NewPlus(lhs, rhs Expression) *BinaryExpr     { return NewBinaryExpr(PLUS, lhs, rhs) }
func NewMinus(lhs, rhs Expression) *BinaryExpr    { return NewBinaryExpr(MINUS, lhs, rhs) }
func NewProduct(lhs, rhs Expression) *BinaryExpr  { return NewBinaryExpr(PRODUCT, lhs, rhs) }
func NewDivision(lhs, rhs Expression) *BinaryExpr { return NewBinaryExpr(DIVISION, lhs, rhs) }
func NewEqual(lhs, rhs Expression) *BinaryExpr    { return NewBinaryExpr(EQUAL, lhs, rhs) }
func NewLess(lhs, rhs Expression) *BinaryExpr     { return NewBinaryExpr(LESS, lhs, rhs) }
func NewAnd(lhs, rhs Expression) *BinaryExpr      { return NewBinaryExpr(AND, lhs, rhs) }
func NewOr(lhs, rhs Expression) *BinaryExpr       { return NewBinaryExpr(OR, lhs, rhs) }

// String returns the string representation of the expression.
func (e *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.LHS, e.Op, e.RHS)
}

// NotExpr represents the boolean negation of an expression.
type NotExpr struct {
	Expr Expression
}

// NewNot returns a new instance of NotExpr.
func NewNot(expr Expression) *NotExpr {
	return &NotExpr{Expr: expr}
}

// String returns the string representation of the expression.
func (e *NotExpr) String() string {
	return fmt.Sprintf("!(%s)", e.Expr)
}

// Evaluate translates e into a symbolic term at step i. Every child is
// evaluated at the same step. The store is only read.
//
// Division emits a raw "div" term; a zero divisor is left to the solver.
func Evaluate(e Expression, s *Store, i int) (Term, error) {
	switch e := e.(type) {
	case *VariableValue:
		return s.Lookup(e.Name, i)
	case *Constant:
		if e.Type == BOOL {
			return NewBoolTerm(e.Value != 0), nil
		}
		return NewIntTerm(e.Value), nil
	case *BinaryExpr:
		lhs, err := Evaluate(e.LHS, s, i)
		if err != nil {
			return nil, err
		}
		rhs, err := Evaluate(e.RHS, s, i)
		if err != nil {
			return nil, err
		}
		return NewBinaryTerm(e.Op, lhs, rhs), nil
	case *NotExpr:
		t, err := Evaluate(e.Expr, s, i)
		if err != nil {
			return nil, err
		}
		return NewNotTerm(t), nil
	default:
		return nil, fmt.Errorf("invalid expression type: %T", e)
	}
}

// CheckExpr verifies that e is well-typed and that its type tag is want.
// Returns a *TypeError for the first mismatch found.
func CheckExpr(e Expression, want Type) error {
	if err := checkExpr(e); err != nil {
		return err
	} else if got := ExprType(e); got != want {
		return &TypeError{Expr: e, Want: want, Got: got}
	}
	return nil
}

func checkExpr(e Expression) error {
	switch e := e.(type) {
	case *VariableValue:
		return nil
	case *Constant:
		if e.Type == BOOL && e.Value != 0 && e.Value != 1 {
			return fmt.Errorf("invalid boolean constant: %d", e.Value)
		} else if e.Type != BOOL && e.Type != NAT {
			return fmt.Errorf("invalid constant type: %s", e.Type)
		}
		return nil
	case *BinaryExpr:
		switch {
		case e.Op.IsArithmetic(), e.Op == LESS:
			if err := CheckExpr(e.LHS, NAT); err != nil {
				return err
			}
			return CheckExpr(e.RHS, NAT)
		case e.Op.IsLogical():
			if err := CheckExpr(e.LHS, BOOL); err != nil {
				return err
			}
			return CheckExpr(e.RHS, BOOL)
		case e.Op == EQUAL:
			if err := checkExpr(e.LHS); err != nil {
				return err
			}
			return CheckExpr(e.RHS, ExprType(e.LHS))
		default:
			return fmt.Errorf("invalid binary op: %s", e.Op)
		}
	case *NotExpr:
		return CheckExpr(e.Expr, BOOL)
	default:
		return fmt.Errorf("invalid expression type: %T", e)
	}
}

// CompareExpr returns an integer comparing two expressions structurally.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
func CompareExpr(a, b Expression) int {
	if a == nil && b != nil {
		return -1
	} else if a != nil && b == nil {
		return 1
	} else if a == nil && b == nil {
		return 0
	}

	if ak, bk := exprKind(a), exprKind(b); ak < bk {
		return -1
	} else if ak > bk {
		return 1
	}

	switch a := a.(type) {
	case *VariableValue:
		return compareString(a.Name, b.(*VariableValue).Name)
	case *Constant:
		return compareConstant(a, b.(*Constant))
	case *BinaryExpr:
		return compareBinaryExpr(a, b.(*BinaryExpr))
	case *NotExpr:
		return CompareExpr(a.Expr, b.(*NotExpr).Expr)
	default:
		panic("unreachable")
	}
}

func compareConstant(a, b *Constant) int {
	if a.Type < b.Type {
		return -1
	} else if a.Type > b.Type {
		return 1
	}
	return compareInt64(a.Value, b.Value)
}

func compareBinaryExpr(a, b *BinaryExpr) int {
	if a.Op < b.Op {
		return -1
	} else if a.Op > b.Op {
		return 1
	}
	if cmp := CompareExpr(a.LHS, b.LHS); cmp != 0 {
		return cmp
	}
	return CompareExpr(a.RHS, b.RHS)
}

func compareString(a, b string) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

// exprKind returns a numeric value for the type of expression.
// Only used internally for equality checks and sorting.
func exprKind(e Expression) int {
	switch e.(type) {
	case *Constant:
		return 1
	case *VariableValue:
		return 2
	case *NotExpr:
		return 3
	case *BinaryExpr:
		return 4
	default:
		panic("unreachable")
	}
}

// ExprVisitor represents a visitor that can be passed to WalkExpr().
type ExprVisitor interface {
	// Executed for every visited node. Return nil to skip the node's children.
	Visit(e Expression) ExprVisitor
}

// WalkExpr traverses e in depth-first order. Expressions are never modified.
func WalkExpr(v ExprVisitor, e Expression) {
	if v = v.Visit(e); v == nil {
		return
	}

	switch e := e.(type) {
	case *BinaryExpr:
		WalkExpr(v, e.LHS)
		WalkExpr(v, e.RHS)
	case *NotExpr:
		WalkExpr(v, e.Expr)
	case *VariableValue, *Constant:
		// nop
	default:
		panic("unreachable")
	}
}

// ExprVars returns the names of all variables read by the expressions, sorted.
func ExprVars(exprs ...Expression) []string {
	v := make(nameVisitor)
	for _, e := range exprs {
		WalkExpr(v, e)
	}
	return v.names()
}

type nameVisitor map[string]struct{}

func (v nameVisitor) Visit(e Expression) ExprVisitor {
	if e, ok := e.(*VariableValue); ok {
		v[e.Name] = struct{}{}
	}
	return v
}

func (v nameVisitor) names() []string {
	a := make([]string, 0, len(v))
	for name := range v {
		a = append(a, name)
	}
	sort.Strings(a)
	return a
}

// Variable represents the target of an assignment.
type Variable struct {
	Name string
}

// NewVariable returns a new instance of Variable.
func NewVariable(name string) *Variable {
	return &Variable{Name: name}
}

// String returns the variable name.
func (v *Variable) String() string { return v.Name }
