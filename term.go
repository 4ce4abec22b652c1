package imp

import (
	"bytes"
	"fmt"
	"io"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// Term represents a symbolic term that can be handed to a constraint solver.
// Terms are immutable once built and are never simplified.
type Term interface {
	String() string
	term()
}

func (*VarTerm) term()    {}
func (*IntTerm) term()    {}
func (*BoolTerm) term()   {}
func (*BinaryTerm) term() {}
func (*NotTerm) term()    {}

// TermType returns the type tag matching the sort of the term.
// Integer-sorted terms are NAT and boolean-sorted terms are BOOL.
func TermType(t Term) Type {
	switch t := t.(type) {
	case *VarTerm, *IntTerm:
		return NAT
	case *BoolTerm, *NotTerm:
		return BOOL
	case *BinaryTerm:
		if t.Op.IsArithmetic() {
			return NAT
		}
		return BOOL
	default:
		panic("unreachable")
	}
}

// VarTerm represents the integer value of a program variable at a given step.
type VarTerm struct {
	Name string
	Step int
}

// NewVarTerm returns a new instance of VarTerm.
func NewVarTerm(name string, step int) *VarTerm {
	return &VarTerm{Name: name, Step: step}
}

// Symbol returns the solver symbol for the variable, e.g. "x@3".
func (t *VarTerm) Symbol() string {
	return t.Name + "@" + strconv.Itoa(t.Step)
}

// String returns the SMT-LIB form of the symbol. Symbols that are not simple
// symbols are quoted with vertical bars, e.g. "|my var@0|".
func (t *VarTerm) String() string {
	sym := t.Symbol()
	if isSimpleSymbol(sym) {
		return sym
	}
	return "|" + sym + "|"
}

// isSimpleSymbol returns true if s can be written unquoted in SMT-LIB.
// Symbols starting with "@" or "." are reserved for solvers.
func isSimpleSymbol(s string) bool {
	if s == "" || (s[0] >= '0' && s[0] <= '9') || s[0] == '@' || s[0] == '.' {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("~!@$%^&*_-+=<>.?/", r):
		default:
			return false
		}
	}
	return true
}

// IntTerm represents an integer literal.
type IntTerm struct {
	Value int64
}

// NewIntTerm returns a new instance of IntTerm.
func NewIntTerm(value int64) *IntTerm {
	return &IntTerm{Value: value}
}

// String returns the string representation of the term.
// Negative values use the SMT-LIB unary minus form.
func (t *IntTerm) String() string {
	if t.Value < 0 {
		return fmt.Sprintf("(- %d)", uint64(-(t.Value+1))+1)
	}
	return strconv.FormatInt(t.Value, 10)
}

// BoolTerm represents a boolean literal.
type BoolTerm struct {
	Value bool
}

// NewBoolTerm returns a new instance of BoolTerm.
func NewBoolTerm(value bool) *BoolTerm {
	return &BoolTerm{Value: value}
}

// String returns the string representation of the term.
func (t *BoolTerm) String() string {
	return strconv.FormatBool(t.Value)
}

// BinaryTerm represents an operation on two terms.
type BinaryTerm struct {
	Op  BinaryOp
	LHS Term
	RHS Term
}

// NewBinaryTerm returns a new instance of BinaryTerm.
func NewBinaryTerm(op BinaryOp, lhs, rhs Term) *BinaryTerm {
	assert(op.IsArithmetic() || op.IsCompare() || op.IsLogical(), "invalid term op: %s", op)
	return &BinaryTerm{Op: op, LHS: lhs, RHS: rhs}
}

// NewEq returns a term asserting the equality of lhs and rhs.
func NewEq(lhs, rhs Term) *BinaryTerm { return NewBinaryTerm(EQUAL, lhs, rhs) }

// NewAndTerm returns the conjunction of lhs and rhs.
func NewAndTerm(lhs, rhs Term) *BinaryTerm { return NewBinaryTerm(AND, lhs, rhs) }

// String returns the string representation of the term.
func (t *BinaryTerm) String() string {
	return fmt.Sprintf("(%s %s %s)", t.Op.SMT(), t.LHS, t.RHS)
}

// NotTerm represents the boolean negation of a term.
type NotTerm struct {
	Term Term
}

// NewNotTerm returns a new instance of NotTerm.
func NewNotTerm(t Term) *NotTerm {
	return &NotTerm{Term: t}
}

// String returns the string representation of the term.
func (t *NotTerm) String() string {
	return fmt.Sprintf("(not %s)", t.Term)
}

// CompareTerm returns an integer comparing two terms structurally.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
func CompareTerm(a, b Term) int {
	if a == nil && b != nil {
		return -1
	} else if a != nil && b == nil {
		return 1
	} else if a == nil && b == nil {
		return 0
	}

	if ak, bk := termKind(a), termKind(b); ak < bk {
		return -1
	} else if ak > bk {
		return 1
	}

	switch a := a.(type) {
	case *VarTerm:
		return compareVarTerm(a, b.(*VarTerm))
	case *IntTerm:
		return compareInt64(a.Value, b.(*IntTerm).Value)
	case *BoolTerm:
		return compareBool(a.Value, b.(*BoolTerm).Value)
	case *BinaryTerm:
		return compareBinaryTerm(a, b.(*BinaryTerm))
	case *NotTerm:
		return CompareTerm(a.Term, b.(*NotTerm).Term)
	default:
		panic("unreachable")
	}
}

func compareVarTerm(a, b *VarTerm) int {
	if a.Name < b.Name {
		return -1
	} else if a.Name > b.Name {
		return 1
	}
	return compareInt64(int64(a.Step), int64(b.Step))
}

func compareBinaryTerm(a, b *BinaryTerm) int {
	if a.Op < b.Op {
		return -1
	} else if a.Op > b.Op {
		return 1
	}
	if cmp := CompareTerm(a.LHS, b.LHS); cmp != 0 {
		return cmp
	}
	return CompareTerm(a.RHS, b.RHS)
}

func compareInt64(a, b int64) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

func compareBool(a, b bool) int {
	if !a && b {
		return -1
	} else if a && !b {
		return 1
	}
	return 0
}

// termKind returns a numeric value for the type of term.
// Only used internally for equality checks and sorting.
func termKind(t Term) int {
	switch t.(type) {
	case *BoolTerm:
		return 1
	case *IntTerm:
		return 2
	case *VarTerm:
		return 3
	case *NotTerm:
		return 4
	case *BinaryTerm:
		return 5
	default:
		panic("unreachable")
	}
}

// TermVisitor represents a visitor that can be passed to WalkTerm().
type TermVisitor interface {
	// Executed for every visited node. Return nil to skip the node's children.
	Visit(t Term) TermVisitor
}

// WalkTerm traverses t in depth-first order. Terms are never modified.
func WalkTerm(v TermVisitor, t Term) {
	if v = v.Visit(t); v == nil {
		return
	}

	switch t := t.(type) {
	case *BinaryTerm:
		WalkTerm(v, t.LHS)
		WalkTerm(v, t.RHS)
	case *NotTerm:
		WalkTerm(v, t.Term)
	case *VarTerm, *IntTerm, *BoolTerm:
		// nop
	default:
		panic("unreachable")
	}
}

// TermVars returns all variable terms referenced by terms, sorted and deduplicated.
func TermVars(terms ...Term) []*VarTerm {
	v := newVarTermVisitor()
	for _, t := range terms {
		WalkTerm(v, t)
	}

	a := make([]*VarTerm, 0, len(v.m))
	for _, t := range v.m {
		a = append(a, t)
	}
	sort.Slice(a, func(i, j int) bool { return compareVarTerm(a[i], a[j]) == -1 })

	return a
}

type varTermVisitor struct {
	m map[string]*VarTerm
}

func newVarTermVisitor() *varTermVisitor {
	return &varTermVisitor{m: make(map[string]*VarTerm)}
}

func (v *varTermVisitor) Visit(t Term) TermVisitor {
	if t, ok := t.(*VarTerm); ok {
		if _, ok := v.m[t.Symbol()]; !ok {
			v.m[t.Symbol()] = t
		}
	}
	return v
}

// Model maps solver symbols (see VarTerm.Symbol) to integer values.
type Model map[string]int64

// TermEvaluator evaluates terms using known variable values.
type TermEvaluator struct {
	model Model
}

// NewTermEvaluator returns a new instance of TermEvaluator for the given model.
func NewTermEvaluator(model Model) *TermEvaluator {
	return &TermEvaluator{model: model}
}

// Evaluate evaluates t to an *IntTerm or *BoolTerm.
// Returns an error if a variable is missing from the model, a divisor is zero,
// operand sorts do not fit the operation, or a result does not fit in an int64.
func (te *TermEvaluator) Evaluate(t Term) (Term, error) {
	switch t := t.(type) {
	case *VarTerm:
		value, ok := te.model[t.Symbol()]
		if !ok {
			return nil, fmt.Errorf("variable not bound in model: %s", t.Symbol())
		}
		return NewIntTerm(value), nil
	case *IntTerm:
		return t, nil
	case *BoolTerm:
		return t, nil
	case *NotTerm:
		v, err := te.Evaluate(t.Term)
		if err != nil {
			return nil, err
		}
		x, ok := v.(*BoolTerm)
		if !ok {
			return nil, fmt.Errorf("%w: not %s", ErrSortMismatch, t.Term)
		}
		return NewBoolTerm(!x.Value), nil
	case *BinaryTerm:
		return te.evaluateBinaryTerm(t)
	default:
		return nil, fmt.Errorf("invalid term type: %T", t)
	}
}

func (te *TermEvaluator) evaluateBinaryTerm(t *BinaryTerm) (Term, error) {
	lhs, err := te.Evaluate(t.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := te.Evaluate(t.RHS)
	if err != nil {
		return nil, err
	}

	// Equality is defined over both sorts as long as they agree.
	if t.Op == EQUAL {
		if x, ok := lhs.(*BoolTerm); ok {
			y, ok := rhs.(*BoolTerm)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrSortMismatch, t)
			}
			return NewBoolTerm(x.Value == y.Value), nil
		}
	}

	if t.Op.IsLogical() {
		x, xok := lhs.(*BoolTerm)
		y, yok := rhs.(*BoolTerm)
		if !xok || !yok {
			return nil, fmt.Errorf("%w: %s", ErrSortMismatch, t)
		}
		if t.Op == AND {
			return NewBoolTerm(x.Value && y.Value), nil
		}
		return NewBoolTerm(x.Value || y.Value), nil
	}

	x, xok := lhs.(*IntTerm)
	y, yok := rhs.(*IntTerm)
	if !xok || !yok {
		return nil, fmt.Errorf("%w: %s", ErrSortMismatch, t)
	}

	switch t.Op {
	case EQUAL:
		return NewBoolTerm(x.Value == y.Value), nil
	case LESS:
		return NewBoolTerm(x.Value < y.Value), nil
	}

	// Arithmetic is computed without bounds and must fit back into an IntTerm.
	a, b := big.NewInt(x.Value), big.NewInt(y.Value)
	z := new(big.Int)
	switch t.Op {
	case PLUS:
		z.Add(a, b)
	case MINUS:
		z.Sub(a, b)
	case PRODUCT:
		z.Mul(a, b)
	case DIVISION:
		if b.Sign() == 0 {
			return nil, ErrDivisionByZero
		}
		z.Div(a, b) // Euclidean, as SMT-LIB "div"
	default:
		return nil, fmt.Errorf("unexpected term operation: %s", t.Op)
	}
	if !z.IsInt64() {
		return nil, fmt.Errorf("%w: %s = %s", ErrIntegerOverflow, t, z)
	}
	return NewIntTerm(z.Int64()), nil
}

// WriteSMTLIB writes an SMT-LIB2 script declaring every variable referenced
// by constraints and asserting each constraint in order.
func WriteSMTLIB(w io.Writer, constraints []Term) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "(set-logic QF_NIA)")
	for _, v := range TermVars(constraints...) {
		fmt.Fprintf(&buf, "(declare-const %s Int)\n", v)
	}
	for _, t := range constraints {
		assert(TermType(t) == BOOL, "non-boolean constraint: %s", t)
		fmt.Fprintf(&buf, "(assert %s)\n", t)
	}
	fmt.Fprintln(&buf, "(check-sat)")

	_, err := w.Write(buf.Bytes())
	return err
}
