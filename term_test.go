package imp_test

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/benbjohnson/imp"
	"github.com/google/go-cmp/cmp"
)

func TestTermType(t *testing.T) {
	x := imp.NewVarTerm("x", 0)
	for _, tt := range []struct {
		term imp.Term
		typ  imp.Type
	}{
		{x, imp.NAT},
		{imp.NewIntTerm(1), imp.NAT},
		{imp.NewBoolTerm(true), imp.BOOL},
		{imp.NewBinaryTerm(imp.DIVISION, x, x), imp.NAT},
		{imp.NewEq(x, x), imp.BOOL},
		{imp.NewAndTerm(imp.NewBoolTerm(true), imp.NewBoolTerm(false)), imp.BOOL},
		{imp.NewNotTerm(imp.NewBoolTerm(true)), imp.BOOL},
	} {
		if typ := imp.TermType(tt.term); typ != tt.typ {
			t.Fatalf("TermType(%s)=%s, expected %s", tt.term, typ, tt.typ)
		}
	}
}

func TestTerm_String(t *testing.T) {
	x := imp.NewVarTerm("x", 2)
	for _, tt := range []struct {
		term imp.Term
		s    string
	}{
		{x, "x@2"},
		{imp.NewIntTerm(42), "42"},
		{imp.NewIntTerm(-5), "(- 5)"},
		{imp.NewIntTerm(-9223372036854775808), "(- 9223372036854775808)"},
		{imp.NewBoolTerm(false), "false"},
		{imp.NewVarTerm("my var", 1), "|my var@1|"},
		{imp.NewVarTerm("9x", 2), "|9x@2|"},
		{imp.NewVarTerm("@x", 0), "|@x@0|"},
		{imp.NewVarTerm("x_1.a", 0), "x_1.a@0"},
		{imp.NewBinaryTerm(imp.PLUS, x, imp.NewIntTerm(1)), "(+ x@2 1)"},
		{imp.NewBinaryTerm(imp.OR, imp.NewBoolTerm(true), imp.NewNotTerm(imp.NewEq(x, x))), "(or true (not (= x@2 x@2)))"},
	} {
		if s := tt.term.String(); s != tt.s {
			t.Fatalf("unexpected string: %s, expected %s", s, tt.s)
		}
	}
}

func TestCompareTerm(t *testing.T) {
	a := imp.NewEq(imp.NewVarTerm("x", 1), imp.NewIntTerm(1))
	b := imp.NewEq(imp.NewVarTerm("x", 1), imp.NewIntTerm(1))
	c := imp.NewEq(imp.NewVarTerm("x", 2), imp.NewIntTerm(1))

	if cmp := imp.CompareTerm(a, b); cmp != 0 {
		t.Fatalf("unexpected comparison: %d", cmp)
	} else if cmp := imp.CompareTerm(a, c); cmp != -1 {
		t.Fatalf("unexpected comparison: %d", cmp)
	} else if cmp := imp.CompareTerm(c, a); cmp != 1 {
		t.Fatalf("unexpected comparison: %d", cmp)
	} else if cmp := imp.CompareTerm(imp.NewBoolTerm(true), imp.NewIntTerm(0)); cmp != -1 {
		t.Fatalf("unexpected comparison: %d", cmp)
	}
}

func TestTermVars(t *testing.T) {
	terms := []imp.Term{
		imp.NewEq(imp.NewVarTerm("y", 0), imp.NewVarTerm("x", 1)),
		imp.NewBinaryTerm(imp.LESS, imp.NewVarTerm("x", 0), imp.NewVarTerm("x", 1)),
	}
	if diff := cmp.Diff(
		[]*imp.VarTerm{{Name: "x", Step: 0}, {Name: "x", Step: 1}, {Name: "y", Step: 0}},
		imp.TermVars(terms...),
	); diff != "" {
		t.Fatal(diff)
	}
}

func TestTermEvaluator_Evaluate(t *testing.T) {
	x := imp.NewVarTerm("x", 0)

	t.Run("Division", func(t *testing.T) {
		for _, tt := range []struct {
			x, y, q int64
		}{
			{7, 2, 3},
			{-7, 2, -4},
			{7, -2, -3},
			{-7, -2, 4},
			{6, 3, 2},
		} {
			v, err := imp.NewTermEvaluator(imp.Model{"x@0": tt.x}).Evaluate(imp.NewBinaryTerm(imp.DIVISION, x, imp.NewIntTerm(tt.y)))
			if err != nil {
				t.Fatal(err)
			} else if diff := cmp.Diff(imp.Term(imp.NewIntTerm(tt.q)), v); diff != "" {
				t.Fatalf("%d div %d: %s", tt.x, tt.y, diff)
			}
		}
	})

	t.Run("ErrDivisionByZero", func(t *testing.T) {
		_, err := imp.NewTermEvaluator(imp.Model{"x@0": 1}).Evaluate(imp.NewBinaryTerm(imp.DIVISION, x, imp.NewIntTerm(0)))
		if !errors.Is(err, imp.ErrDivisionByZero) {
			t.Fatalf("unexpected error: %#v", err)
		}
	})

	t.Run("Logical", func(t *testing.T) {
		term := imp.NewBinaryTerm(imp.OR,
			imp.NewNotTerm(imp.NewBinaryTerm(imp.LESS, x, imp.NewIntTerm(0))),
			imp.NewEq(imp.NewBoolTerm(false), imp.NewBoolTerm(true)),
		)
		for _, tt := range []struct {
			x   int64
			exp bool
		}{{-1, false}, {0, true}, {5, true}} {
			v, err := imp.NewTermEvaluator(imp.Model{"x@0": tt.x}).Evaluate(term)
			if err != nil {
				t.Fatal(err)
			} else if diff := cmp.Diff(imp.Term(imp.NewBoolTerm(tt.exp)), v); diff != "" {
				t.Fatalf("x=%d: %s", tt.x, diff)
			}
		}
	})

	// Ill-sorted terms are reported, not evaluated.
	t.Run("ErrSortMismatch", func(t *testing.T) {
		store := imp.InitialStore([]string{"x"})
		notNat, err := imp.Evaluate(imp.NewNot(imp.NewNatConstant(1)), store, 0)
		if err != nil {
			t.Fatal(err)
		}

		for _, term := range []imp.Term{
			notNat,
			imp.NewAndTerm(imp.NewBoolTerm(true), x),
			imp.NewBinaryTerm(imp.OR, x, imp.NewBoolTerm(false)),
			imp.NewBinaryTerm(imp.PLUS, x, imp.NewBoolTerm(true)),
			imp.NewBinaryTerm(imp.LESS, imp.NewBoolTerm(true), x),
			imp.NewEq(imp.NewBoolTerm(true), x),
			imp.NewEq(x, imp.NewBoolTerm(true)),
		} {
			if _, err := imp.NewTermEvaluator(imp.Model{"x@0": 1}).Evaluate(term); !errors.Is(err, imp.ErrSortMismatch) {
				t.Fatalf("%s: unexpected error: %#v", term, err)
			}
		}
	})

	t.Run("ErrIntegerOverflow", func(t *testing.T) {
		m := imp.Model{"x@0": math.MaxInt64, "y@0": math.MinInt64}
		y := imp.NewVarTerm("y", 0)
		for _, term := range []imp.Term{
			imp.NewBinaryTerm(imp.LESS, x, imp.NewBinaryTerm(imp.PLUS, x, imp.NewIntTerm(1))),
			imp.NewBinaryTerm(imp.MINUS, y, imp.NewIntTerm(1)),
			imp.NewBinaryTerm(imp.PRODUCT, x, imp.NewIntTerm(2)),
			imp.NewBinaryTerm(imp.DIVISION, y, imp.NewIntTerm(-1)),
		} {
			if _, err := imp.NewTermEvaluator(m).Evaluate(term); !errors.Is(err, imp.ErrIntegerOverflow) {
				t.Fatalf("%s: unexpected error: %#v", term, err)
			}
		}

		// Results that fit are computed exactly at the edges.
		v, err := imp.NewTermEvaluator(m).Evaluate(imp.NewBinaryTerm(imp.PLUS, x, y))
		if err != nil {
			t.Fatal(err)
		} else if diff := cmp.Diff(imp.Term(imp.NewIntTerm(-1)), v); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("ErrUnboundModel", func(t *testing.T) {
		if _, err := imp.NewTermEvaluator(imp.Model{}).Evaluate(x); err == nil || err.Error() != "variable not bound in model: x@0" {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestWriteSMTLIB(t *testing.T) {
	constraints := []imp.Term{
		imp.NewEq(imp.NewVarTerm("x", 1), imp.NewBinaryTerm(imp.PLUS, imp.NewVarTerm("x", 0), imp.NewIntTerm(1))),
		imp.NewNotTerm(imp.NewBinaryTerm(imp.LESS, imp.NewVarTerm("y", 0), imp.NewIntTerm(0))),
	}

	var buf bytes.Buffer
	if err := imp.WriteSMTLIB(&buf, constraints); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(`(set-logic QF_NIA)
(declare-const x@0 Int)
(declare-const x@1 Int)
(declare-const y@0 Int)
(assert (= x@1 (+ x@0 1)))
(assert (not (< y@0 0)))
(check-sat)
`, buf.String()); diff != "" {
		t.Fatal(diff)
	}
}

// Variable names that are not simple symbols are declared and used quoted.
func TestWriteSMTLIB_QuotedSymbols(t *testing.T) {
	constraints := []imp.Term{
		imp.NewEq(imp.NewVarTerm("my var", 1), imp.NewVarTerm("9x", 2)),
	}

	var buf bytes.Buffer
	if err := imp.WriteSMTLIB(&buf, constraints); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(`(set-logic QF_NIA)
(declare-const |9x@2| Int)
(declare-const |my var@1| Int)
(assert (= |my var@1| |9x@2|))
(check-sat)
`, buf.String()); diff != "" {
		t.Fatal(diff)
	}

	// The model is keyed by the unquoted symbol.
	v, err := imp.NewTermEvaluator(imp.Model{"my var@1": 3, "9x@2": 3}).Evaluate(constraints[0])
	if err != nil {
		t.Fatal(err)
	} else if !v.(*imp.BoolTerm).Value {
		t.Fatal("expected constraint to hold")
	}
}
