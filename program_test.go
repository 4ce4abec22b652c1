package imp_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/benbjohnson/imp"
	"github.com/google/go-cmp/cmp"
)

// NewCountdownProgram returns a program that decrements x until it is zero.
//
//	1: x = 10
//	2: (x == 0) => goto 5
//	3: x = (x - 1)
//	4: True => goto 2
//	5: stop
func NewCountdownProgram(tb testing.TB) *imp.Program {
	tb.Helper()
	x := imp.NewVariableValue("x")
	prog, err := imp.NewProgram(1, []imp.Command{
		imp.NewAssign(1, imp.NewVariable("x"), imp.NewNatConstant(10)),
		imp.NewGoTo(2, imp.NewEqual(x, imp.NewNatConstant(0)), 5),
		imp.NewAssign(3, imp.NewVariable("x"), imp.NewMinus(x, imp.NewNatConstant(1))),
		imp.NewGoTo(4, imp.NewBoolConstant(true), 2),
		imp.NewStop(5),
	})
	if err != nil {
		tb.Fatal(err)
	}
	return prog
}

func TestNewProgram(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		prog := NewCountdownProgram(t)
		if prog.Entry() != 1 {
			t.Fatalf("unexpected entry: %d", prog.Entry())
		} else if c := prog.Command(3); c == nil || c.String() != "3: x = (x - 1)" {
			t.Fatalf("unexpected command: %v", c)
		} else if c := prog.Command(6); c != nil {
			t.Fatalf("unexpected command: %v", c)
		} else if diff := cmp.Diff([]string{"x"}, prog.Names()); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("Ordered", func(t *testing.T) {
		prog, err := imp.NewProgram(2, []imp.Command{
			imp.NewStop(3),
			imp.NewAssign(2, imp.NewVariable("b"), imp.NewVariableValue("a")),
		})
		if err != nil {
			t.Fatal(err)
		} else if diff := cmp.Diff("2: b = a\n3: stop\n", prog.String()); diff != "" {
			t.Fatal(diff)
		} else if diff := cmp.Diff([]string{"a", "b"}, prog.Names()); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("ErrDanglingJumpTarget", func(t *testing.T) {
		_, err := imp.NewProgram(1, []imp.Command{
			imp.NewGoTo(1, imp.NewBoolConstant(true), 9),
			imp.NewStop(2),
		})
		var e *imp.DanglingJumpTargetError
		if !errors.As(err, &e) {
			t.Fatalf("unexpected error: %#v", err)
		} else if e.Line != 1 || e.Target != 9 {
			t.Fatalf("unexpected error fields: %+v", e)
		}
	})

	t.Run("ErrEntryNotFound", func(t *testing.T) {
		if _, err := imp.NewProgram(4, []imp.Command{imp.NewStop(1)}); !errors.Is(err, imp.ErrEntryNotFound) {
			t.Fatalf("unexpected error: %#v", err)
		}
	})

	t.Run("ErrDuplicateLine", func(t *testing.T) {
		_, err := imp.NewProgram(1, []imp.Command{imp.NewStop(1), imp.NewStop(1)})
		var e *imp.DuplicateLineError
		if !errors.As(err, &e) || e.Line != 1 {
			t.Fatalf("unexpected error: %#v", err)
		}
	})

	t.Run("ErrTypeContractViolation", func(t *testing.T) {
		t.Run("GoToCondition", func(t *testing.T) {
			_, err := imp.NewProgram(1, []imp.Command{
				imp.NewGoTo(1, imp.NewVariableValue("x"), 2),
				imp.NewStop(2),
			})
			var e *imp.TypeError
			if !errors.As(err, &e) {
				t.Fatalf("unexpected error: %#v", err)
			} else if e.Want != imp.BOOL || e.Got != imp.NAT {
				t.Fatalf("unexpected error fields: %s", e)
			}
		})
		t.Run("AssignValue", func(t *testing.T) {
			_, err := imp.NewProgram(1, []imp.Command{
				imp.NewAssign(1, imp.NewVariable("x"), imp.NewBoolConstant(true)),
			})
			var e *imp.TypeError
			if !errors.As(err, &e) {
				t.Fatalf("unexpected error: %#v", err)
			} else if e.Want != imp.NAT || e.Got != imp.BOOL {
				t.Fatalf("unexpected error fields: %s", e)
			}
		})
	})

	t.Run("ErrInvalidName", func(t *testing.T) {
		_, err := imp.NewProgram(1, []imp.Command{
			imp.NewAssign(1, imp.NewVariable("a|b"), imp.NewVariableValue(`c\d`)),
		})
		var e *imp.InvalidNameError
		if !errors.As(err, &e) {
			t.Fatalf("unexpected error: %#v", err)
		} else if !strings.Contains(err.Error(), `"a|b"`) || !strings.Contains(err.Error(), `"c\\d"`) {
			t.Fatalf("unexpected error: %s", err)
		}
	})

	// Names that need quoting are still valid.
	t.Run("QuotedName", func(t *testing.T) {
		if _, err := imp.NewProgram(1, []imp.Command{
			imp.NewAssign(1, imp.NewVariable("my var"), imp.NewVariableValue("9x")),
		}); err != nil {
			t.Fatal(err)
		}
	})

	// Every violation is reported, not only the first.
	t.Run("MultipleErrors", func(t *testing.T) {
		_, err := imp.NewProgram(8, []imp.Command{
			imp.NewGoTo(1, imp.NewNatConstant(1), 9),
			imp.NewStop(2),
			imp.NewStop(2),
		})
		var (
			dangling  *imp.DanglingJumpTargetError
			typeErr   *imp.TypeError
			duplicate *imp.DuplicateLineError
		)
		if !errors.As(err, &dangling) {
			t.Fatal("expected dangling jump target")
		} else if !errors.As(err, &typeErr) {
			t.Fatal("expected type error")
		} else if !errors.As(err, &duplicate) {
			t.Fatal("expected duplicate line")
		} else if !errors.Is(err, imp.ErrEntryNotFound) {
			t.Fatal("expected missing entry")
		}
	})
}
