package imp

import (
	"fmt"
)

// Command represents a single line-numbered program command.
// Commands do not execute; they expose their fields to the caller.
type Command interface {
	String() string
	command()
}

func (*Assign) command() {}
func (*GoTo) command()   {}
func (*Stop) command()   {}

// CommandLine returns the source line number of the command.
func CommandLine(c Command) int {
	switch c := c.(type) {
	case *Assign:
		return c.Line
	case *GoTo:
		return c.Line
	case *Stop:
		return c.Line
	default:
		panic("unreachable")
	}
}

// Successors returns the lines control may move to after c.
// A goto always offers both its fall-through line and its target.
func Successors(c Command) []int {
	switch c := c.(type) {
	case *Assign:
		return []int{c.Line + 1}
	case *GoTo:
		return []int{c.Line + 1, c.Target}
	case *Stop:
		return nil
	default:
		panic("unreachable")
	}
}

// Assign binds a variable to the value of an expression.
type Assign struct {
	Line int
	Var  *Variable
	Expr Expression
}

// NewAssign returns a new instance of Assign.
func NewAssign(line int, v *Variable, expr Expression) *Assign {
	return &Assign{Line: line, Var: v, Expr: expr}
}

// String returns the string representation of the command.
func (c *Assign) String() string {
	return fmt.Sprintf("%d: %s = %s", c.Line, c.Var.Name, c.Expr)
}

// Constraint returns the term equating the variable's value at step i+1
// with the expression evaluated at step i. The store must already hold
// the step i+1 term for the target variable.
func (c *Assign) Constraint(s *Store, i int) (Term, error) {
	next, err := s.Lookup(c.Var.Name, i+1)
	if err != nil {
		return nil, err
	}
	value, err := Evaluate(c.Expr, s, i)
	if err != nil {
		return nil, err
	}
	return NewEq(next, value), nil
}

// GoTo moves control to Target when Cond holds and falls through otherwise.
type GoTo struct {
	Line   int
	Cond   Expression
	Target int
}

// NewGoTo returns a new instance of GoTo.
func NewGoTo(line int, cond Expression, target int) *GoTo {
	return &GoTo{Line: line, Cond: cond, Target: target}
}

// String returns the string representation of the command.
func (c *GoTo) String() string {
	return fmt.Sprintf("%d: %s => goto %d", c.Line, c.Cond, c.Target)
}

// Branch represents one outgoing edge of a command along with the
// constraint that must hold for control to take it.
type Branch struct {
	Line int
	Cond Term
}

// Branches returns the taken and fall-through branches of the goto at step i.
func (c *GoTo) Branches(s *Store, i int) (taken, fallthru Branch, err error) {
	cond, err := Evaluate(c.Cond, s, i)
	if err != nil {
		return Branch{}, Branch{}, err
	}
	taken = Branch{Line: c.Target, Cond: cond}
	fallthru = Branch{Line: c.Line + 1, Cond: NewNotTerm(cond)}
	return taken, fallthru, nil
}

// Stop terminates the path.
type Stop struct {
	Line int
}

// NewStop returns a new instance of Stop.
func NewStop(line int) *Stop {
	return &Stop{Line: line}
}

// String returns the string representation of the command.
func (c *Stop) String() string {
	return fmt.Sprintf("%d: stop", c.Line)
}
