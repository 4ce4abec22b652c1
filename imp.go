package imp

import (
	"errors"
	"fmt"
)

// Type represents the type tag attached to every expression.
type Type int

// Type tags.
const (
	BOOL = Type(iota)
	NAT
)

var types = [...]string{
	BOOL: "bool",
	NAT:  "nat",
}

// String returns the string representation of the type tag.
func (t Type) String() string {
	if t >= 0 && t < Type(len(types)) {
		return types[t]
	}
	return fmt.Sprintf("Type<%d>", t)
}

var (
	ErrEntryNotFound   = errors.New("entry line not found")
	ErrDivisionByZero  = errors.New("division by zero")
	ErrStateTerminated = errors.New("state terminated")
	ErrSortMismatch    = errors.New("sort mismatch")
	ErrIntegerOverflow = errors.New("integer overflow")
)

// UnboundVariableError is returned when a variable name has no entry in the store.
type UnboundVariableError struct {
	Name string
}

// Error returns the error as a string.
func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("unbound variable: %s", e.Name)
}

// StepIndexOutOfRangeError is returned when a step index is outside of the
// populated range of a variable's term sequence.
type StepIndexOutOfRangeError struct {
	Name  string
	Index int
	Len   int
}

// Error returns the error as a string.
func (e *StepIndexOutOfRangeError) Error() string {
	return fmt.Sprintf("step index out of range: %s[%d] (len=%d)", e.Name, e.Index, e.Len)
}

// TypeError is returned when an expression's type tag does not match the
// type required by the position it is used in.
type TypeError struct {
	Expr Expression
	Want Type
	Got  Type
}

// Error returns the error as a string.
func (e *TypeError) Error() string {
	return fmt.Sprintf("type mismatch: %s is %s, expected %s", e.Expr, e.Got, e.Want)
}

// DanglingJumpTargetError is returned when a goto refers to a missing line.
type DanglingJumpTargetError struct {
	Line   int
	Target int
}

// Error returns the error as a string.
func (e *DanglingJumpTargetError) Error() string {
	return fmt.Sprintf("dangling jump target: line %d jumps to missing line %d", e.Line, e.Target)
}

// InvalidNameError is returned when a variable name cannot be written as a
// solver symbol, even when quoted.
type InvalidNameError struct {
	Name string
}

// Error returns the error as a string.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid variable name: %q", e.Name)
}

// DuplicateLineError is returned when two commands share a line number.
type DuplicateLineError struct {
	Line int
}

// Error returns the error as a string.
func (e *DuplicateLineError) Error() string {
	return fmt.Sprintf("duplicate line: %d", e.Line)
}

// assert panics if condition is false.
func assert(condition bool, format string, args ...interface{}) {
	if !condition {
		panic(fmt.Sprintf("assert: "+format, args...))
	}
}
