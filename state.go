package imp

import (
	"bytes"
	"fmt"
)

// State represents a single path through a program at a given line and step.
type State struct {
	prog *Program

	// Path hierarchy.
	parent   *State
	children []*State

	line  int
	step  int
	store *Store

	// Shows whether the path is running, halted, or fell off the program.
	status Status

	// Constraints collected so far along the path.
	constraints []Term
}

// NewState returns the initial state of prog: the entry line at step 0 with
// a fresh variable term for every program variable.
func NewState(prog *Program) *State {
	return &State{
		prog:   prog,
		line:   prog.Entry(),
		store:  InitialStore(prog.Names()),
		status: StatusRunning,
	}
}

// Program returns the program the state belongs to.
func (s *State) Program() *Program { return s.prog }

// Parent returns the state this state was forked from.
func (s *State) Parent() *State { return s.parent }

// Children returns the successor states produced by Next.
func (s *State) Children() []*State { return s.children }

// Line returns the current line.
func (s *State) Line() int { return s.line }

// Step returns the current step index.
func (s *State) Step() int { return s.step }

// Store returns the store snapshot for the path.
func (s *State) Store() *Store { return s.store }

// Status returns the current status of the state.
func (s *State) Status() Status { return s.status }

// Terminated returns true if the path has no further steps.
func (s *State) Terminated() bool { return s.status != StatusRunning }

// Constraints returns the constraints collected along the path.
func (s *State) Constraints() []Term { return s.constraints }

// Command returns the command at the current line or nil if none exists.
func (s *State) Command() Command { return s.prog.Command(s.line) }

// Clone returns a copy of the state with its own constraint list.
// The store is shared since it is never modified in place.
func (s *State) Clone() *State {
	constraints := make([]Term, len(s.constraints))
	copy(constraints, s.constraints)

	return &State{
		prog:        s.prog,
		parent:      s.parent,
		line:        s.line,
		step:        s.step,
		store:       s.store,
		status:      s.status,
		constraints: constraints,
	}
}

// Fork returns a child copy of the state moved to line with the additional
// constraint. A child on a line without a command is marked finished.
func (s *State) Fork(line, step int, store *Store, constraint Term) *State {
	child := s.Clone()
	child.parent = s
	child.line, child.step, child.store = line, step, store
	if constraint != nil {
		child.AddConstraint(constraint)
	}
	if s.prog.Command(line) == nil {
		child.status = StatusFinished
	}
	s.children = append(s.children, child)
	return child
}

// AddConstraint adds a boolean term to the state. Top-level conjunctions are
// split into separate constraints.
func (s *State) AddConstraint(t Term) {
	assert(TermType(t) == BOOL, "non-boolean constraint: %s", t)
	s.constraints = AddConstraint(s.constraints, t)
}

// AddConstraint adds t to constraints and returns the new constraint list.
// If t is a conjunction then its LHS & RHS are added independently.
func AddConstraint(a []Term, t Term) []Term {
	if t, ok := t.(*BinaryTerm); ok && t.Op == AND {
		a = AddConstraint(a, t.LHS)
		a = AddConstraint(a, t.RHS)
		return a
	}
	return append(a, t)
}

// Next interprets the command at the current line and returns the successor
// states. An assignment yields one successor, a goto yields two, and a stop
// halts the state and yields none.
func (s *State) Next() ([]*State, error) {
	if s.Terminated() {
		return nil, ErrStateTerminated
	}

	switch c := s.Command().(type) {
	case *Assign:
		return s.nextAssign(c)
	case *GoTo:
		return s.nextGoTo(c)
	case *Stop:
		s.status = StatusHalted
		return nil, nil
	default:
		return nil, fmt.Errorf("no command at line %d", s.line)
	}
}

func (s *State) nextAssign(c *Assign) ([]*State, error) {
	// Build the next step: a fresh term for the target, every other
	// variable carries its current term forward.
	store := s.store
	for _, name := range s.store.Names() {
		if name == c.Var.Name {
			continue
		}
		t, err := s.store.Lookup(name, s.step)
		if err != nil {
			return nil, err
		}
		store = store.Append(name, t)
	}
	if !store.Has(c.Var.Name) {
		return nil, &UnboundVariableError{Name: c.Var.Name}
	}
	store = store.Append(c.Var.Name, NewVarTerm(c.Var.Name, s.step+1))

	constraint, err := c.Constraint(store, s.step)
	if err != nil {
		return nil, err
	}
	return []*State{s.Fork(c.Line+1, s.step+1, store, constraint)}, nil
}

func (s *State) nextGoTo(c *GoTo) ([]*State, error) {
	taken, fallthru, err := c.Branches(s.store, s.step)
	if err != nil {
		return nil, err
	}
	return []*State{
		s.Fork(taken.Line, s.step, s.store, taken.Cond),
		s.Fork(fallthru.Line, s.step, s.store, fallthru.Cond),
	}, nil
}

// Dump returns the contents of the state as a string.
func (s *State) Dump() string {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "STATE")
	fmt.Fprintln(&buf, "=====")
	fmt.Fprintf(&buf, "status=%s\n", s.status)
	fmt.Fprintf(&buf, "line=%d\n", s.line)
	fmt.Fprintf(&buf, "step=%d\n", s.step)
	if c := s.Command(); c != nil {
		fmt.Fprintf(&buf, "command=%s\n", c)
	}
	fmt.Fprintln(&buf, "")

	fmt.Fprintln(&buf, "== STORE")
	fmt.Fprint(&buf, s.store.String())
	fmt.Fprintln(&buf, "")

	fmt.Fprintln(&buf, "== CONSTRAINTS")
	for i, t := range s.constraints {
		fmt.Fprintf(&buf, "%d. %s\n", i, t.String())
	}
	return buf.String()
}

// Status represents the current status of a state.
type Status string

const (
	StatusRunning  = Status("running")  // has future steps
	StatusHalted   = Status("halted")   // reached a stop command
	StatusFinished = Status("finished") // moved past the last command
)
