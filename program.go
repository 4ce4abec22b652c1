package imp

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Program represents a line-indexed command table with an entry line.
type Program struct {
	entry int
	cmds  map[int]Command
	lines []int // sorted
}

// NewProgram returns a new program and validates it. All violations are
// returned joined together; see Validate.
func NewProgram(entry int, cmds []Command) (*Program, error) {
	p := &Program{
		entry: entry,
		cmds:  make(map[int]Command, len(cmds)),
	}

	var errs []error
	for _, c := range cmds {
		line := CommandLine(c)
		if _, ok := p.cmds[line]; ok {
			errs = append(errs, &DuplicateLineError{Line: line})
			continue
		}
		p.cmds[line] = c
		p.lines = append(p.lines, line)
	}
	sort.Ints(p.lines)

	if err := p.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the program before any unrolling begins. It reports a
// missing entry line, variable names that cannot be used as solver symbols,
// goto targets without a command, and expressions whose type tag does not
// fit their slot.
func (p *Program) Validate() error {
	var errs []error
	if _, ok := p.cmds[p.entry]; !ok {
		errs = append(errs, fmt.Errorf("%w: %d", ErrEntryNotFound, p.entry))
	}

	for _, name := range p.Names() {
		if name == "" || strings.ContainsAny(name, "|\\") {
			errs = append(errs, &InvalidNameError{Name: name})
		}
	}

	for _, line := range p.lines {
		switch c := p.cmds[line].(type) {
		case *Assign:
			// Variable reads are always NAT so only NAT values may be stored.
			if err := CheckExpr(c.Expr, NAT); err != nil {
				errs = append(errs, fmt.Errorf("line %d: %w", line, err))
			}
		case *GoTo:
			if err := CheckExpr(c.Cond, BOOL); err != nil {
				errs = append(errs, fmt.Errorf("line %d: %w", line, err))
			}
			if _, ok := p.cmds[c.Target]; !ok {
				errs = append(errs, &DanglingJumpTargetError{Line: line, Target: c.Target})
			}
		case *Stop:
			// nop
		}
	}
	return errors.Join(errs...)
}

// Entry returns the designated entry line.
func (p *Program) Entry() int { return p.entry }

// Command returns the command at line. Returns nil if no command exists.
func (p *Program) Command(line int) Command {
	return p.cmds[line]
}

// Commands returns all commands ordered by line.
func (p *Program) Commands() []Command {
	a := make([]Command, 0, len(p.lines))
	for _, line := range p.lines {
		a = append(a, p.cmds[line])
	}
	return a
}

// Names returns every variable name assigned or read by the program, sorted.
func (p *Program) Names() []string {
	v := make(nameVisitor)
	for _, line := range p.lines {
		switch c := p.cmds[line].(type) {
		case *Assign:
			v[c.Var.Name] = struct{}{}
			WalkExpr(v, c.Expr)
		case *GoTo:
			WalkExpr(v, c.Cond)
		}
	}
	return v.names()
}

// String returns the rendering of every command, one per line.
func (p *Program) String() string {
	var buf bytes.Buffer
	for _, c := range p.Commands() {
		fmt.Fprintln(&buf, c.String())
	}
	return buf.String()
}
