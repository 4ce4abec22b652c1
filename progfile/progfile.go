// Package progfile decodes programs stored as YAML documents.
//
// A program file lists an entry line and the line-numbered commands:
//
//	entry: 1
//	commands:
//	  - line: 1
//	    assign: {var: x, expr: {plus: [{var: x}, {nat: 1}]}}
//	  - line: 2
//	    goto: {cond: {less: [{var: x}, {nat: 10}]}, target: 1}
//	  - line: 3
//	    stop: true
//
// Expressions are single-key mappings. Leaves are "var", "nat" and "bool";
// "plus", "minus", "product", "division", "equal", "less", "and" and "or"
// take a two element sequence; "not" takes a single expression.
package progfile

import (
	"fmt"
	"io"
	"os"

	"github.com/benbjohnson/imp"
	"gopkg.in/yaml.v3"
)

// File represents the decoded contents of a program file.
type File struct {
	Entry    int       `yaml:"entry"`
	Commands []Command `yaml:"commands"`
}

// Command represents a single command entry. Exactly one of Assign, GoTo
// and Stop must be set.
type Command struct {
	Line   int     `yaml:"line"`
	Assign *Assign `yaml:"assign"`
	GoTo   *GoTo   `yaml:"goto"`
	Stop   bool    `yaml:"stop"`
}

// Assign represents an assignment entry.
type Assign struct {
	Var  string `yaml:"var"`
	Expr Expr   `yaml:"expr"`
}

// GoTo represents a conditional jump entry.
type GoTo struct {
	Cond   Expr `yaml:"cond"`
	Target int  `yaml:"target"`
}

// Load reads and decodes the program file at path.
func Load(path string) (*imp.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	prog, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}

// Decode decodes a program file from r and returns the validated program.
func Decode(r io.Reader) (*imp.Program, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, err
	}
	return f.Program()
}

// Program converts the file into a validated program.
func (f *File) Program() (*imp.Program, error) {
	cmds := make([]imp.Command, 0, len(f.Commands))
	for i := range f.Commands {
		c, err := f.Commands[i].command()
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, c)
	}
	return imp.NewProgram(f.Entry, cmds)
}

func (c *Command) command() (imp.Command, error) {
	n := 0
	if c.Assign != nil {
		n++
	}
	if c.GoTo != nil {
		n++
	}
	if c.Stop {
		n++
	}
	if n != 1 {
		return nil, fmt.Errorf("line %d: command must set exactly one of assign, goto or stop", c.Line)
	}

	switch {
	case c.Assign != nil:
		if c.Assign.Var == "" {
			return nil, fmt.Errorf("line %d: assign: missing var", c.Line)
		} else if c.Assign.Expr.Expression == nil {
			return nil, fmt.Errorf("line %d: assign: missing expr", c.Line)
		}
		return imp.NewAssign(c.Line, imp.NewVariable(c.Assign.Var), c.Assign.Expr.Expression), nil
	case c.GoTo != nil:
		if c.GoTo.Cond.Expression == nil {
			return nil, fmt.Errorf("line %d: goto: missing cond", c.Line)
		}
		return imp.NewGoTo(c.Line, c.GoTo.Cond.Expression, c.GoTo.Target), nil
	default:
		return imp.NewStop(c.Line), nil
	}
}

// Expr wraps an expression decoded from a single-key YAML mapping.
type Expr struct {
	imp.Expression
}

var binaryOps = map[string]imp.BinaryOp{
	"plus":     imp.PLUS,
	"minus":    imp.MINUS,
	"product":  imp.PRODUCT,
	"division": imp.DIVISION,
	"equal":    imp.EQUAL,
	"less":     imp.LESS,
	"and":      imp.AND,
	"or":       imp.OR,
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *Expr) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return fmt.Errorf("yaml: line %d: expression must be a mapping with a single key", value.Line)
	}
	key, node := value.Content[0].Value, value.Content[1]

	switch key {
	case "var":
		var name string
		if err := node.Decode(&name); err != nil {
			return err
		} else if name == "" {
			return fmt.Errorf("yaml: line %d: empty variable name", node.Line)
		}
		e.Expression = imp.NewVariableValue(name)
		return nil

	case "nat":
		var v int64
		if err := node.Decode(&v); err != nil {
			return err
		}
		e.Expression = imp.NewNatConstant(v)
		return nil

	case "bool":
		var v bool
		if err := node.Decode(&v); err != nil {
			return err
		}
		e.Expression = imp.NewBoolConstant(v)
		return nil

	case "not":
		var operand Expr
		if err := node.Decode(&operand); err != nil {
			return err
		}
		e.Expression = imp.NewNot(operand.Expression)
		return nil
	}

	op, ok := binaryOps[key]
	if !ok {
		return fmt.Errorf("yaml: line %d: unknown expression %q", value.Line, key)
	}

	var operands []Expr
	if err := node.Decode(&operands); err != nil {
		return err
	} else if len(operands) != 2 {
		return fmt.Errorf("yaml: line %d: %s requires 2 operands, got %d", node.Line, key, len(operands))
	}
	e.Expression = imp.NewBinaryExpr(op, operands[0].Expression, operands[1].Expression)
	return nil
}
