package main

import (
	"context"
	"fmt"
	"io"

	"github.com/benbjohnson/imp"
	"github.com/benbjohnson/imp/progfile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// StepCommand represents a command for applying the transition relation to
// the states of a program.
type StepCommand struct {
	Line  int
	Depth int
	SMT   bool

	logger *zap.Logger
}

func newStepCommand(opt *options) *cobra.Command {
	c := &StepCommand{}
	cmd := &cobra.Command{
		Use:   "step FILE",
		Short: "Apply transitions from the entry state and print the resulting states",
		Long: `Builds the initial state of the program and applies one transition to
every running state, --depth times. Each resulting state is printed along
with its constraints.
Example) imp step --depth 3 --smt countdown.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := progfile.Load(args[0])
			if err != nil {
				return err
			}
			c.logger = opt.logger
			return c.Run(cmd.Context(), cmd.OutOrStdout(), prog)
		},
	}
	cmd.Flags().IntVar(&c.Line, "line", 0, "Start at this line instead of the entry line")
	cmd.Flags().IntVar(&c.Depth, "depth", 1, "Number of transitions to apply")
	cmd.Flags().BoolVar(&c.SMT, "smt", false, "Print constraints as an SMT-LIB2 script")
	return cmd
}

// Run expands the frontier of prog and writes every resulting state to w.
func (c *StepCommand) Run(ctx context.Context, w io.Writer, prog *imp.Program) error {
	if c.Depth < 1 {
		return fmt.Errorf("invalid depth: %d", c.Depth)
	}

	state := imp.NewState(prog)
	if c.Line != 0 && c.Line != prog.Entry() {
		state = state.Fork(c.Line, 0, state.Store(), nil)
	}

	frontier := []*imp.State{state}
	for depth := 0; depth < c.Depth; depth++ {
		next, err := c.expand(ctx, frontier)
		if err != nil {
			return err
		}
		c.logger.Debug("Expanded frontier",
			zap.Int("depth", depth+1),
			zap.Int("states", len(frontier)),
			zap.Int("successors", len(next)),
		)

		// Halted and finished states have no successors but are still
		// part of the result.
		var done []*imp.State
		for _, s := range frontier {
			if s.Terminated() {
				done = append(done, s)
			}
		}
		frontier = append(done, next...)

		if len(next) == 0 {
			break
		}
	}

	for i, s := range frontier {
		if i > 0 {
			fmt.Fprintln(w, "")
		}
		if err := c.print(w, s); err != nil {
			return err
		}
	}
	return nil
}

// expand applies Next to every running state concurrently and returns the
// successors in frontier order.
func (c *StepCommand) expand(ctx context.Context, frontier []*imp.State) ([]*imp.State, error) {
	children := make([][]*imp.State, len(frontier))

	g, ctx := errgroup.WithContext(ctx)
	for i, s := range frontier {
		if s.Terminated() {
			continue
		}
		i, s := i, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a, err := s.Next()
			if err != nil {
				return fmt.Errorf("line %d: %w", s.Line(), err)
			}
			children[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var a []*imp.State
	for _, ch := range children {
		a = append(a, ch...)
	}
	return a, nil
}

func (c *StepCommand) print(w io.Writer, s *imp.State) error {
	if !c.SMT {
		_, err := fmt.Fprint(w, s.Dump())
		return err
	}
	fmt.Fprintf(w, "; line=%d step=%d status=%s\n", s.Line(), s.Step(), s.Status())
	return imp.WriteSMTLIB(w, s.Constraints())
}
