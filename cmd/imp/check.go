package main

import (
	"errors"
	"fmt"

	"github.com/benbjohnson/imp/progfile"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	errorStyle = color.New(color.FgRed, color.Bold)
	fileStyle  = color.New(color.FgCyan, color.Bold)
	okStyle    = color.New(color.FgGreen, color.Bold)
)

// errInvalidProgram is returned once every violation has been printed.
var errInvalidProgram = errors.New("invalid program")

func newCheckCommand(opt *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Validate a program file and report every violation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			w := cmd.OutOrStdout()

			prog, err := progfile.Load(path)
			if err == nil {
				opt.logger.Debug("Program is valid", zap.String("path", path), zap.Int("commands", len(prog.Commands())))
				fmt.Fprintf(w, "%s: %s\n", fileStyle.Sprint(path), okStyle.Sprint("ok"))
				return nil
			}

			violations := flatten(err)
			opt.logger.Debug("Program is invalid", zap.String("path", path), zap.Int("violations", len(violations)))
			for _, v := range violations {
				fmt.Fprintf(w, "%s: %s %s\n", fileStyle.Sprint(path), errorStyle.Sprint("error:"), v)
			}
			cmd.SilenceErrors = true
			return errInvalidProgram
		},
	}
}

// flatten returns the leaves of any joined errors within err. Errors that
// were not joined are returned as-is.
func flatten(err error) []error {
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		return []error{err}
	}

	var a []error
	for _, e := range joined.Unwrap() {
		a = append(a, flatten(e)...)
	}
	return a
}
