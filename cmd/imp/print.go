package main

import (
	"fmt"

	"github.com/benbjohnson/imp/progfile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newPrintCommand(opt *options) *cobra.Command {
	return &cobra.Command{
		Use:   "print FILE",
		Short: "Print the commands of a program file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := progfile.Load(args[0])
			if err != nil {
				return err
			}
			opt.logger.Debug("Loaded program",
				zap.String("path", args[0]),
				zap.Int("entry", prog.Entry()),
				zap.Int("commands", len(prog.Commands())),
			)

			_, err = fmt.Fprint(cmd.OutOrStdout(), prog.String())
			return err
		},
	}
}
