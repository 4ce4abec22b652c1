package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// options holds the state shared by every subcommand.
type options struct {
	verbose bool
	logger  *zap.Logger
}

// NewRootCommand returns the "imp" command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	opt := &options{logger: zap.NewNop()}

	cmd := &cobra.Command{
		Use:          "imp",
		Short:        "imp - symbolic step semantics for line-numbered programs",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !opt.verbose {
				return nil
			}
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			opt.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opt.logger.Sync()
		},
	}
	cmd.PersistentFlags().BoolVarP(&opt.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newPrintCommand(opt))
	cmd.AddCommand(newCheckCommand(opt))
	cmd.AddCommand(newStepCommand(opt))
	return cmd
}
