// Package cli implements the pandahandler command line tool.
package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Version is filled when building with -ldflags, but not when installing via "go install".
var Version string

// NewRootCmd returns the pandahandler command with all of its subcommands attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pandahandler",
		Short:         "Tools for keeping data frames in shape.",
		Long:          "Validate indexes, coerce schemas, tabulate columns and log row count changes of tabular data.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(cmd.ErrOrStderr(), getFlag(cmd, "verbose"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if getFlag(cmd, "version") {
				fmt.Fprintln(cmd.OutOrStdout(), "pandahandler", version())
				return nil
			}
			return cmd.Help()
		},
	}
	rootCmd.Flags().Bool("version", false, "report version of this executable")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.AddCommand(newDemoCmd(), newTabulateCmd(), newSchemaCmd(), newCoerceCmd())
	return rootCmd
}

// Execute runs the root command and exits with a non-zero status on failure.
// This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func version() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.Main.Version
	}
	return "(unknown version)"
}

// configureLogging sends log entries to w, in colour only when w is a terminal.
func configureLogging(w io.Writer, verbose bool) {
	colors := false
	if f, ok := w.(*os.File); ok {
		colors = term.IsTerminal(int(f.Fd()))
	}
	log.SetOutput(w)
	log.SetFormatter(&log.TextFormatter{
		DisableColors:    !colors,
		DisableTimestamp: !colors,
		FullTimestamp:    true,
	})
	log.SetLevel(log.InfoLevel)
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}

// getFlag returns the value of a boolean flag, or exits if the flag is not defined.
func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	return r
}

func getString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	return r
}
