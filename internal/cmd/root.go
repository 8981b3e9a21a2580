package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for nimfmt
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nimfmt",
		Short: "Format Nim source code with an external formatter",
		Long: `nimfmt drives an external Nim formatter (nimpretty by default) over
source files and reports formatter errors as positioned diagnostics.

Each file is staged in a temporary file, formatted by the external binary,
and rewritten only when the output differs. Formatter errors are printed as
file:row:col: message lines.

Configuration is loaded from .nimfmt/config.yaml if present.
CLI flags override configuration file settings.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewFmtCommand())

	return cmd
}
