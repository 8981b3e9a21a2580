package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"mvdan.cc/sh/v3/shell"

	"github.com/harrison/nimfmt/internal/config"
	"github.com/harrison/nimfmt/internal/display"
	"github.com/harrison/nimfmt/internal/format"
	"github.com/harrison/nimfmt/internal/logger"
)

// NewFmtCommand creates the fmt command
func NewFmtCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt [flags] <file>...",
		Short: "Format Nim source files",
		Long: `Format the given Nim source files in place with the configured
external formatter.

Files whose output matches their current contents are left untouched.
Formatter errors are printed as file:row:col: message lines and leave the
file unmodified.

Examples:
  # Format files in place
  nimfmt fmt src/parser.nim src/lexer.nim

  # List files that need formatting without rewriting them
  nimfmt fmt --check src/*.nim

  # Print the result of one file to stdout
  nimfmt fmt --stdout src/parser.nim

  # Override the formatter command for this run
  nimfmt fmt --cmd "nimpretty --maxLineLen:100" src/parser.nim`,
		Args: cobra.MinimumNArgs(1),
		RunE: runFmt,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .nimfmt/config.yaml)")
	cmd.Flags().Bool("check", false, "Report files needing formatting without rewriting them (exit 1 if any)")
	cmd.Flags().Bool("stdout", false, "Print formatted output to stdout instead of rewriting (single file only)")
	cmd.Flags().String("cmd", "", "Formatter command overriding the config, shell-quoted")
	cmd.Flags().String("timeout", "", "Maximum time per file (e.g. 30s, 2m)")
	cmd.Flags().String("log-level", "", "Log verbosity (trace, debug, info, warn, error)")

	return cmd
}

func runFmt(cmd *cobra.Command, args []string) error {
	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}
	toStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return err
	}
	if toStdout && check {
		return fmt.Errorf("fmt: --stdout cannot be used with --check")
	}
	if toStdout && len(args) != 1 {
		return fmt.Errorf("fmt: --stdout requires exactly one file")
	}

	cfg, err := loadFmtConfig(cmd)
	if err != nil {
		return err
	}

	log, cleanup, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	formatter := format.New(cfg, log)
	ctx := cmd.Context()

	var failed, needsFormat bool
	for _, path := range args {
		if filepath.Ext(path) != ".nim" {
			display.Warning{
				Title:      "Skipping non-Nim file",
				Files:      []string{path},
				Suggestion: "nimfmt only formats .nim sources",
			}.Display(os.Stderr)
			continue
		}

		res, err := formatter.FormatFile(ctx, path, !check && !toStdout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fmt: %s: %v\n", path, err)
			failed = true
			continue
		}
		if res.Failed {
			display.RenderDiagnostics(os.Stderr, path, res.Diagnostics, display.UseColor(os.Stderr))
			if len(res.Diagnostics) == 0 {
				fmt.Fprintf(os.Stderr, "fmt: %s: %s failed with return code %d\n", path, cfg.Cmd[0], res.ExitCode)
			}
			failed = true
			continue
		}

		if toStdout {
			os.Stdout.WriteString(res.Output)
			continue
		}
		if res.Changed {
			needsFormat = true
			if check {
				fmt.Fprintln(os.Stdout, path)
			} else {
				log.LogInfo(fmt.Sprintf("formatted %s", path))
			}
		}
	}

	if failed {
		return fmt.Errorf("fmt: failed to format some files")
	}
	if check && needsFormat {
		return fmt.Errorf("fmt: formatting changes required")
	}
	return nil
}

// loadFmtConfig loads the config file and merges fmt flags over it.
func loadFmtConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
	} else {
		cfg, err = config.LoadConfigFromDir(".")
	}
	if err != nil {
		return nil, err
	}

	var cmdOverride *[]string
	if raw, _ := cmd.Flags().GetString("cmd"); raw != "" {
		fields, err := shell.Fields(raw, nil)
		if err != nil {
			return nil, fmt.Errorf("invalid --cmd %q: %w", raw, err)
		}
		cmdOverride = &fields
	}

	var timeoutOverride *time.Duration
	if raw, _ := cmd.Flags().GetString("timeout"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid --timeout %q: %w", raw, err)
		}
		timeoutOverride = &d
	}

	var levelOverride *string
	if raw, _ := cmd.Flags().GetString("log-level"); raw != "" {
		levelOverride = &raw
	}

	cfg.MergeWithFlags(cmdOverride, timeoutOverride, nil, levelOverride)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildLogger assembles the console logger plus, when a log directory is
// configured, a file logger. cleanup closes the file logger.
func buildLogger(cfg *config.Config) (logger.Logger, func(), error) {
	console := logger.NewConsoleLogger(os.Stderr, cfg.LogLevel)
	if cfg.LogDir == "" {
		return console, func() {}, nil
	}

	fl, err := logger.NewFileLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return logger.Multi{console, fl}, func() { fl.Close() }, nil
}
