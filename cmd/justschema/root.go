package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/justschema"
	"github.com/aretw0/justschema/internal/cli"
	"github.com/aretw0/justschema/internal/presentation/tui"
	"github.com/aretw0/justschema/pkg/domain"
	"github.com/aretw0/justschema/pkg/observability"
)

var rootCmd = &cobra.Command{
	Use:   "justschema",
	Short: "Derive JSON Schema documents from model definitions and validate data against them",
	Long: `justschema reads model definitions from a YAML/JSON file (--file) or a
Loam repository of Markdown documents (--dir), derives a JSON Schema for each
model and validates instances against it, reporting every violation.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("file", "f", "", "YAML or JSON file with model definitions")
	flags.StringP("dir", "d", "", "Loam repository with one model per document")
	flags.String("log-level", "warn", "Log level: debug, info, warn or error")
	flags.StringP("output", "o", "json", "Document output format: json or yaml")
	flags.Bool("camel", false, "Rename declared properties to camelCase (first_name becomes firstName)")
	flags.Bool("formats", false, "Assert string formats (email, uuid, date-time, ...)")
	flags.Bool("additional", false, "Allow undeclared properties in every model")
	flags.String("dialect", "", "$schema URI stamped on every document")
	flags.Bool("no-color", false, "Disable colored output")
}

func engineOptions(cmd *cobra.Command) cli.Options {
	flags := cmd.Flags()
	var opts cli.Options
	opts.File, _ = flags.GetString("file")
	opts.Dir, _ = flags.GetString("dir")
	opts.Camel, _ = flags.GetBool("camel")
	opts.Formats, _ = flags.GetBool("formats")
	opts.Additional, _ = flags.GetBool("additional")
	opts.Dialect, _ = flags.GetString("dialect")
	return opts
}

func logger(cmd *cobra.Command) (*slog.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	return cli.CreateLogger(level)
}

// loadEngine builds an engine from the persistent flags. At debug level every
// registration and validation is logged.
func loadEngine(ctx context.Context, cmd *cobra.Command, hooks ...domain.LifecycleHooks) (*justschema.Engine, *slog.Logger, error) {
	log, err := logger(cmd)
	if err != nil {
		return nil, nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level == "debug" {
		hooks = append(hooks, observability.LoggingHooks(log))
	}

	opts := engineOptions(cmd)
	source, err := cli.OpenSource(opts)
	if err != nil {
		return nil, nil, err
	}
	engine, err := cli.CreateEngine(ctx, source, opts, log, hooks...)
	if err != nil {
		return nil, nil, err
	}
	return engine, log, nil
}

func palette(cmd *cobra.Command) *tui.Palette {
	noColor, _ := cmd.Flags().GetBool("no-color")
	out := cmd.OutOrStdout()
	return tui.NewPalette(out, noColor || !cli.IsTerminal(out))
}
