package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/justschema/internal/cli"
)

var exportCmd = &cobra.Command{
	Use:   "export [model...]",
	Short: "Save rendered schema documents to a document store",
	Long: `Renders the schema of each named model (every model when none is given)
and saves it to the file or Redis store. Exports to Redis hold a lock so
concurrent exporters do not interleave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		engine, log, err := loadEngine(ctx, cmd)
		if err != nil {
			return err
		}
		store, err := openStore(cmd, log)
		if err != nil {
			return err
		}
		defer store.close()

		unlock, err := store.lock(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				log.Warn("Failed to release export lock", "err", err)
			}
		}()

		records, err := cli.Export(ctx, engine, store, args)
		p := palette(cmd)
		for _, r := range records {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", p.Success("✔"), r.Model, p.Faint(r.Digest[:12]))
		}
		return err
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff <model>",
	Short: "Compare the stored document of a model with the derived one",
	Long: `Loads the exported document of <model> and compares it with the schema
derived from the current definitions. The exit status is non-zero when they drift.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		engine, log, err := loadEngine(ctx, cmd)
		if err != nil {
			return err
		}
		store, err := openStore(cmd, log)
		if err != nil {
			return err
		}
		defer store.close()

		doc, err := engine.ShowSchema(args[0])
		if err != nil {
			return err
		}
		derived, err := cli.RenderJSON(doc)
		if err != nil {
			return err
		}
		stored, err := cli.Stored(ctx, store, args[0])
		if err != nil {
			return err
		}

		p := palette(cmd)
		report, err := cli.Drift(args[0], stored, derived, p)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if report.Keys.Empty() {
			fmt.Fprintf(out, "%s %s is up to date\n", p.Success("✔"), args[0])
			return nil
		}
		if stored == nil {
			fmt.Fprintf(out, "%s %s was never exported\n", p.Failure("✘"), args[0])
		} else {
			fmt.Fprintf(out, "%s %s drifted: %s\n", p.Failure("✘"), args[0], report.Keys)
		}
		fmt.Fprint(out, report.Lines)
		return fmt.Errorf("schema of %s drifted from the stored document", args[0])
	},
}

func init() {
	addStoreFlags(exportCmd)
	addStoreFlags(diffCmd)
	rootCmd.AddCommand(exportCmd, diffCmd)
}
