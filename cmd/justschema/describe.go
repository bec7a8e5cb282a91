package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/justschema/internal/cli"
	"github.com/aretw0/justschema/internal/presentation/tui"
)

var describeCmd = &cobra.Command{
	Use:   "describe <model>",
	Short: "Render a readable summary of a model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, err := loadEngine(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		doc, err := engine.ShowSchema(args[0])
		if err != nil {
			return err
		}

		markdown := cli.Describe(doc)
		out := cmd.OutOrStdout()
		if raw, _ := cmd.Flags().GetBool("markdown"); raw || !cli.IsTerminal(out) {
			fmt.Fprint(out, markdown)
			return nil
		}
		rendered, err := tui.NewRenderer(cli.TerminalWidth(out))(markdown)
		if err != nil {
			fmt.Fprint(out, markdown)
			return nil
		}
		fmt.Fprint(out, rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().Bool("markdown", false, "Print the raw Markdown instead of rendering it")
}
