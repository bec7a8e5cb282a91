package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/justschema/internal/cli"
)

var showCmd = &cobra.Command{
	Use:   "show <model>",
	Short: "Print the JSON Schema of a model",
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
		format, _ := cmd.Flags().GetString("output")
		return cli.WriteDocument(cmd.OutOrStdout(), doc, format)
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the registered models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, err := loadEngine(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		for _, name := range engine.Models() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd, modelsCmd)
}
