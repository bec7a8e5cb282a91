package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/justschema/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate <model> <data.json|data.yaml|->",
	Short: "Validate an instance, or an array of instances, against a model",
	Long: `Reads a JSON or YAML document (or JSON from stdin with "-") and checks it
against the schema of <model>. Every violation is reported with its path.
The exit status is non-zero when the data is invalid.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, err := loadEngine(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		data, err := cli.ReadData(args[1], cmd.InOrStdin())
		if err != nil {
			return err
		}
		err = engine.ValidateRaw(cmd.Context(), args[0], data)
		return cli.PrintValidation(cmd.OutOrStdout(), args[0], err, palette(cmd))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
