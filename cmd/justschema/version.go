package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/justschema"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of justschema",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "justschema version %s\n", strings.TrimSpace(justschema.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
