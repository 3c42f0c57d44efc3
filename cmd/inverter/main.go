// Package main is the inverter CLI. It loads record definitions from a YAML
// file and renders them for a conversion target: validation schema, Avro
// schema, JSON Schema, relational DDL or a search mapping.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var logger = zap.NewNop()

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "inverter",
	Short: "Convert record definitions into target schemas",
	Long: `inverter reads record type definitions from a YAML file and converts
them into schemas for different backends: validation schemas with
serialization policies, Avro schemas, JSON Schema documents, relational
DDL and search index mappings.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			l, err := zap.NewDevelopment()
			if err == nil {
				logger = l
			}
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(listCmd)
}
