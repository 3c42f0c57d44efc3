package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"inverter/internal/define"
)

var listFile string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the records in a definition file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		set, err := define.Load(listFile)
		if err != nil {
			return err
		}

		for _, name := range set.Names() {
			rec, _ := set.Get(name)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d fields)\n", name, len(rec.Fields()))
			for _, f := range rec.Fields() {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-20s %s\n", f.Name, f.Type.String())
			}
		}

		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listFile, "file", "f", "", "record definition file (required)")
	_ = listCmd.MarkFlagRequired("file")
}
