package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fourree/internal/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate SCHEMA",
	Short: "Check a schema file without generating anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := schema.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: table %q, %d fields, fingerprint %s\n",
			args[0], s.TableName, len(s.Fields), s.Fingerprint())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
