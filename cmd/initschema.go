package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"fourree/internal/schema"
)

var initTable string

// starterSchema exercises one field of every generator kind, so a new
// user sees the full parameter surface in a working file.
const starterSchema = `{
  "table_name": "example",
  "fields": [
    {"name": "id", "data_type": "bigint", "generator": "integer", "min": 0, "max": 1000000},
    {"name": "trace_id", "data_type": "uuid", "generator": "uuid"},
    {"name": "quantity", "data_type": "integer", "generator": "gauss", "mean": 100, "std_dev": 15},
    {"name": "price", "data_type": "real", "generator": "gauss_float", "mean": 24.99, "std_dev": 5},
    {"name": "sku", "data_type": "varchar(10)", "generator": "string", "length": 10},
    {"name": "ordered_on", "data_type": "date", "generator": "date", "min_year": 2000, "max_year": 2016},
    {"name": "region", "data_type": "varchar(4)", "generator": "choice", "choices": ["NA", "EU", "APAC"]}
  ]
}
`

var initCmd = &cobra.Command{
	Use:   "init PATH",
	Short: "Write a starter schema file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, refusing to overwrite", path)
		}

		doc := starterSchema
		if initTable != "" {
			var err error
			doc, err = sjson.Set(doc, "table_name", initTable)
			if err != nil {
				return fmt.Errorf("set table name: %w", err)
			}
		}

		// The template must always pass the loader it is written for.
		if _, err := schema.ParseJSON([]byte(doc)); err != nil {
			return fmt.Errorf("starter schema invalid: %w", err)
		}

		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			return fmt.Errorf("write schema: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote starter schema to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initTable, "table", "", "table name for the starter schema")
}
