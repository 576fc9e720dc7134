// Package cmd implements the fourree command-line interface.
package cmd

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fourree/internal/logging"
)

var (
	cfgFile string

	// closeLog releases the log file after Execute finishes.
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "fourree",
	Short: "fourree generates fake data from a table schema",
	Long: `fourree loads a table schema (JSON or HCL) and generates random rows
from it across a pool of workers, streaming output to stdout, a file,
a SQL database, or an S3 multipart upload.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A .env file is a convenience, not a requirement.
		_ = godotenv.Load()

		viper.SetEnvPrefix("FOURREE")
		viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		viper.AutomaticEnv()
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("read config file: %w", err)
			}
		}

		// Setup installs the logger as the slog default.
		_, closer, err := logging.Setup(logging.Options{
			Level:  viper.GetString("log-level"),
			Format: viper.GetString("log-format"),
			File:   viper.GetString("log-file"),
		})
		if err != nil {
			return err
		}
		closeLog = closer
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file with flag defaults")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "text", "log format (text, json)")
	pf.String("log-file", "", "write logs to this file instead of stderr")
}

// Execute runs the command tree. Invoking fourree without arguments
// prints the usage text, same as -h.
func Execute() error {
	defer func() {
		_ = closeLog()
	}()
	return rootCmd.Execute()
}
