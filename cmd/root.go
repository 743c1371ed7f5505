// Package cmd implements the testjson command line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Logger is the shared logger instance for all commands
	Logger *logrus.Logger

	verbose bool

	rootCmd = &cobra.Command{
		Use:   "testjson",
		Short: "testjson - structured JSON reports for test runs",
		Long: `testjson records every test outcome of a run into a single JSON report.

Pipe "go test -json" output into "testjson run" to produce the report, then
inspect it with "testjson summary" or export it with "testjson push".`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				Logger.SetLevel(logrus.DebugLevel)
			}
		},
	}
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Load .env file if it exists
	_ = godotenv.Load()

	Logger = newLogger(os.Getenv("LOG_LEVEL"))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (debug logging, every record listed)")
}
