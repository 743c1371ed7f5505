package cmd

import (
	"github.com/ethpandaops/testjson/internal/report"
	"github.com/spf13/cobra"
)

var summaryFailOnError bool

var summaryCmd = &cobra.Command{
	Use:   "summary <report.json>",
	Short: "Print the results and counters of an existing report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := report.Read(args[0])
		if err != nil {
			return err
		}

		console := newConsole(cmd.OutOrStdout())
		console.PrintTestResults(rep)
		console.PrintSummary(rep)

		if summaryFailOnError && rep.Failed() {
			return errTestsFailed
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().BoolVar(&summaryFailOnError, "fail-on-error", false, "Exit non-zero when the report holds errors or failures")
}
