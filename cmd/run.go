package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethpandaops/testjson/internal/config"
	"github.com/ethpandaops/testjson/internal/gotest"
	"github.com/ethpandaops/testjson/internal/metadata"
	"github.com/ethpandaops/testjson/internal/report"
	"github.com/spf13/cobra"
)

var errTestsFailed = errors.New("report contains errors or failures")

var (
	// Run command flags
	runReportFile   string
	runEncoding     string
	runMetadataFile string
	runFailOnError  bool
	runQuiet        bool
)

// runCmd replays a test2json stream into a report
var runCmd = &cobra.Command{
	Use:   "run [events.jsonl]",
	Short: "Build a JSON report from go test -json output",
	Long: `Read test2json events from a file (or stdin when omitted or "-") and write
a JSON report with one record per test.

Example:
  go test -json ./... | testjson run
  testjson run events.jsonl --json-file out/report.json --encoding ISO-8859-1`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runReportFile, "json-file", "", "Report output path (env "+config.EnvReportFile+", default "+config.DefaultReportFile+")")
	runCmd.Flags().StringVar(&runEncoding, "encoding", "", "Report encoding (env "+config.EnvEncoding+", default "+config.DefaultEncoding+")")
	runCmd.Flags().StringVar(&runMetadataFile, "metadata", "", "YAML file with external ids and details (env "+config.EnvMetadataFile+")")
	runCmd.Flags().BoolVar(&runFailOnError, "fail-on-error", false, "Exit non-zero when the report holds errors or failures")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "Skip the console summary")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	applyRunFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	in, closeInput, err := openInput(args)
	if err != nil {
		return err
	}
	defer closeInput()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep, stats, err := buildReport(ctx, cfg, in)
	if err != nil {
		return err
	}

	if !runQuiet {
		console := newConsole(cmd.OutOrStdout())
		console.PrintProgress(
			fmt.Sprintf("Replayed %d events from %d packages", stats.Events, stats.Packages),
			0,
		)
		console.PrintTestResults(rep)
		console.PrintSummary(rep)
		console.PrintSuccess(fmt.Sprintf("Report written to %s", cfg.ReportFile))
	}

	if runFailOnError && rep.Failed() {
		return errTestsFailed
	}

	return nil
}

// buildReport replays the stream through an aggregator and writes the report.
func buildReport(ctx context.Context, cfg *config.Config, in io.Reader) (*report.Report, *gotest.Stats, error) {
	log := Logger.WithField("command", "run")

	meta, err := metadata.Load(log, cfg.MetadataFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading metadata: %w", err)
	}

	writer, err := report.NewWriter(log, cfg.Encoding)
	if err != nil {
		return nil, nil, fmt.Errorf("configuring report writer: %w", err)
	}

	var (
		start    = time.Now()
		replayer = gotest.NewReplayer(log, meta, report.NewSystemClock())
		agg      = report.NewAggregator(log, replayer.Clock(), writer.Encoding())
	)

	stats, err := replayer.Replay(ctx, in, agg)
	if err != nil {
		return nil, nil, fmt.Errorf("replaying events: %w", err)
	}

	rep, err := report.FinalizeAndWrite(agg, writer, cfg.ReportFile)
	if err != nil {
		return nil, nil, err
	}

	log.WithField("duration", time.Since(start)).Debug("report built")

	return rep, stats, nil
}

// applyRunFlags lets explicitly set flags win over environment configuration.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("json-file") {
		cfg.ReportFile = runReportFile
	}

	if cmd.Flags().Changed("encoding") {
		cfg.Encoding = runEncoding
	}

	if cmd.Flags().Changed("metadata") {
		cfg.MetadataFile = runMetadataFile
	}
}

func openInput(args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return os.Stdin, func() {}, nil
	}

	// #nosec G304 -- path is provided by the operator
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("opening events file: %w", err)
	}

	return f, func() { _ = f.Close() }, nil
}
