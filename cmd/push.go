package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ethpandaops/testjson/internal/clickhouse"
	"github.com/ethpandaops/testjson/internal/config"
	"github.com/ethpandaops/testjson/internal/migrations"
	"github.com/ethpandaops/testjson/internal/report"
	"github.com/ethpandaops/testjson/internal/sink"
	"github.com/spf13/cobra"
)

var (
	// Push command flags
	pushTimeout     time.Duration
	pushBatchSize   int
	pushWorkers     int
	pushSkipMigrate bool
)

var pushCmd = &cobra.Command{
	Use:   "push <report.json>",
	Short: "Export a report into ClickHouse",
	Long: `Apply the report schema to the configured ClickHouse database and insert
every record of the report under a freshly generated run id.

Example:
  testjson push nosetests.json
  CLICKHOUSE_HOST=ch.internal testjson push out/report.json --batch-size 500`,
	Args: cobra.ExactArgs(1),
	RunE: runPush,
}

func init() {
	rootCmd.AddCommand(pushCmd)

	pushCmd.Flags().DurationVar(&pushTimeout, "timeout", 5*time.Minute, "Overall push timeout")
	pushCmd.Flags().IntVar(&pushBatchSize, "batch-size", 1000, "Rows per insert batch")
	pushCmd.Flags().IntVar(&pushWorkers, "workers", 4, "Batches inserted concurrently")
	pushCmd.Flags().BoolVar(&pushSkipMigrate, "skip-migrations", false, "Do not apply schema migrations before inserting")
}

func runPush(cmd *cobra.Command, args []string) error {
	log := Logger.WithField("command", "push")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	rep, err := report.Read(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()

	console := newConsole(cmd.OutOrStdout())
	console.PrintPhase("ClickHouse")

	start := time.Now()

	conn, err := clickhouse.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = conn.Close()
	}()

	if err := clickhouse.CreateDatabase(ctx, conn, cfg.ClickhouseDatabase, cfg.ClickhouseCluster); err != nil {
		return err
	}

	if !pushSkipMigrate {
		db := clickhouse.OpenDB(cfg)
		defer func() {
			_ = db.Close()
		}()

		version, err := migrations.NewRunner(log, cfg.ClickhouseDatabase, cfg.ClickhouseCluster).Up(ctx, db)
		if err != nil {
			return err
		}

		console.PrintProgress(fmt.Sprintf("Schema at version %d", version), time.Since(start))
	}

	source, err := filepath.Abs(args[0])
	if err != nil {
		source = args[0]
	}

	result, err := sink.NewSink(
		log,
		conn,
		cfg.ClickhouseDatabase,
		sink.WithBatchSize(pushBatchSize),
		sink.WithWorkers(pushWorkers),
	).Push(ctx, rep, source)
	if err != nil {
		console.PrintError("Push failed", err)

		return err
	}

	console.PrintProgress(
		fmt.Sprintf("Inserted %d records in %d batches", result.Rows, result.Batches),
		result.Duration,
	)
	console.PrintSuccess(fmt.Sprintf("Run %s pushed to %s", result.RunID, cfg.ClickhouseDatabase))

	return nil
}
