package sink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/ethpandaops/testjson/internal/config"
	"github.com/ethpandaops/testjson/internal/report"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	defaultBatchSize = 1000
	defaultWorkers   = 4
)

var errNilReport = errors.New("report must not be nil")

// Conn is the subset of a ClickHouse connection the sink needs.
type Conn interface {
	PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error)
}

// PushResult describes a completed push.
type PushResult struct {
	RunID    uuid.UUID
	Rows     int
	Batches  int
	Duration time.Duration
}

// Sink exports reports into ClickHouse.
type Sink interface {
	// Push inserts every record of rep under a fresh run id, followed by the
	// run summary row. source identifies where the report came from.
	Push(ctx context.Context, rep *report.Report, source string) (*PushResult, error)
}

type sink struct {
	log       logrus.FieldLogger
	conn      Conn
	database  string
	batchSize int
	workers   int
	now       func() time.Time
}

// Option configures a Sink.
type Option func(*sink)

// WithBatchSize sets the number of rows per insert batch.
func WithBatchSize(n int) Option {
	return func(s *sink) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithWorkers sets how many batches are inserted concurrently.
func WithWorkers(n int) Option {
	return func(s *sink) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewSink creates a ClickHouse sink writing into database.
func NewSink(log logrus.FieldLogger, conn Conn, database string, opts ...Option) Sink {
	s := &sink{
		log:       log.WithField("component", "sink"),
		conn:      conn,
		database:  database,
		batchSize: defaultBatchSize,
		workers:   defaultWorkers,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *sink) Push(ctx context.Context, rep *report.Report, source string) (*PushResult, error) {
	if rep == nil {
		return nil, errNilReport
	}

	var (
		start    = time.Now()
		runID    = uuid.New()
		pushedAt = s.now().UTC()
		log      = s.log.WithField("run_id", runID.String())
	)

	rows, err := ResultRows(runID, pushedAt, rep)
	if err != nil {
		return nil, err
	}

	batches := Chunk(rows, s.batchSize)

	log.WithFields(logrus.Fields{
		"rows":    len(rows),
		"batches": len(batches),
		"workers": s.workers,
	}).Debug("pushing report")

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, batch := range batches {
		g.Go(func() error {
			if err := s.insertResults(gCtx, batch); err != nil {
				return fmt.Errorf("inserting batch %d: %w", i, err)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// The run row is written last so a visible run always has its results.
	if err := s.insertRun(ctx, NewRunRow(runID, pushedAt, source, rep.Stats)); err != nil {
		return nil, fmt.Errorf("inserting run summary: %w", err)
	}

	result := &PushResult{
		RunID:    runID,
		Rows:     len(rows),
		Batches:  len(batches),
		Duration: time.Since(start),
	}

	log.WithFields(logrus.Fields{
		"rows":     result.Rows,
		"duration": result.Duration,
	}).Info("report pushed")

	return result, nil
}

func (s *sink) insertResults(ctx context.Context, rows []ResultRow) error {
	batch, err := s.conn.PrepareBatch(ctx, fmt.Sprintf("INSERT INTO `%s`.%s", s.database, config.ResultsTable))
	if err != nil {
		return fmt.Errorf("preparing batch: %w", err)
	}

	for i := range rows {
		if err := batch.AppendStruct(&rows[i]); err != nil {
			_ = batch.Abort()

			return fmt.Errorf("appending row %d: %w", rows[i].Position, err)
		}
	}

	return batch.Send()
}

func (s *sink) insertRun(ctx context.Context, row RunRow) error {
	batch, err := s.conn.PrepareBatch(ctx, fmt.Sprintf("INSERT INTO `%s`.%s", s.database, config.RunsTable))
	if err != nil {
		return fmt.Errorf("preparing batch: %w", err)
	}

	if err := batch.AppendStruct(&row); err != nil {
		_ = batch.Abort()

		return fmt.Errorf("appending run row: %w", err)
	}

	return batch.Send()
}

// Chunk splits rows into consecutive batches of at most size rows.
func Chunk[T any](rows []T, size int) [][]T {
	if size <= 0 {
		size = len(rows)
	}

	batches := make([][]T, 0, (len(rows)+size-1)/max(size, 1))
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		batches = append(batches, rows[start:end])
	}

	return batches
}

// Compile-time interface compliance check
var _ Sink = (*sink)(nil)
