// Package migrations handles database schema migrations
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/ethpandaops/testjson/internal/clickhouse"
	"github.com/ethpandaops/testjson/internal/config"
	"github.com/ethpandaops/testjson/internal/memfs"
	"github.com/golang-migrate/migrate/v4"
	chmigrate "github.com/golang-migrate/migrate/v4/database/clickhouse"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

//go:embed sql/*.sql
var embedded embed.FS

var errNoMigrations = errors.New("no migration files found")

// Runner applies the report schema to a ClickHouse database.
type Runner interface {
	// Up applies all pending migrations and returns the resulting version.
	Up(ctx context.Context, db *sql.DB) (uint, error)
}

type runner struct {
	log      logrus.FieldLogger
	database string
	cluster  string
}

// NewRunner creates a migration runner for the given database and optional cluster.
func NewRunner(log logrus.FieldLogger, database, cluster string) Runner {
	return &runner{
		log:      log.WithField("component", "migrations"),
		database: database,
		cluster:  cluster,
	}
}

func (r *runner) Up(ctx context.Context, db *sql.DB) (uint, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	sourceFS, err := Render(r.database, r.cluster)
	if err != nil {
		return 0, fmt.Errorf("rendering migrations: %w", err)
	}

	sourceDriver, err := iofs.New(sourceFS, ".")
	if err != nil {
		return 0, fmt.Errorf("creating source driver: %w", err)
	}

	tableEngine := "MergeTree"
	if r.cluster != "" {
		tableEngine = "ReplicatedMergeTree"
	}

	dbDriver, err := chmigrate.WithInstance(db, &chmigrate.Config{
		DatabaseName:          r.database,
		ClusterName:           r.cluster,
		MigrationsTable:       config.SchemaMigrationsTable,
		MigrationsTableEngine: tableEngine,
		MultiStatementEnabled: true,
		MultiStatementMaxSize: 1024 * 1024,
	})
	if err != nil {
		return 0, fmt.Errorf("creating clickhouse driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, r.database, dbDriver)
	if err != nil {
		return 0, fmt.Errorf("creating migrate instance: %w", err)
	}

	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			r.log.WithFields(logrus.Fields{
				"source_error":   srcErr,
				"database_error": dbErr,
			}).Warn("failed to close migration instance")
		}
	}()

	r.log.WithField("database", r.database).Debug("running migrations, please wait")

	done := make(chan error, 1)
	go func() {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			done <- fmt.Errorf("running migrations: %w", err)
			return
		}
		done <- nil
	}()

	select {
	case <-ctx.Done():
		m.GracefulStop <- true

		return 0, fmt.Errorf("migration canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return 0, err
		}
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("reading migration version: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"database": r.database,
		"version":  version,
		"dirty":    dirty,
	}).Info("migrations applied")

	return version, nil
}

// Render substitutes the database, cluster and engine placeholders of every
// embedded migration and returns the result as an in-memory filesystem.
func Render(database, cluster string) (fs.FS, error) {
	entries, err := fs.ReadDir(embedded, "sql")
	if err != nil {
		return nil, fmt.Errorf("reading embedded migrations: %w", err)
	}

	replacer := strings.NewReplacer(
		"${DATABASE}", database,
		"${ON_CLUSTER}", clickhouse.ClusterClause(cluster),
		"${ENGINE}", clickhouse.EngineClause(cluster),
	)

	out := memfs.NewFS()

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		content, err := embedded.ReadFile("sql/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}

		out.WriteFile(entry.Name(), []byte(replacer.Replace(string(content))))
	}

	if out.Len() == 0 {
		return nil, errNoMigrations
	}

	return out, nil
}
