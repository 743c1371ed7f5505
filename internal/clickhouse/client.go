// Package clickhouse provides ClickHouse database connection and management utilities
package clickhouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/ethpandaops/testjson/internal/config"
)

// Options builds the native protocol options for the configured server.
// The connection targets the default database so the report database can be
// created before it is used.
func Options(cfg *config.Config) *clickhouse.Options {
	return &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.ClickhouseHost, cfg.ClickhouseNativePort)},
		Auth: clickhouse.Auth{
			Database: config.DefaultDatabase,
			Username: cfg.ClickhouseUsername,
			Password: cfg.ClickhousePassword,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:     time.Second * 30,
		MaxOpenConns:    5,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Duration(10) * time.Minute,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	}
}

// Connect establishes a connection to ClickHouse using native protocol
func Connect(ctx context.Context, cfg *config.Config) (driver.Conn, error) {
	conn, err := clickhouse.Open(Options(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := conn.Ping(pingCtx); err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return conn, nil
}

// OpenDB opens a database/sql handle over the same native options, for
// consumers such as golang-migrate that require *sql.DB.
func OpenDB(cfg *config.Config) *sql.DB {
	return clickhouse.OpenDB(Options(cfg))
}

// CreateDatabase creates a database if it doesn't exist
func CreateDatabase(ctx context.Context, conn driver.Conn, dbName, cluster string) error {
	query := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` %s", dbName, ClusterClause(cluster))

	if err := conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create database %s: %w", dbName, err)
	}

	return nil
}

// ClusterClause returns the ON CLUSTER clause for clustered setups.
func ClusterClause(cluster string) string {
	if cluster != "" {
		return fmt.Sprintf("ON CLUSTER '%s'", cluster)
	}
	return ""
}

// EngineClause returns the table engine: replicated on a cluster, plain
// MergeTree on a single node.
func EngineClause(cluster string) string {
	if cluster != "" {
		return `ReplicatedMergeTree('/clickhouse/{installation}/{cluster}/tables/{shard}/{database}/{table}', '{replica}')`
	}
	return "MergeTree()"
}
