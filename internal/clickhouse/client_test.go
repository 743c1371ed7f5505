package clickhouse

import (
	"testing"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ethpandaops/testjson/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestOptions(t *testing.T) {
	cfg := &config.Config{
		ClickhouseHost:       "ch.internal",
		ClickhouseNativePort: 19000,
		ClickhouseUsername:   "writer",
		ClickhousePassword:   "pw",
		ClickhouseDatabase:   "reports",
	}

	opts := Options(cfg)

	assert.Equal(t, []string{"ch.internal:19000"}, opts.Addr)
	assert.Equal(t, "default", opts.Auth.Database)
	assert.Equal(t, "writer", opts.Auth.Username)
	assert.Equal(t, "pw", opts.Auth.Password)
	assert.Equal(t, clickhouse.CompressionLZ4, opts.Compression.Method)
}

func TestClusterClauses(t *testing.T) {
	assert.Empty(t, ClusterClause(""))
	assert.Equal(t, "ON CLUSTER 'c1'", ClusterClause("c1"))

	assert.Equal(t, "MergeTree()", EngineClause(""))
	assert.Contains(t, EngineClause("c1"), "ReplicatedMergeTree")
}
