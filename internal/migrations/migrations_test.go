package migrations

import (
	"context"
	"io"
	"io/fs"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_SingleNode(t *testing.T) {
	sourceFS, err := Render("reports", "")
	require.NoError(t, err)

	entries, err := fs.ReadDir(sourceFS, ".")
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	assert.Equal(t, []string{
		"001_create_test_results.down.sql",
		"001_create_test_results.up.sql",
		"002_create_test_runs.down.sql",
		"002_create_test_runs.up.sql",
	}, names)

	up, err := fs.ReadFile(sourceFS, "001_create_test_results.up.sql")
	require.NoError(t, err)

	sql := string(up)
	assert.Contains(t, sql, "`reports`.test_results")
	assert.Contains(t, sql, "ENGINE = MergeTree()")
	assert.NotContains(t, sql, "${")
	assert.NotContains(t, sql, "ON CLUSTER")
}

func TestRender_Cluster(t *testing.T) {
	sourceFS, err := Render("reports", "ci_cluster")
	require.NoError(t, err)

	up, err := fs.ReadFile(sourceFS, "002_create_test_runs.up.sql")
	require.NoError(t, err)

	sql := string(up)
	assert.Contains(t, sql, "ON CLUSTER 'ci_cluster'")
	assert.Contains(t, sql, "ReplicatedMergeTree(")
}

func TestRunner_CanceledContext(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(log, "reports", "").Up(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
