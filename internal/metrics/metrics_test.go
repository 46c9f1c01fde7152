package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeMetricsPopulatesSeries(t *testing.T) {
	InitializeMetrics()

	assert.Equal(t, 14, testutil.CollectAndCount(RemoteRequestsTotal))
	assert.Equal(t, 4, testutil.CollectAndCount(CheckResultsTotal))
	assert.Equal(t, 2, testutil.CollectAndCount(SearchesTotal))
}

func TestWriteTextfile(t *testing.T) {
	InitializeMetrics()
	CheckResultsTotal.WithLabelValues("found").Inc()

	path := filepath.Join(t.TempDir(), "navisync.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "navisync_check_results_total")
	assert.Contains(t, string(data), `status="found"`)
}
