package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult(t *testing.T) {
	assert.Equal(t, "success", Result(nil))
	assert.Equal(t, "failure", Result(errors.New("boom")))
}

func TestRemoteActionsCounter(t *testing.T) {
	before := testutil.ToFloat64(RemoteActions.WithLabelValues("ssh", "failure"))
	RemoteActions.WithLabelValues("ssh", Result(errors.New("exit 255"))).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(RemoteActions.WithLabelValues("ssh", "failure")))
}

func TestWriteTextfile(t *testing.T) {
	SnapshotNodes.WithLabelValues("core").Set(3)
	ClientsMatched.Set(2)

	path := filepath.Join(t.TempDir(), "bitte.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `bitte_snapshot_nodes{role="core"} 3`)
	assert.Contains(t, string(data), "bitte_scheduler_clients_matched 2")
}

func TestWriteTextfileBadPath(t *testing.T) {
	err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "bitte.prom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write metrics")
}
