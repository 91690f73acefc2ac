package logging_test

import (
	"path/filepath"
	"testing"

	"github.com/nmeactl/can-controller-node/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConsoleOnly(t *testing.T) {
	l, err := logging.New(logging.DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, l)
	l.Info("hello")
}

func TestNewWithLogDirCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	cfg := logging.DefaultConfig()
	cfg.LogDir = dir

	l, err := logging.New(cfg)
	require.NoError(t, err)
	l.Info("rotated")
	assert.DirExists(t, dir)
}

func TestWithComponentAddsField(t *testing.T) {
	l, err := logging.New(logging.DefaultConfig())
	require.NoError(t, err)
	child := logging.WithComponent(l, "ingestion")
	require.NotNil(t, child)
}
