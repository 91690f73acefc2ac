//go:build !windows

package daemon_test

import (
	"os"
	"testing"

	"github.com/nmeactl/can-controller-node/internal/daemon"
	"github.com/stretchr/testify/assert"
)

func TestIsDaemonChildReflectsEnvVar(t *testing.T) {
	old, had := os.LookupEnv("CANNODE_DAEMON_CHILD")
	defer func() {
		if had {
			os.Setenv("CANNODE_DAEMON_CHILD", old)
		} else {
			os.Unsetenv("CANNODE_DAEMON_CHILD")
		}
	}()

	os.Unsetenv("CANNODE_DAEMON_CHILD")
	assert.False(t, daemon.IsDaemonChild())

	os.Setenv("CANNODE_DAEMON_CHILD", "1")
	assert.True(t, daemon.IsDaemonChild())
}

func TestDaemonizeIsNoOpWhenAlreadyChild(t *testing.T) {
	old, had := os.LookupEnv("CANNODE_DAEMON_CHILD")
	defer func() {
		if had {
			os.Setenv("CANNODE_DAEMON_CHILD", old)
		} else {
			os.Unsetenv("CANNODE_DAEMON_CHILD")
		}
	}()
	os.Setenv("CANNODE_DAEMON_CHILD", "1")

	continueRunning, err := daemon.Daemonize("")
	assert.NoError(t, err)
	assert.True(t, continueRunning)
}
