//go:build windows

package daemon

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultPIDFile is where Daemonize writes the running process's pid
// when the caller doesn't specify one. Windows has no setsid/session
// semantics to detach into, so this is an in-process fallback pidfile
// for non-POSIX targets.
var DefaultPIDFile = filepath.Join(os.TempDir(), "can_controller_node.pid")

// IsDaemonChild is always true on Windows: there is no re-exec'd child
// to distinguish from the original process.
func IsDaemonChild() bool { return true }

// Daemonize has no real background-detach mechanism on Windows; it
// records the current process's own pid to pidFile and reports that
// the caller should keep running in place.
func Daemonize(pidFile string) (continueRunning bool, err error) {
	if pidFile == "" {
		pidFile = DefaultPIDFile
	}
	if err := os.WriteFile(pidFile, []byte(fmt.Sprintf("%d", os.Getpid())), 0o644); err != nil {
		return false, fmt.Errorf("daemon: write pidfile %s: %w", pidFile, err)
	}
	return true, nil
}
