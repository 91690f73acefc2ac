// Package daemon detaches the current process into the background. Go
// cannot safely call fork(2) once goroutines and the runtime's own
// threads are running, so on POSIX this re-execs the binary with a
// marker environment variable in a new session rather than forking the
// running process; on platforms without setsid semantics it falls back
// to running in-process and recording a pidfile.
package daemon

// reexecEnvVar, when present in the environment, tells a freshly
// started process that it IS the detached child and should not
// re-exec again.
const reexecEnvVar = "CANNODE_DAEMON_CHILD"
