//go:build !linux

package node

import "github.com/nmeactl/can-controller-node/internal/canbus"

// newDefaultBackend falls back to the in-memory simulated backend on
// non-Linux build targets, where no SocketCAN socket is available.
func newDefaultBackend() canbus.Backend {
	return canbus.NewSimulatedBackend()
}
