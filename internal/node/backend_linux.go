//go:build linux

package node

import "github.com/nmeactl/can-controller-node/internal/canbus"

func newDefaultBackend() canbus.Backend {
	return canbus.NewSocketCANBackend()
}
