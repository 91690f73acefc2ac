// Package canbus implements the CAN Bus Adapter: a small state machine
// around a platform CAN binding (SocketCAN on Linux, an in-memory
// simulator elsewhere/for tests) that owns the physical connection and
// serializes all outbound sends behind a single mutex.
package canbus

import "time"

// Frame is one CAN frame moving across the adapter, in either
// direction. ID is the raw 29-bit (or, for the emergency-stop frame,
// 11-bit) arbitration ID; callers run it through internal/arbitration
// to recover priority/PGN/source/destination.
type Frame struct {
	Time     time.Time
	ID       uint32
	Extended bool // false for the 11-bit emergency-stop frame, true otherwise
	Data     []byte
}
