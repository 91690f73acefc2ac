package canbus

import "context"

// Backend is the platform-specific CAN binding an Adapter drives: a
// SocketCAN raw socket on Linux, or an in-memory simulator for tests
// and non-Linux auto-detect probing. Exactly one goroutine (the
// ingestion loop) ever calls Recv; Send may be called concurrently by
// the command dispatcher, the playback engine and the emergency path,
// serialized by Adapter's own mutex rather than by the backend.
type Backend interface {
	// Open binds the backend to a named interface/channel at the given
	// bitrate (bits/s). Channel is backend-specific (SocketCAN ignores
	// it; other bindings may use it to select a sub-bus).
	Open(ifName, channel string, bitrate int) error
	Close() error
	// Recv blocks until a frame arrives, ctx is cancelled, or an
	// internal read-timeout poll elapses (implementations should poll
	// at a short interval, e.g. 50ms, so ctx cancellation is prompt).
	Recv(ctx context.Context) (Frame, error)
	Send(Frame) error
}
