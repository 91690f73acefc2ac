package canbus

import (
	"context"
	"fmt"
	"sync"
)

// Adapter wraps a Backend with the Closed/Opening/Open/Closing state
// machine and a send mutex shared by every outbound path (command
// dispatcher direct sends, playback engine frames, the emergency-stop
// pre-emption). Recv is never called concurrently - only the ingestion
// loop calls it - so it is not guarded by sendMu; the mutex is held only
// across Send, and is never held across a Recv call.
type Adapter struct {
	backend Backend

	stateMu sync.Mutex
	state   State

	sendMu sync.Mutex

	ifName  string
	channel string
	bitrate int
}

// NewAdapter wraps backend in a fresh, Closed adapter.
func NewAdapter(backend Backend) *Adapter {
	return &Adapter{backend: backend, state: StateClosed}
}

// State reports the adapter's current lifecycle state.
func (a *Adapter) State() State {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	return a.state
}

// Open transitions Closed -> Opening -> Open. Calling Open while already
// open or mid-transition returns ErrAlreadyOpen.
func (a *Adapter) Open(ifName, channel string, bitrate int) error {
	a.stateMu.Lock()
	if a.state != StateClosed {
		a.stateMu.Unlock()
		return ErrAlreadyOpen
	}
	a.state = StateOpening
	a.stateMu.Unlock()

	if err := a.backend.Open(ifName, channel, bitrate); err != nil {
		a.stateMu.Lock()
		a.state = StateClosed
		a.stateMu.Unlock()
		return fmt.Errorf("%w: interface %s: %v", ErrBusOpen, ifName, err)
	}

	a.stateMu.Lock()
	a.state = StateOpen
	a.ifName, a.channel, a.bitrate = ifName, channel, bitrate
	a.stateMu.Unlock()
	return nil
}

// Close transitions Open -> Closing -> Closed. Close on an already
// closed adapter is a no-op.
func (a *Adapter) Close() error {
	a.stateMu.Lock()
	if a.state == StateClosed {
		a.stateMu.Unlock()
		return nil
	}
	a.state = StateClosing
	a.stateMu.Unlock()

	err := a.backend.Close()

	a.stateMu.Lock()
	a.state = StateClosed
	a.stateMu.Unlock()
	return err
}

// Recv blocks for the next inbound frame. Must only ever be called from
// the ingestion loop goroutine.
func (a *Adapter) Recv(ctx context.Context) (Frame, error) {
	if a.State() != StateOpen {
		return Frame{}, ErrNotOpen
	}
	frame, err := a.backend.Recv(ctx)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrBusRecv, err)
	}
	return frame, nil
}

// Send transmits a frame, serialized against every other sender via
// sendMu. Never call this while holding a lock the ingestion loop's
// Recv could block on.
func (a *Adapter) Send(f Frame) error {
	if a.State() != StateOpen {
		return ErrNotOpen
	}
	a.sendMu.Lock()
	defer a.sendMu.Unlock()

	if err := a.backend.Send(f); err != nil {
		return fmt.Errorf("%w: %v", ErrBusSend, err)
	}
	return nil
}

// CurrentConfig reports the interface/channel/bitrate the adapter was
// last opened with, used by the config reconciler to detect changes
// that require a hot-restart.
func (a *Adapter) CurrentConfig() (ifName, channel string, bitrate int) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	return a.ifName, a.channel, a.bitrate
}
