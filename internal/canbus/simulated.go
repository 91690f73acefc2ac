package canbus

import (
	"context"
	"sync"
	"time"
)

// SimulatedBackend is an in-memory Backend: Open/Close just flip a
// connected flag, Send records the frame (see Sent), and Recv blocks on
// a channel fed by Inject. It backs non-Linux builds and unit tests,
// where no real bus is available.
type SimulatedBackend struct {
	mu        sync.Mutex
	connected bool
	ifName    string
	channel   string
	bitrate   int

	inbound chan Frame
	sent    []Frame

	timeNow func() time.Time
}

// NewSimulatedBackend returns a disconnected simulated backend with
// room for up to 256 buffered inbound frames before Inject blocks.
func NewSimulatedBackend() *SimulatedBackend {
	return &SimulatedBackend{
		inbound: make(chan Frame, 256),
		timeNow: time.Now,
	}
}

func (s *SimulatedBackend) Open(ifName, channel string, bitrate int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = true
	s.ifName, s.channel, s.bitrate = ifName, channel, bitrate
	return nil
}

func (s *SimulatedBackend) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	return nil
}

// Send records the frame for test assertions and is a no-op otherwise:
// nothing on a simulated bus actually receives it unless a test calls
// Inject to loop it back.
func (s *SimulatedBackend) Send(f Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, f)
	return nil
}

// Sent returns every frame handed to Send so far, for test assertions.
func (s *SimulatedBackend) Sent() []Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Frame, len(s.sent))
	copy(out, s.sent)
	return out
}

// Inject queues f to be returned by the next Recv call, simulating an
// inbound frame arriving on the bus. Used by tests.
func (s *SimulatedBackend) Inject(f Frame) {
	s.inbound <- f
}

func (s *SimulatedBackend) Recv(ctx context.Context) (Frame, error) {
	select {
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	case f := <-s.inbound:
		if f.Time.IsZero() {
			f.Time = s.timeNow()
		}
		return f, nil
	}
}
