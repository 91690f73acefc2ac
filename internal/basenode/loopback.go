package basenode

import (
	"context"
	"fmt"
	"sync"
)

// LoopbackTransport is an in-memory Transport implementation: Send
// delivers straight into a registered peer's inbound channel with no
// serialization, network, or framing. It satisfies the same interface
// as UDPTransport so ingestion/dispatch/heartbeat code can be tested
// without opening real sockets.
type LoopbackTransport struct {
	mu    sync.RWMutex
	peers map[string]chan Message

	inbound chan Message
	name    string
}

// NewLoopbackTransport returns a transport named selfName, addressable
// by peers that register it with RegisterPeer under that name.
func NewLoopbackTransport(selfName string) *LoopbackTransport {
	return &LoopbackTransport{
		peers:   make(map[string]chan Message),
		inbound: make(chan Message, 256),
		name:    selfName,
	}
}

// RegisterPeer wires dest's transport into this one's address book so
// Send(ctx, dest, msg) can deliver directly to it.
func (t *LoopbackTransport) RegisterPeer(dest string, peer *LoopbackTransport) {
	t.mu.Lock()
	t.peers[dest] = peer.inbound
	t.mu.Unlock()
}

func (t *LoopbackTransport) Send(ctx context.Context, dest string, msg Message) error {
	t.mu.RLock()
	ch, ok := t.peers[dest]
	t.mu.RUnlock()
	if !ok {
		return fmt.Errorf("basenode: unknown destination %q", dest)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case ch <- msg:
		return nil
	}
}

func (t *LoopbackTransport) Subscribe() <-chan Message {
	return t.inbound
}

func (t *LoopbackTransport) Close() error {
	close(t.inbound)
	return nil
}
