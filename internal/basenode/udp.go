package basenode

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net"
	"sync"
)

// UDPTransport is a Transport backed by a single UDP socket used for
// both listening and sending, adapted from the listen/send duality in
// EdgeFlow's pkg/nodes/network UDPExecutor: one socket, one read loop
// feeding a buffered inbound channel, and a read-write mutex guarding
// the peer address book. Sends themselves are not serialized.
type UDPTransport struct {
	conn *net.UDPConn

	mu    sync.RWMutex
	peers map[string]*net.UDPAddr

	inbound chan Message
	done    chan struct{}
}

const udpReadBufferSize = 8192

// NewUDPTransport opens a UDP socket on the given local port and starts
// its read loop. Peers (Master Core, subscribers) are added afterwards
// with RegisterPeer.
func NewUDPTransport(listenPort int) (*UDPTransport, error) {
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf(":%d", listenPort))
	if err != nil {
		return nil, fmt.Errorf("basenode: resolve listen address: %w", err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("basenode: listen: %w", err)
	}

	t := &UDPTransport{
		conn:    conn,
		peers:   make(map[string]*net.UDPAddr),
		inbound: make(chan Message, 256),
		done:    make(chan struct{}),
	}
	go t.readLoop()
	return t, nil
}

// RegisterPeer associates a destination name (Master Core, or a
// subscriber peer id) with a UDP address Send can reach it at.
func (t *UDPTransport) RegisterPeer(name, hostPort string) error {
	addr, err := net.ResolveUDPAddr("udp", hostPort)
	if err != nil {
		return fmt.Errorf("basenode: resolve peer %s address: %w", name, err)
	}
	t.mu.Lock()
	t.peers[name] = addr
	t.mu.Unlock()
	return nil
}

func (t *UDPTransport) Send(ctx context.Context, dest string, msg Message) error {
	t.mu.RLock()
	addr, ok := t.peers[dest]
	t.mu.RUnlock()
	if !ok {
		return fmt.Errorf("basenode: unknown destination %q", dest)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("basenode: marshal message: %w", err)
	}

	framed := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(framed[:4], uint32(len(body)))
	copy(framed[4:], body)

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	_, err = t.conn.WriteToUDP(framed, addr)
	if err != nil {
		return fmt.Errorf("basenode: write to %s: %w", dest, err)
	}
	return nil
}

func (t *UDPTransport) Subscribe() <-chan Message {
	return t.inbound
}

func (t *UDPTransport) Close() error {
	close(t.done)
	err := t.conn.Close()
	close(t.inbound)
	return err
}

func (t *UDPTransport) readLoop() {
	buf := make([]byte, udpReadBufferSize)
	for {
		select {
		case <-t.done:
			return
		default:
		}

		n, _, err := t.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-t.done:
				return
			default:
				continue
			}
		}
		if n < 4 {
			continue
		}
		length := binary.BigEndian.Uint32(buf[:4])
		if int(length) > n-4 {
			continue // truncated datagram, drop
		}

		var msg Message
		if err := json.Unmarshal(buf[4:4+length], &msg); err != nil {
			continue
		}

		select {
		case t.inbound <- msg:
		default:
			// inbound channel full: drop rather than block the read loop
		}
	}
}
