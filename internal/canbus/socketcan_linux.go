//go:build linux

package canbus

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

const (
	canRawProtocol = 1

	canIDEFFFlag = uint32(1 << 31) // extended frame format
	canIDRTRFlag = uint32(1 << 30)
	canIDERRFlag = uint32(1 << 29)
	canIDMask    = uint32(0x1FFFFFFF)
)

// SocketCANBackend binds to a Linux SocketCAN raw AF_CAN socket. This is
// the production Backend on the target platform: an AF_CAN/SOCK_RAW
// socket bound to a named interface, frames marshalled to/from the
// 16-byte struct can_frame wire layout.
type SocketCANBackend struct {
	fd      int
	timeNow func() time.Time

	recvPollInterval time.Duration
}

// NewSocketCANBackend returns a Backend bound to the SocketCAN raw
// socket family. bitrate is accepted for interface symmetry but is not
// settable from userspace for an already-configured SocketCAN
// interface; the bus bitrate is a kernel/netlink (`ip link set ... type
// can bitrate ...`) concern outside this process's privilege.
func NewSocketCANBackend() *SocketCANBackend {
	return &SocketCANBackend{timeNow: time.Now, recvPollInterval: 50 * time.Millisecond}
}

func (b *SocketCANBackend) Open(ifName, _ string, _ int) error {
	ifi, err := net.InterfaceByName(ifName)
	if err != nil {
		return fmt.Errorf("unknown interface %s: %w", ifName, err)
	}

	fd, err := unix.Socket(unix.AF_CAN, unix.SOCK_RAW, canRawProtocol)
	if err != nil {
		return fmt.Errorf("could not create CAN socket: %w", err)
	}

	if err := unix.Bind(fd, &unix.SockaddrCAN{Ifindex: ifi.Index}); err != nil {
		_ = unix.Close(fd)
		return fmt.Errorf("could not bind CAN socket to %s: %w", ifName, err)
	}

	b.fd = fd
	return nil
}

func (b *SocketCANBackend) Close() error {
	return unix.Close(b.fd)
}

func (b *SocketCANBackend) Send(f Frame) error {
	wire := make([]byte, 16)
	canID := f.ID & canIDMask
	if f.Extended {
		canID |= canIDEFFFlag
	}
	binary.LittleEndian.PutUint32(wire[0:4], canID)
	wire[4] = uint8(len(f.Data))
	copy(wire[8:], f.Data)

	_, err := unix.Write(b.fd, wire)
	return err
}

func isContinuableSocketErr(err error) bool {
	return errors.Is(err, syscall.EWOULDBLOCK) || errors.Is(err, syscall.EINTR)
}

func (b *SocketCANBackend) Recv(ctx context.Context) (Frame, error) {
	for {
		select {
		case <-ctx.Done():
			return Frame{}, ctx.Err()
		default:
		}

		tv := unix.NsecToTimeval(b.recvPollInterval.Nanoseconds())
		if err := unix.SetsockoptTimeval(b.fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
			return Frame{}, err
		}

		wire := make([]byte, 16)
		_, err := unix.Read(b.fd, wire)
		if err != nil {
			if isContinuableSocketErr(err) {
				continue
			}
			return Frame{}, err
		}

		canID := binary.LittleEndian.Uint32(wire[0:4])
		if canID&canIDRTRFlag != 0 {
			continue // remote transmission request frames carry no payload
		}
		if canID&canIDERRFlag != 0 {
			continue // bus error frames are not telemetry
		}

		length := wire[4]
		data := make([]byte, length)
		copy(data, wire[8:8+length])

		return Frame{
			Time:     b.timeNow(),
			ID:       canID & canIDMask,
			Extended: canID&canIDEFFFlag != 0,
			Data:     data,
		}, nil
	}
}
