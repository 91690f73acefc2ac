package canbus

import "errors"

var (
	// ErrBusOpen is returned (wrapped) when opening the underlying
	// platform CAN binding fails.
	ErrBusOpen = errors.New("canbus: failed to open bus")
	// ErrBusSend is returned (wrapped) when writing a frame to the bus
	// fails.
	ErrBusSend = errors.New("canbus: failed to send frame")
	// ErrBusRecv is returned (wrapped) when reading a frame from the
	// bus fails for a reason other than the read-timeout poll.
	ErrBusRecv = errors.New("canbus: failed to receive frame")
	// ErrNotOpen is returned by Send/Recv when the adapter is not in
	// StateOpen.
	ErrNotOpen = errors.New("canbus: adapter is not open")
	// ErrAlreadyOpen is returned by Open when the adapter is already
	// open or mid-transition.
	ErrAlreadyOpen = errors.New("canbus: adapter already open")
)
