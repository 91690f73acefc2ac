package basenode

import "context"

// Transport is the BaseNode collaborator's contract: send a message to
// a named destination, and receive whatever arrives addressed to this
// node (Master Core pushes, peer subscriptions). Send/Subscribe may be
// called concurrently from different goroutines (the command
// dispatcher sending RESPONSEs, the heartbeat scheduler, the ingestion
// loop forwarding DATA).
type Transport interface {
	Send(ctx context.Context, dest string, msg Message) error
	// Subscribe returns a channel of inbound messages. The channel is
	// closed when Close is called.
	Subscribe() <-chan Message
	Close() error
}
