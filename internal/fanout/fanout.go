// Package fanout maintains the set of subscriber peers this node
// multicasts decoded telemetry to, and delivers each decoded message to
// every current subscriber.
package fanout

import (
	"context"
	"sync"
	"time"

	"github.com/nmeactl/can-controller-node/internal/basenode"
	"github.com/nmeactl/can-controller-node/internal/pgn"
)

// Registry is a mutex-guarded set of subscriber peer names.
type Registry struct {
	mutex       sync.Mutex
	subscribers map[string]struct{}
}

// NewRegistry returns an empty subscriber registry.
func NewRegistry() *Registry {
	return &Registry{subscribers: make(map[string]struct{})}
}

// Subscribe adds name to the set of peers that receive fan-out
// deliveries. Adding an already-subscribed name is a no-op.
func (r *Registry) Subscribe(name string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.subscribers[name] = struct{}{}
}

// Unsubscribe removes name from the subscriber set.
func (r *Registry) Unsubscribe(name string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.subscribers, name)
}

// Subscribers returns a snapshot of the current subscriber names.
func (r *Registry) Subscribers() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	names := make([]string, 0, len(r.subscribers))
	for name := range r.subscribers {
		names = append(names, name)
	}
	return names
}

// Fanout delivers a decoded message to every current subscriber over
// transport. A delivery failure to one subscriber does not stop
// delivery to the rest; all errors are returned together.
func Fanout(ctx context.Context, transport basenode.Transport, registry *Registry, msg pgn.DecodedMessage, source string, now time.Time) []error {
	names := registry.Subscribers()
	if len(names) == 0 {
		return nil
	}

	envelope, err := basenode.NewMessage(basenode.MessageTypeData, basenode.PriorityNormal, source, "", msg, now)
	if err != nil {
		return []error{err}
	}

	var errs []error
	for _, dest := range names {
		envelope.Destination = dest
		if err := transport.Send(ctx, dest, envelope); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
