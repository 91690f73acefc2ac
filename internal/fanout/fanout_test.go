package fanout_test

import (
	"context"
	"testing"
	"time"

	"github.com/nmeactl/can-controller-node/internal/basenode"
	"github.com/nmeactl/can-controller-node/internal/fanout"
	"github.com/nmeactl/can-controller-node/internal/pgn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrySubscribeUnsubscribe(t *testing.T) {
	r := fanout.NewRegistry()
	r.Subscribe("peer-a")
	r.Subscribe("peer-b")
	r.Subscribe("peer-a") // duplicate is a no-op

	assert.ElementsMatch(t, []string{"peer-a", "peer-b"}, r.Subscribers())

	r.Unsubscribe("peer-a")
	assert.ElementsMatch(t, []string{"peer-b"}, r.Subscribers())
}

func TestFanoutDeliversToAllSubscribers(t *testing.T) {
	node := basenode.NewLoopbackTransport("node-1")
	peerA := basenode.NewLoopbackTransport("peer-a")
	peerB := basenode.NewLoopbackTransport("peer-b")
	node.RegisterPeer("peer-a", peerA)
	node.RegisterPeer("peer-b", peerB)

	r := fanout.NewRegistry()
	r.Subscribe("peer-a")
	r.Subscribe("peer-b")

	msg := pgn.DecodedMessage{PGN: 127245, Category: pgn.CategorySteering}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	errs := fanout.Fanout(ctx, node, r, msg, "node-1", time.Now())
	require.Empty(t, errs)

	select {
	case got := <-peerA.Subscribe():
		assert.Equal(t, basenode.MessageTypeData, got.Type)
	case <-time.After(time.Second):
		t.Fatal("peer-a did not receive message")
	}
	select {
	case <-peerB.Subscribe():
	case <-time.After(time.Second):
		t.Fatal("peer-b did not receive message")
	}
}

func TestFanoutWithNoSubscribersIsNoop(t *testing.T) {
	node := basenode.NewLoopbackTransport("node-1")
	r := fanout.NewRegistry()
	errs := fanout.Fanout(context.Background(), node, r, pgn.DecodedMessage{}, "node-1", time.Now())
	assert.Empty(t, errs)
}
