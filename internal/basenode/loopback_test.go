package basenode_test

import (
	"context"
	"testing"
	"time"

	"github.com/nmeactl/can-controller-node/internal/basenode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopbackTransportDeliversToRegisteredPeer(t *testing.T) {
	node := basenode.NewLoopbackTransport("node-1")
	master := basenode.NewLoopbackTransport("master-core")
	node.RegisterPeer("master-core", master)

	msg, err := basenode.NewMessage(basenode.MessageTypeHeartbeat, basenode.PriorityNormal, "node-1", "master-core", map[string]string{"status": "ok"}, time.Now())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, node.Send(ctx, "master-core", msg))

	select {
	case got := <-master.Subscribe():
		assert.Equal(t, msg.MessageID, got.MessageID)
		assert.Equal(t, basenode.MessageTypeHeartbeat, got.Type)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}

func TestLoopbackTransportUnknownDestination(t *testing.T) {
	node := basenode.NewLoopbackTransport("node-1")
	msg, err := basenode.NewMessage(basenode.MessageTypeData, basenode.PriorityNormal, "node-1", "nowhere", nil, time.Now())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err = node.Send(ctx, "nowhere", msg)
	assert.Error(t, err)
}

func TestNewMessageMarshalsPayload(t *testing.T) {
	msg, err := basenode.NewMessage(basenode.MessageTypeCommand, basenode.PriorityHigh, "master-core", "node-1", map[string]int{"x": 1}, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, msg.MessageID)
	assert.JSONEq(t, `{"x":1}`, string(msg.Payload))
}
