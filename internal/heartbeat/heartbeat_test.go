package heartbeat_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nmeactl/can-controller-node/internal/basenode"
	"github.com/nmeactl/can-controller-node/internal/heartbeat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerSendsHeartbeatToMasterCore(t *testing.T) {
	master := basenode.NewLoopbackTransport("master-core")
	node := basenode.NewLoopbackTransport("node-1")
	node.RegisterPeer("master-core", master)

	s := &heartbeat.Scheduler{
		Transport:  node,
		SelfName:   "node-1",
		MasterCore: "master-core",
		Monitoring: func() bool { return true },
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	select {
	case msg := <-master.Subscribe():
		assert.Equal(t, basenode.MessageTypeHeartbeat, msg.Type)
		assert.Equal(t, basenode.PriorityNormal, msg.Priority)
		var payload heartbeat.Payload
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		assert.Equal(t, "node-1", payload.NodeName)
		assert.True(t, payload.Monitoring)
	case <-time.After(12 * time.Second):
		t.Fatal("did not receive a heartbeat within the expected interval plus jitter")
	}
}

func TestSchedulerStopsOnContextCancel(t *testing.T) {
	master := basenode.NewLoopbackTransport("master-core")
	node := basenode.NewLoopbackTransport("node-1")
	node.RegisterPeer("master-core", master)

	s := &heartbeat.Scheduler{Transport: node, SelfName: "node-1", MasterCore: "master-core"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
