package ingestion_test

import (
	"context"
	"testing"
	"time"

	"github.com/nmeactl/can-controller-node/internal/basenode"
	"github.com/nmeactl/can-controller-node/internal/canbus"
	"github.com/nmeactl/can-controller-node/internal/fanout"
	"github.com/nmeactl/can-controller-node/internal/ingestion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopForwardsDecodedFrameToMasterCore(t *testing.T) {
	backend := canbus.NewSimulatedBackend()
	bus := canbus.NewAdapter(backend)
	require.NoError(t, bus.Open("can0", "", 250000))

	node := basenode.NewLoopbackTransport("node-1")
	master := basenode.NewLoopbackTransport("master-core")
	node.RegisterPeer("master-core", master)

	loop := &ingestion.Loop{
		Bus:        bus,
		Transport:  node,
		Registry:   fanout.NewRegistry(),
		SelfName:   "node-1",
		MasterCore: "master-core",
		TTLDays:    7,
		Now:        time.Now,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	backend.Inject(canbus.Frame{ID: 0x19F10D91, Data: []byte{0x00, 0x00, 0xD0, 0x07, 0x20, 0x03, 0xFF, 0xFF}})

	select {
	case msg := <-master.Subscribe():
		assert.Equal(t, basenode.MessageTypeData, msg.Type, "step 3 always forwards a DATA message first")
	case <-time.After(time.Second):
		t.Fatal("master core did not receive the data message")
	}

	select {
	case msg := <-master.Subscribe():
		assert.Equal(t, basenode.MessageTypeCommand, msg.Type, "step 4 additionally sends store_can_data for a known category")
	case <-time.After(time.Second):
		t.Fatal("master core did not receive store_can_data command")
	}

	cancel()
	<-done
}

func TestLoopForwardsUnknownPGNAsDataOnlyNoStoreCommand(t *testing.T) {
	backend := canbus.NewSimulatedBackend()
	bus := canbus.NewAdapter(backend)
	require.NoError(t, bus.Open("can0", "", 250000))

	node := basenode.NewLoopbackTransport("node-1")
	master := basenode.NewLoopbackTransport("master-core")
	node.RegisterPeer("master-core", master)

	loop := &ingestion.Loop{
		Bus: bus, Transport: node, Registry: fanout.NewRegistry(),
		SelfName: "node-1", MasterCore: "master-core", TTLDays: 7, Now: time.Now,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	backend.Inject(canbus.Frame{ID: (6 << 26) | (130000 << 8) | 0x91, Data: []byte{1, 2, 3, 4, 5, 6, 7, 8}})

	select {
	case msg := <-master.Subscribe():
		assert.Equal(t, basenode.MessageTypeData, msg.Type)
		assert.Contains(t, string(msg.Payload), `"error":`)
	case <-time.After(time.Second):
		t.Fatal("master core did not receive the data message for the unknown pgn")
	}

	select {
	case msg := <-master.Subscribe():
		t.Fatalf("master core should not receive a store_can_data command for an unknown pgn, got %v", msg.Type)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	<-done
}
