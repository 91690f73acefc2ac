package canbus_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nmeactl/can-controller-node/internal/canbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapterOpenCloseLifecycle(t *testing.T) {
	a := canbus.NewAdapter(canbus.NewSimulatedBackend())
	assert.Equal(t, canbus.StateClosed, a.State())

	require.NoError(t, a.Open("can0", "", 250000))
	assert.Equal(t, canbus.StateOpen, a.State())

	require.NoError(t, a.Close())
	assert.Equal(t, canbus.StateClosed, a.State())
}

func TestAdapterOpenTwiceFails(t *testing.T) {
	a := canbus.NewAdapter(canbus.NewSimulatedBackend())
	require.NoError(t, a.Open("can0", "", 250000))
	assert.ErrorIs(t, a.Open("can0", "", 250000), canbus.ErrAlreadyOpen)
}

func TestAdapterSendRecvBeforeOpenFails(t *testing.T) {
	a := canbus.NewAdapter(canbus.NewSimulatedBackend())
	assert.ErrorIs(t, a.Send(canbus.Frame{}), canbus.ErrNotOpen)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := a.Recv(ctx)
	assert.ErrorIs(t, err, canbus.ErrNotOpen)
}

func TestAdapterSendIsSerializedAcrossConcurrentCallers(t *testing.T) {
	backend := canbus.NewSimulatedBackend()
	a := canbus.NewAdapter(backend)
	require.NoError(t, a.Open("can0", "", 250000))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = a.Send(canbus.Frame{ID: uint32(i), Data: []byte{byte(i)}})
		}(i)
	}
	wg.Wait()

	assert.Len(t, backend.Sent(), 50)
}

func TestAdapterRecvDeliversInjectedFrame(t *testing.T) {
	backend := canbus.NewSimulatedBackend()
	a := canbus.NewAdapter(backend)
	require.NoError(t, a.Open("can0", "", 250000))

	want := canbus.Frame{ID: 0x19F70D91, Data: []byte{1, 2, 3}}
	backend.Inject(want)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	got, err := a.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Data, got.Data)
}

func TestAdapterCurrentConfigReflectsLastOpen(t *testing.T) {
	a := canbus.NewAdapter(canbus.NewSimulatedBackend())
	require.NoError(t, a.Open("can1", "A", 250000))
	ifName, channel, bitrate := a.CurrentConfig()
	assert.Equal(t, "can1", ifName)
	assert.Equal(t, "A", channel)
	assert.Equal(t, 250000, bitrate)
}
