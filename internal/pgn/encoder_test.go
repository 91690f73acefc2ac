package pgn_test

import (
	"math"
	"testing"
	"time"

	"github.com/nmeactl/can-controller-node/internal/arbitration"
	"github.com/nmeactl/can-controller-node/internal/pgn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRudderRoundTrip(t *testing.T) {
	canID, data := pgn.EncodeRudder(0, pgn.DirectionOrderNone, 0.2000, 0.0800, 0x91, 6)
	assert.Equal(t, uint32(0x19F10D91), canID)
	assert.Equal(t, []byte{0x00, 0x00, 0xD0, 0x07, 0x20, 0x03, 0xFF, 0xFF}, data)

	id := arbitration.Decode(canID)
	msg, err := pgn.Decode(id, data, time.Time{})
	require.NoError(t, err)
	assert.InDelta(t, 0.2000, msg.Fields[2].Value.Float, 1e-9)
	assert.InDelta(t, 0.0800, msg.Fields[3].Value.Float, 1e-9)
}

func TestEncodeRudderClampsToInt16Range(t *testing.T) {
	// 10 rad is well past the +-3.2767 rad representable by a 16-bit
	// signed 0.0001 rad/bit field, so both directions must clamp.
	_, data := pgn.EncodeRudder(0, pgn.DirectionOrderNone, 10.0, -10.0, 0x91, 6)

	id := arbitration.ID{PGN: pgn.PGNRudder}
	msg, err := pgn.Decode(id, data, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, uint64(math.MaxInt16), *msg.Fields[2].RawValue)
	// position is sign-extended from the clamped int16 minimum
	assert.InDelta(t, float64(math.MinInt16)*0.0001, msg.Fields[3].Value.Float, 1e-9)
}

func TestEncodeEmergencyStop(t *testing.T) {
	data := pgn.EncodeEmergencyStop()
	require.Len(t, data, 8)
	for _, b := range data {
		assert.Equal(t, byte(0xFF), b)
	}
	assert.Equal(t, uint32(0x1FF), uint32(pgn.EmergencyArbitrationID))
}

func TestEncodeJ1939RoundTrip(t *testing.T) {
	payload := []byte{1, 2, 3, 4}
	canID, data, err := pgn.EncodeJ1939(65361, 0x91, arbitration.AddressGlobal, 6, payload)
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	decoded := arbitration.Decode(canID)
	assert.Equal(t, uint32(65361), decoded.PGN)
	assert.Equal(t, uint8(0x91), decoded.Source)
}

func TestEncodeJ1939RejectsOversizePayload(t *testing.T) {
	_, _, err := pgn.EncodeJ1939(65361, 0x91, arbitration.AddressGlobal, 6, make([]byte, 9))
	assert.Error(t, err)
}
