package pgn_test

import (
	"testing"
	"time"

	"github.com/nmeactl/can-controller-node/internal/arbitration"
	"github.com/nmeactl/can-controller-node/internal/pgn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRudderWorkedExample(t *testing.T) {
	id := arbitration.Decode(0x19F10D91)
	data := []byte{0x00, 0x00, 0xD0, 0x07, 0x20, 0x03, 0xFF, 0xFF}

	msg, err := pgn.Decode(id, data, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, pgn.CategorySteering, msg.Category)
	assert.Equal(t, uint32(127245), msg.PGN)
	require.Len(t, msg.Fields, 4)

	assert.Equal(t, "instance", msg.Fields[0].ID)
	assert.Equal(t, int64(0), msg.Fields[0].Value.Int)

	assert.Equal(t, "direction_order", msg.Fields[1].ID)
	assert.Equal(t, "No Order", msg.Fields[1].Value.EnumName)

	assert.Equal(t, "angle_order", msg.Fields[2].ID)
	assert.InDelta(t, 0.2000, msg.Fields[2].Value.Float, 1e-9)

	assert.Equal(t, "position", msg.Fields[3].ID)
	assert.InDelta(t, 0.0800, msg.Fields[3].Value.Float, 1e-9)
}

func TestDecodeShortDLCYieldsNullFields(t *testing.T) {
	id := arbitration.ID{PGN: 127245}
	msg, err := pgn.Decode(id, []byte{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, msg.Fields, 4)
	for _, f := range msg.Fields {
		assert.True(t, f.Value.IsNull(), "field %s should be null for empty DLC", f.ID)
		assert.Nil(t, f.RawValue)
	}
}

func TestDecodeUnknownPGNYieldsEmptyUnknownMessage(t *testing.T) {
	id := arbitration.ID{PGN: 999999}
	msg, err := pgn.Decode(id, []byte{1, 2, 3, 4, 5, 6, 7, 8}, time.Time{})
	assert.ErrorIs(t, err, pgn.ErrUnknownPGN)
	assert.Equal(t, pgn.CategoryUnknown, msg.Category)
	assert.Empty(t, msg.Fields)
}

func TestDecodeAllOnesSentinelIsNull(t *testing.T) {
	id := arbitration.ID{PGN: 127245}
	data := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	msg, err := pgn.Decode(id, data, time.Time{})
	require.NoError(t, err)
	for _, f := range msg.Fields {
		assert.True(t, f.Value.IsNull(), "field %s should be null under all-ones sentinel", f.ID)
	}
}

func TestDecodeAddressClaimSystemInstanceAndIndustryGroup(t *testing.T) {
	id := arbitration.ID{PGN: 60928}
	data := []byte{0x99, 0xad, 0x22, 0x22, 0x00, 0xa0, 0x64, 0xc0}

	msg, err := pgn.Decode(id, data, time.Time{})
	require.NoError(t, err)

	byID := make(map[string]pgn.FieldRecord, len(msg.Fields))
	for _, f := range msg.Fields {
		byID[f.ID] = f
	}

	// industry_group 4 is "Marine" under NMEA2000 - every field in this
	// table belongs to a marine device, so a non-4 result here means the
	// bit offsets have drifted off the NAME field layout.
	require.Contains(t, byID, "system_instance")
	require.Contains(t, byID, "industry_group")
	assert.Equal(t, int64(0), byID["system_instance"].Value.Int)
	assert.Equal(t, int64(4), byID["industry_group"].Value.Int)
}

func TestClassifyUnknownPGN(t *testing.T) {
	assert.Equal(t, pgn.CategoryUnknown, pgn.Classify(1))
}

func TestClassifyEveryTablePGNHasACategory(t *testing.T) {
	for pgnNumber := range pgn.Table {
		assert.NotEqual(t, pgn.CategoryUnknown, pgn.Classify(pgnNumber), "PGN %d should classify", pgnNumber)
	}
}
