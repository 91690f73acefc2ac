package pgn

import (
	"fmt"
	"math"

	"github.com/nmeactl/can-controller-node/internal/arbitration"
	"github.com/nmeactl/can-controller-node/internal/bitfield"
)

// PGNRudder is the PGN used by EncodeRudder and decoded by Table[127245].
const PGNRudder = 127245

// rudderResolution is the 0.0001 rad/bit scaling of the 16-bit signed
// angle_order and position fields in PGN 127245. Values outside the
// representable int16 range are clamped rather than wrapped or
// rejected, since a steering command that overshoots hardware limits
// should still reach the actuator at its physical max.
const rudderResolution = 0.0001

// DirectionOrder mirrors PGN 127245's 3-bit direction_order enum.
type DirectionOrder uint8

const (
	DirectionOrderNone       DirectionOrder = 0
	DirectionOrderStarboard  DirectionOrder = 1
	DirectionOrderPort       DirectionOrder = 2
)

// EncodeRudder bit-packs a PGN 127245 (Rudder) command frame: instance
// (8 bits), direction_order (3 bits) with 5 reserved bits set to 0,
// angle_order and position (16-bit signed, 0.0001 rad resolution, each
// clamped to the field's representable range), and a final 16 reserved
// bits set to all-ones (no data). Returns the 29-bit arbitration ID and
// the 8-byte payload.
func EncodeRudder(instance uint8, direction DirectionOrder, angleOrderRad, positionRad float64, source uint8, priority uint8) (uint32, []byte) {
	data := make([]byte, 8)
	data[0] = instance
	_ = bitfield.PutUint(data, 8, 3, uint64(direction))
	// bits 11-15 of byte 1 stay reserved/zero

	angleRaw := clampToInt16(angleOrderRad / rudderResolution)
	posRaw := clampToInt16(positionRad / rudderResolution)
	_ = bitfield.PutUint(data, 16, 16, uint64(uint16(angleRaw)))
	_ = bitfield.PutUint(data, 32, 16, uint64(uint16(posRaw)))
	_ = bitfield.PutUint(data, 48, 16, 0xFFFF)

	id := arbitration.ID{Priority: priority, PGN: PGNRudder, Source: source, Destination: arbitration.AddressGlobal}
	return id.Encode(), data
}

func clampToInt16(v float64) int16 {
	rounded := math.Round(v)
	if rounded > math.MaxInt16 {
		return math.MaxInt16
	}
	if rounded < math.MinInt16 {
		return math.MinInt16
	}
	return int16(rounded)
}

// EmergencyArbitrationID is the standard (non-extended) 11-bit CAN ID
// used for the emergency-stop frame.
const EmergencyArbitrationID = 0x1FF

// EncodeEmergencyStop returns the fixed 8-byte all-ones payload sent on
// EmergencyArbitrationID to trigger an immediate stop.
func EncodeEmergencyStop() []byte {
	data := make([]byte, 8)
	for i := range data {
		data[i] = 0xFF
	}
	return data
}

// EncodeJ1939 builds a generic outbound J1939/NMEA2000 frame: caller
// supplies the already-encoded payload (e.g. from a dispatcher's
// send_j1939 command) and a destination address, used only when
// pgnNumber is a PDU1 (destination-specific) PGN. data must be 0-8
// bytes.
func EncodeJ1939(pgnNumber uint32, source, destination uint8, priority uint8, data []byte) (uint32, []byte, error) {
	if len(data) > 8 {
		return 0, nil, fmt.Errorf("pgn: payload length %d exceeds 8 bytes", len(data))
	}
	id := arbitration.ID{Priority: priority, PGN: pgnNumber, Source: source, Destination: arbitration.AddressGlobal}
	if arbitration.IsPDU1(pgnNumber) {
		id.Destination = destination
	}
	return id.Encode(), data, nil
}
