// Package arbitration splits and combines the 29-bit extended CAN
// arbitration ID used by J1939/NMEA2000 into its priority, PGN, source
// and destination fields.
package arbitration

// AddressGlobal is the broadcast/global destination address (0xFF),
// used for PDU2 (broadcast) PGNs which carry no destination field.
const AddressGlobal uint8 = 0xFF

// ID is the decomposed form of a 29-bit CAN arbitration ID.
type ID struct {
	Priority    uint8  // 0-7
	PGN         uint32 // 0-262143 (18 bit)
	Source      uint8
	Destination uint8
}

// Decode splits a 29-bit CAN arbitration ID into priority, PGN, source
// and destination, following the J1939 PDU1/PDU2 rule: PF<240 (PDU1) is
// destination-specific and the PS byte is the destination; PF>=240
// (PDU2) is broadcast/group and the PGN absorbs the PS byte while
// destination is forced to the global address.
func Decode(canID uint32) ID {
	result := ID{
		Priority: uint8((canID >> 26) & 0x7),
		Source:   uint8(canID),
	}
	ps := uint8(canID >> 8)
	pf := uint8(canID >> 16)
	dataPage := uint8(canID>>24) & 0x3
	pgn := uint32(dataPage)<<16 | uint32(pf)<<8

	if pf < 240 {
		result.Destination = ps
		result.PGN = pgn
	} else {
		result.Destination = AddressGlobal
		result.PGN = pgn + uint32(ps)
	}
	return result
}

// Encode recombines an ID back into a 29-bit CAN arbitration ID. For a
// PDU1 PGN (PF<240) Destination is written into the PS byte; for a PDU2
// PGN (PF>=240) the PGN's own low byte fills PS and Destination is
// ignored.
func (id ID) Encode() uint32 {
	canID := uint32(id.Source)
	pf := uint8(id.PGN >> 8)
	if pf < 240 {
		canID |= uint32(id.Destination) << 8
	}
	canID |= id.PGN << 8
	canID |= uint32(id.Priority&0x7) << 26
	return canID
}

// IsPDU1 reports whether pgn's PDU Format byte classifies it as
// destination-specific (PF<240) rather than broadcast/group (PF>=240).
func IsPDU1(pgn uint32) bool {
	return uint8(pgn>>8) < 240
}
