package pgn

import (
	"errors"
	"time"

	"github.com/nmeactl/can-controller-node/internal/arbitration"
)

// ErrUnknownPGN is returned by Decode when the frame's PGN has no entry
// in Table. Callers still forward the raw frame; an unknown PGN is not
// a decode failure, just an empty field set.
var ErrUnknownPGN = errors.New("pgn: unknown PGN")

// DecodedMessage is a fully classified, field-decoded CAN frame, ready
// to be forwarded to Master Core and fanned out to subscribers.
type DecodedMessage struct {
	Timestamp   time.Time
	PGN         uint32
	Priority    uint8
	Source      uint8
	Destination uint8
	Category    Category
	Fields      []FieldRecord
}

// Decode classifies and field-decodes a raw CAN frame payload. id is the
// already-split arbitration.ID (the caller runs the Arbitration-ID
// Codec first); data is the frame payload, 0-8 bytes.
//
// An unrecognized PGN yields a DecodedMessage with Category Unknown and
// an empty Fields slice, plus ErrUnknownPGN, rather than failing: the
// ingestion loop still forwards the raw frame in that case.
func Decode(id arbitration.ID, data []byte, at time.Time) (DecodedMessage, error) {
	msg := DecodedMessage{
		Timestamp:   at,
		PGN:         id.PGN,
		Priority:    id.Priority,
		Source:      id.Source,
		Destination: id.Destination,
		Category:    Classify(id.PGN),
	}

	def, ok := Table[id.PGN]
	if !ok {
		return msg, ErrUnknownPGN
	}

	fields := make([]FieldRecord, 0, len(def.Fields))
	for _, f := range def.Fields {
		fields = append(fields, f.Decode(data))
	}
	msg.Fields = fields
	return msg, nil
}
