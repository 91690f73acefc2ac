package pgn

import (
	"time"

	"github.com/nmeactl/can-controller-node/internal/bitfield"
)

// FieldKind tags how a Field's raw bits are turned into a Value.
type FieldKind uint8

const (
	FieldUint FieldKind = iota
	FieldInt
	FieldEnum
	FieldDate
	FieldTimeOfDay
	FieldBytes
)

// Field describes one bit-packed member of a PGN payload: its position,
// width, sign, scaling and how its raw bits map onto a Value. This
// mirrors the shape of canboat's Field (ID/BitOffset/BitLength/Resolution)
// but is a plain Go literal table instead of a JSON-schema load, since
// the set of recognized PGNs here is fixed and small.
type Field struct {
	ID         string
	BitOffset  uint16
	BitLength  uint16
	Kind       FieldKind
	Resolution float64 // multiplied into the raw integer for Int/Float-shaped fields
	Unit       string
	Enum       map[uint64]string // populated for Kind == FieldEnum
}

// Decode extracts this field's Value out of data. A short frame (DLC
// less than this field needs) or an all-ones raw sentinel both decode to
// Value{Kind: KindNull}, per the "missing data" convention used
// throughout NMEA2000.
func (f Field) Decode(data []byte) FieldRecord {
	rec := FieldRecord{ID: f.ID, UnitOfMeasurement: f.Unit, Value: Null}

	allOnes, err := bitfield.Data(data).IsAllOnes(f.BitOffset, f.BitLength)
	if err != nil {
		return rec // out of bounds for this DLC: stays null
	}
	if allOnes {
		return rec
	}

	raw, err := bitfield.Data(data).Uint(f.BitOffset, f.BitLength)
	if err != nil {
		return rec
	}
	rec.RawValue = &raw

	switch f.Kind {
	case FieldUint:
		v := float64(raw)
		if f.Resolution != 0 {
			v *= f.Resolution
		}
		if f.Resolution == 0 || f.Resolution == 1 {
			rec.Value = IntValue(int64(raw))
		} else {
			rec.Value = FloatValue(v)
		}
	case FieldInt:
		signed, serr := bitfield.Data(data).Int(f.BitOffset, f.BitLength)
		if serr != nil {
			return rec
		}
		v := float64(signed)
		if f.Resolution != 0 {
			v *= f.Resolution
		}
		if f.Resolution == 0 || f.Resolution == 1 {
			rec.Value = IntValue(signed)
		} else {
			rec.Value = FloatValue(v)
		}
	case FieldEnum:
		name, ok := f.Enum[raw]
		if !ok {
			name = "UNKNOWN"
		}
		rec.Value = EnumValue(raw, name)
	case FieldDate:
		// days since 1970-01-01, per NMEA2000 date encoding
		rec.Value = DateValue(time.Unix(0, 0).UTC().AddDate(0, 0, int(raw)))
	case FieldTimeOfDay:
		// raw is in units of 0.0001s since midnight
		rec.Value = TimeValue(time.Duration(raw) * 100 * time.Microsecond)
	case FieldBytes:
		b, berr := bitfield.Data(data).Bytes(f.BitOffset, f.BitLength)
		if berr != nil {
			return rec
		}
		rec.Value = BytesValue(b)
	}
	return rec
}
