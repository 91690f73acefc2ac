package pgn

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// ValueKind tags the variant held by a Value.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindInt
	KindFloat
	KindBytes
	KindEnum
	KindDate
	KindTime
)

// Value is the heterogeneous field value: a closed, tagged variant
// rather than an untyped interface{}, so each PGN field decodes to
// exactly one of these shapes.
type Value struct {
	Kind ValueKind

	Int   int64
	Float float64
	Bytes []byte

	EnumRaw  uint64
	EnumName string

	// Date is days-since-epoch for KindDate, wall-clock for convenience.
	Date time.Time
	// Time is time-of-day (since midnight) for KindTime.
	Time time.Duration
}

// Null is the zero Value: a field whose raw bits were the "not
// available" sentinel, or that could not be extracted (short DLC).
var Null = Value{Kind: KindNull}

func IntValue(v int64) Value      { return Value{Kind: KindInt, Int: v} }
func FloatValue(v float64) Value  { return Value{Kind: KindFloat, Float: v} }
func BytesValue(v []byte) Value   { return Value{Kind: KindBytes, Bytes: v} }
func DateValue(t time.Time) Value { return Value{Kind: KindDate, Date: t} }
func TimeValue(d time.Duration) Value {
	return Value{Kind: KindTime, Time: d}
}
func EnumValue(raw uint64, name string) Value {
	return Value{Kind: KindEnum, EnumRaw: raw, EnumName: name}
}

// IsNull reports whether the value carries no data.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// MarshalJSON renders each variant in the shape appropriate to it.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindInt:
		return json.Marshal(v.Int)
	case KindFloat:
		return json.Marshal(v.Float)
	case KindBytes:
		return json.Marshal(base64.StdEncoding.EncodeToString(v.Bytes))
	case KindEnum:
		return json.Marshal(struct {
			Raw  uint64 `json:"raw"`
			Name string `json:"name"`
		}{v.EnumRaw, v.EnumName})
	case KindDate:
		return json.Marshal(v.Date.Format("2006-01-02"))
	case KindTime:
		return json.Marshal(v.Time.String())
	default:
		return nil, fmt.Errorf("pgn: unknown value kind %d", v.Kind)
	}
}

// FieldRecord is one decoded/encoded field within a DecodedMessage.
type FieldRecord struct {
	ID                string `json:"id"`
	RawValue          *uint64 `json:"raw_value"`
	Value             Value   `json:"value"`
	UnitOfMeasurement string  `json:"unit_of_measurement"`
}

// Title concatenates a FieldRecord list's ids with "-".
func Title(fields []FieldRecord) string {
	s := ""
	for i, f := range fields {
		if i > 0 {
			s += "-"
		}
		s += f.ID
	}
	return s
}
