package types

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Kind is the tag of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindDecimal
	KindText
	KindBlob
	KindUUID
	KindDate
	KindTime
	KindTimestamp
	KindJSON
)

var kindNames = [...]string{
	KindNull:      "null",
	KindBool:      "bool",
	KindInt8:      "int8",
	KindInt16:     "int16",
	KindInt32:     "int32",
	KindInt64:     "int64",
	KindUint8:     "uint8",
	KindUint16:    "uint16",
	KindUint32:    "uint32",
	KindUint64:    "uint64",
	KindFloat32:   "float32",
	KindFloat64:   "float64",
	KindDecimal:   "decimal",
	KindText:      "text",
	KindBlob:      "blob",
	KindUUID:      "uuid",
	KindDate:      "date",
	KindTime:      "time",
	KindTimestamp: "timestamp",
	KindJSON:      "json",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a database value tagged with its Kind. The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	u    uint64
	f    float64
	s    string
	raw  []byte
	id   uuid.UUID
	t    time.Time
	date Date
	tod  TimeOfDay
}

// Null returns the NULL value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Int8 returns a tiny integer value.
func Int8(v int8) Value { return Value{kind: KindInt8, i: int64(v)} }

// Int16 returns a small integer value.
func Int16(v int16) Value { return Value{kind: KindInt16, i: int64(v)} }

// Int32 returns an integer value.
func Int32(v int32) Value { return Value{kind: KindInt32, i: int64(v)} }

// Int64 returns a big integer value.
func Int64(v int64) Value { return Value{kind: KindInt64, i: v} }

// Uint8 returns an unsigned tiny integer value.
func Uint8(v uint8) Value { return Value{kind: KindUint8, u: uint64(v)} }

// Uint16 returns an unsigned small integer value.
func Uint16(v uint16) Value { return Value{kind: KindUint16, u: uint64(v)} }

// Uint32 returns an unsigned integer value.
func Uint32(v uint32) Value { return Value{kind: KindUint32, u: uint64(v)} }

// Uint64 returns an unsigned big integer value.
func Uint64(v uint64) Value { return Value{kind: KindUint64, u: v} }

// Float32 returns a single precision value.
func Float32(v float32) Value { return Value{kind: KindFloat32, f: float64(v)} }

// Float64 returns a double precision value.
func Float64(v float64) Value { return Value{kind: KindFloat64, f: v} }

// DecimalValue returns a decimal value.
func DecimalValue(v Decimal) Value { return Value{kind: KindDecimal, s: v.value} }

// Text returns a text value.
func Text(v string) Value { return Value{kind: KindText, s: v} }

// Blob returns a byte sequence value. The slice is copied.
func Blob(v []byte) Value { return Value{kind: KindBlob, raw: bytes.Clone(v)} }

// UUID returns a UUID value.
func UUID(v uuid.UUID) Value { return Value{kind: KindUUID, id: v} }

// DateValue returns a date value.
func DateValue(v Date) Value { return Value{kind: KindDate, date: v} }

// TimeValue returns a time-of-day value.
func TimeValue(v TimeOfDay) Value { return Value{kind: KindTime, tod: v} }

// Timestamp returns a timestamp value.
func Timestamp(v time.Time) Value { return Value{kind: KindTimestamp, t: v} }

// JSON returns a JSON document value. The slice is copied.
func JSON(v json.RawMessage) Value { return Value{kind: KindJSON, raw: bytes.Clone(v)} }

// Kind returns the tag of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is NULL.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Interface returns the natural Go representation of v, or nil for NULL.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt8:
		return int8(v.i)
	case KindInt16:
		return int16(v.i)
	case KindInt32:
		return int32(v.i)
	case KindInt64:
		return v.i
	case KindUint8:
		return uint8(v.u)
	case KindUint16:
		return uint16(v.u)
	case KindUint32:
		return uint32(v.u)
	case KindUint64:
		return v.u
	case KindFloat32:
		return float32(v.f)
	case KindFloat64:
		return v.f
	case KindDecimal:
		return Decimal{value: v.s}
	case KindText:
		return v.s
	case KindBlob:
		return bytes.Clone(v.raw)
	case KindUUID:
		return v.id
	case KindDate:
		return v.date
	case KindTime:
		return v.tod
	case KindTimestamp:
		return v.t
	case KindJSON:
		return json.RawMessage(bytes.Clone(v.raw))
	default:
		return nil
	}
}

// Equal reports whether v and o carry the same tag and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return v.i == o.i
	case KindUint8, KindUint16, KindUint32, KindUint64:
		return v.u == o.u
	case KindFloat32, KindFloat64:
		return v.f == o.f
	case KindDecimal, KindText:
		return v.s == o.s
	case KindBlob, KindJSON:
		return bytes.Equal(v.raw, o.raw)
	case KindUUID:
		return v.id == o.id
	case KindDate:
		return v.date == o.date
	case KindTime:
		return v.tod == o.tod
	case KindTimestamp:
		return v.t.Equal(o.t)
	}
	return false
}

// String returns a human readable form of v. It is not SQL.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return strconv.FormatInt(v.i, 10)
	case KindUint8, KindUint16, KindUint32, KindUint64:
		return strconv.FormatUint(v.u, 10)
	case KindFloat32:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	case KindFloat64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindDecimal, KindText:
		return v.s
	case KindBlob:
		return hex.EncodeToString(v.raw)
	case KindUUID:
		return v.id.String()
	case KindDate:
		return v.date.String()
	case KindTime:
		return v.tod.String()
	case KindTimestamp:
		return v.t.Format(time.RFC3339Nano)
	case KindJSON:
		return string(v.raw)
	}
	return ""
}
