package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Value implements driver.Valuer so that a Value can be passed to
// database/sql unchanged.
func (v Value) Value() (driver.Value, error) {
	switch v.kind {
	case KindNull:
		return nil, nil
	case KindBool:
		return v.b, nil
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return v.i, nil
	case KindUint8, KindUint16, KindUint32, KindUint64:
		if v.u > math.MaxInt64 {
			return strconv.FormatUint(v.u, 10), nil
		}
		return int64(v.u), nil
	case KindFloat32, KindFloat64:
		return v.f, nil
	case KindDecimal, KindText:
		return v.s, nil
	case KindBlob:
		return v.raw, nil
	case KindUUID:
		return v.id.String(), nil
	case KindDate:
		return v.date.Time(), nil
	case KindTime:
		return v.tod.String(), nil
	case KindTimestamp:
		return v.t, nil
	case KindJSON:
		return string(v.raw), nil
	}
	return nil, fmt.Errorf("types: unknown value kind %d", v.kind)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.DateOnly,
}

// ParseTimestamp parses the textual timestamp forms emitted by the supported
// backends.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("types: cannot parse timestamp %q", s)
}

// Decode converts a value scanned by a database/sql driver into a Value. hint
// is the tag the adapter derived from the column's database type; KindNull
// means unknown, in which case the tag is inferred from the Go type of src.
func Decode(src any, hint Kind) (Value, error) {
	if src == nil {
		return Null(), nil
	}
	if hint == KindNull {
		return infer(src), nil
	}

	switch hint {
	case KindBool:
		switch s := src.(type) {
		case bool:
			return Bool(s), nil
		case int64:
			return Bool(s != 0), nil
		case []byte, string:
			b, err := parseBool(asString(s))
			if err != nil {
				return Value{}, err
			}
			return Bool(b), nil
		}
	case KindInt8, KindInt16, KindInt32, KindInt64:
		n, err := asInt(src)
		if err != nil {
			return Value{}, err
		}
		return fitSigned(n, hint)
	case KindUint8, KindUint16, KindUint32, KindUint64:
		n, err := asUint(src)
		if err != nil {
			return Value{}, err
		}
		return fitUnsigned(n, hint)
	case KindFloat32, KindFloat64:
		var f float64
		switch s := src.(type) {
		case float64:
			f = s
		case float32:
			f = float64(s)
		case int64:
			f = float64(s)
		case []byte, string:
			var err error
			if f, err = strconv.ParseFloat(asString(s), 64); err != nil {
				return Value{}, fmt.Errorf("types: decode float: %w", err)
			}
		default:
			return Value{}, decodeErr(src, hint)
		}
		if hint == KindFloat32 {
			return Float32(float32(f)), nil
		}
		return Float64(f), nil
	case KindDecimal:
		switch s := src.(type) {
		case []byte, string:
			return DecimalValue(NewDecimal(asString(s))), nil
		case float64:
			return DecimalValue(NewDecimal(strconv.FormatFloat(s, 'f', -1, 64))), nil
		case int64:
			return DecimalValue(NewDecimal(strconv.FormatInt(s, 10))), nil
		}
	case KindText:
		switch s := src.(type) {
		case []byte, string:
			return Text(asString(s)), nil
		case time.Time:
			return Text(s.Format(time.RFC3339Nano)), nil
		}
	case KindBlob:
		switch s := src.(type) {
		case []byte:
			return Blob(s), nil
		case string:
			return Blob([]byte(s)), nil
		}
	case KindUUID:
		switch s := src.(type) {
		case []byte:
			if len(s) == 16 {
				id, err := uuid.FromBytes(s)
				if err != nil {
					return Value{}, err
				}
				return UUID(id), nil
			}
			return parseUUID(string(s))
		case [16]byte:
			return UUID(uuid.UUID(s)), nil
		case string:
			return parseUUID(s)
		}
	case KindDate:
		switch s := src.(type) {
		case time.Time:
			return DateValue(DateOf(s)), nil
		case []byte, string:
			str := asString(s)
			if len(str) > len(time.DateOnly) {
				str = str[:len(time.DateOnly)]
			}
			d, err := ParseDate(str)
			if err != nil {
				return Value{}, fmt.Errorf("types: decode date: %w", err)
			}
			return DateValue(d), nil
		}
	case KindTime:
		switch s := src.(type) {
		case time.Time:
			return TimeValue(TimeOfDayOf(s)), nil
		case []byte, string:
			t, err := ParseTimeOfDay(asString(s))
			if err != nil {
				return Value{}, fmt.Errorf("types: decode time: %w", err)
			}
			return TimeValue(t), nil
		}
	case KindTimestamp:
		switch s := src.(type) {
		case time.Time:
			return Timestamp(s), nil
		case []byte, string:
			t, err := ParseTimestamp(asString(s))
			if err != nil {
				return Value{}, err
			}
			return Timestamp(t), nil
		}
	case KindJSON:
		switch s := src.(type) {
		case []byte, string:
			str := asString(s)
			if !json.Valid([]byte(str)) {
				return Value{}, fmt.Errorf("types: decode json: invalid document")
			}
			return JSON(json.RawMessage(str)), nil
		}
	}
	return Value{}, decodeErr(src, hint)
}

func infer(src any) Value {
	switch s := src.(type) {
	case []byte:
		if utf8.Valid(s) {
			return Text(string(s))
		}
		return Blob(s)
	case time.Time:
		return Timestamp(s)
	}
	return ToValue(src)
}

func decodeErr(src any, hint Kind) error {
	return fmt.Errorf("types: cannot decode %T as %s", src, hint)
}

func asString(src any) string {
	switch s := src.(type) {
	case []byte:
		return string(s)
	case string:
		return s
	}
	return fmt.Sprint(src)
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "y", "yes", "on":
		return true, nil
	case "0", "f", "false", "n", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("types: cannot decode %q as bool", s)
}

func parseUUID(s string) (Value, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return Value{}, fmt.Errorf("types: decode uuid: %w", err)
	}
	return UUID(id), nil
}

func asInt(src any) (int64, error) {
	switch s := src.(type) {
	case int64:
		return s, nil
	case int32:
		return int64(s), nil
	case int:
		return int64(s), nil
	case uint64:
		if s > math.MaxInt64 {
			return 0, fmt.Errorf("types: %d overflows int64", s)
		}
		return int64(s), nil
	case bool:
		if s {
			return 1, nil
		}
		return 0, nil
	case []byte, string:
		n, err := strconv.ParseInt(asString(s), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("types: decode integer: %w", err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("types: cannot decode %T as integer", src)
}

func asUint(src any) (uint64, error) {
	switch s := src.(type) {
	case uint64:
		return s, nil
	case int64:
		if s < 0 {
			return 0, fmt.Errorf("types: %d is negative", s)
		}
		return uint64(s), nil
	case []byte, string:
		n, err := strconv.ParseUint(asString(s), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("types: decode unsigned integer: %w", err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("types: cannot decode %T as unsigned integer", src)
}

func fitSigned(n int64, k Kind) (Value, error) {
	switch k {
	case KindInt8:
		if n >= math.MinInt8 && n <= math.MaxInt8 {
			return Int8(int8(n)), nil
		}
	case KindInt16:
		if n >= math.MinInt16 && n <= math.MaxInt16 {
			return Int16(int16(n)), nil
		}
	case KindInt32:
		if n >= math.MinInt32 && n <= math.MaxInt32 {
			return Int32(int32(n)), nil
		}
	default:
		return Int64(n), nil
	}
	return Value{}, fmt.Errorf("types: %d overflows %s", n, k)
}

func fitUnsigned(n uint64, k Kind) (Value, error) {
	switch k {
	case KindUint8:
		if n <= math.MaxUint8 {
			return Uint8(uint8(n)), nil
		}
	case KindUint16:
		if n <= math.MaxUint16 {
			return Uint16(uint16(n)), nil
		}
	case KindUint32:
		if n <= math.MaxUint32 {
			return Uint32(uint32(n)), nil
		}
	default:
		return Uint64(n), nil
	}
	return Value{}, fmt.Errorf("types: %d overflows %s", n, k)
}
