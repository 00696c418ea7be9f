package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/satishbabariya/sqlforge/dberr"
)

// ToValue converts a host value into a Value. It never fails: pointers map
// nil to Null, and types without a dedicated tag are stored as JSON when they
// marshal, or as text otherwise.
func ToValue(x any) Value {
	switch v := x.(type) {
	case nil:
		return Null()
	case Value:
		return v
	case bool:
		return Bool(v)
	case int8:
		return Int8(v)
	case int16:
		return Int16(v)
	case int32:
		return Int32(v)
	case int64:
		return Int64(v)
	case int:
		return Int64(int64(v))
	case uint8:
		return Uint8(v)
	case uint16:
		return Uint16(v)
	case uint32:
		return Uint32(v)
	case uint64:
		return Uint64(v)
	case uint:
		return Uint64(uint64(v))
	case float32:
		return Float32(v)
	case float64:
		return Float64(v)
	case Decimal:
		return DecimalValue(v)
	case string:
		return Text(v)
	case json.RawMessage:
		return JSON(v)
	case []byte:
		return Blob(v)
	case uuid.UUID:
		return UUID(v)
	case Date:
		return DateValue(v)
	case TimeOfDay:
		return TimeValue(v)
	case time.Time:
		return Timestamp(v)
	}

	rv := reflect.ValueOf(x)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Null()
		}
		return ToValue(rv.Elem().Interface())
	}
	if vr, ok := x.(driver.Valuer); ok {
		if dv, err := vr.Value(); err == nil {
			return ToValue(dv)
		}
	}
	if v, ok := fromKind(rv); ok {
		return v
	}
	if b, err := json.Marshal(x); err == nil {
		return JSON(b)
	}
	return Text(fmt.Sprint(x))
}

// fromKind handles named types whose underlying type has a dedicated tag,
// such as "type status string".
func fromKind(rv reflect.Value) (Value, bool) {
	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), true
	case reflect.Int8:
		return Int8(int8(rv.Int())), true
	case reflect.Int16:
		return Int16(int16(rv.Int())), true
	case reflect.Int32:
		return Int32(int32(rv.Int())), true
	case reflect.Int, reflect.Int64:
		return Int64(rv.Int()), true
	case reflect.Uint8:
		return Uint8(uint8(rv.Uint())), true
	case reflect.Uint16:
		return Uint16(uint16(rv.Uint())), true
	case reflect.Uint32:
		return Uint32(uint32(rv.Uint())), true
	case reflect.Uint, reflect.Uint64:
		return Uint64(rv.Uint()), true
	case reflect.Float32:
		return Float32(float32(rv.Float())), true
	case reflect.Float64:
		return Float64(rv.Float()), true
	case reflect.String:
		return Text(rv.String()), true
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Blob(rv.Bytes()), true
		}
	}
	return Value{}, false
}

// Values converts every element with ToValue.
func Values(xs ...any) []Value {
	out := make([]Value, len(xs))
	for i, x := range xs {
		out[i] = ToValue(x)
	}
	return out
}

func mismatch(expected string, v Value) error {
	return &dberr.ConversionError{Kind: dberr.TypeMismatch, Expected: expected, Actual: v.kind.String()}
}

func null(expected string) error {
	return &dberr.ConversionError{Kind: dberr.Null, Expected: expected}
}

// From converts v into T. Integer and float tags widen losslessly into larger
// host types of the same family; every other tag must match exactly. NULL
// fails with dberr.ErrNull unless T is Value.
func From[T any](v Value) (T, error) {
	var zero T
	if out, ok := any(v).(T); ok {
		return out, nil
	}
	expected := reflect.TypeFor[T]().String()
	if v.kind == KindNull {
		return zero, null(expected)
	}
	out, err := convert(any(zero), v, expected)
	if err != nil {
		return zero, err
	}
	return out.(T), nil
}

// FromOpt is like From but maps NULL to a nil pointer.
func FromOpt[T any](v Value) (*T, error) {
	if v.kind == KindNull {
		return nil, nil
	}
	out, err := From[T](v)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func convert(target any, v Value, expected string) (any, error) {
	switch target.(type) {
	case bool:
		if v.kind == KindBool {
			return v.b, nil
		}
	case int8:
		if v.kind == KindInt8 {
			return int8(v.i), nil
		}
	case int16:
		if v.kind == KindInt8 || v.kind == KindInt16 || v.kind == KindUint8 {
			return int16(v.signed()), nil
		}
	case int32:
		switch v.kind {
		case KindInt8, KindInt16, KindInt32, KindUint8, KindUint16:
			return int32(v.signed()), nil
		}
	case int64:
		switch v.kind {
		case KindInt8, KindInt16, KindInt32, KindInt64, KindUint8, KindUint16, KindUint32:
			return v.signed(), nil
		}
	case int:
		switch v.kind {
		case KindInt8, KindInt16, KindInt32, KindInt64, KindUint8, KindUint16, KindUint32:
			n := v.signed()
			if n >= math.MinInt && n <= math.MaxInt {
				return int(n), nil
			}
		}
	case uint8:
		if v.kind == KindUint8 {
			return uint8(v.u), nil
		}
	case uint16:
		if v.kind == KindUint8 || v.kind == KindUint16 {
			return uint16(v.u), nil
		}
	case uint32:
		switch v.kind {
		case KindUint8, KindUint16, KindUint32:
			return uint32(v.u), nil
		}
	case uint64:
		switch v.kind {
		case KindUint8, KindUint16, KindUint32, KindUint64:
			return v.u, nil
		}
	case uint:
		switch v.kind {
		case KindUint8, KindUint16, KindUint32, KindUint64:
			if v.u <= math.MaxUint {
				return uint(v.u), nil
			}
		}
	case float32:
		if v.kind == KindFloat32 {
			return float32(v.f), nil
		}
	case float64:
		if v.kind == KindFloat32 || v.kind == KindFloat64 {
			return v.f, nil
		}
	case Decimal:
		if v.kind == KindDecimal {
			return Decimal{value: v.s}, nil
		}
	case string:
		if v.kind == KindText {
			return v.s, nil
		}
	case json.RawMessage:
		if v.kind == KindJSON {
			return json.RawMessage(bytes.Clone(v.raw)), nil
		}
	case []byte:
		if v.kind == KindBlob {
			return bytes.Clone(v.raw), nil
		}
	case uuid.UUID:
		if v.kind == KindUUID {
			return v.id, nil
		}
	case Date:
		if v.kind == KindDate {
			return v.date, nil
		}
	case TimeOfDay:
		if v.kind == KindTime {
			return v.tod, nil
		}
	case time.Time:
		if v.kind == KindTimestamp {
			return v.t, nil
		}
	}
	return nil, mismatch(expected, v)
}

// signed returns the integer payload of an integer tag as int64.
func (v Value) signed() int64 {
	switch v.kind {
	case KindUint8, KindUint16, KindUint32, KindUint64:
		return int64(v.u)
	}
	return v.i
}
