package wire

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// EncodeFields converts a Record into typed fields for a write request.
//
// Nil values are left out entirely. Strings, booleans, numbers and slices are
// encoded; nested maps, structs and times are not (they are decode-only) and are
// left out as well. Whole floats are written as integers, fractional floats as
// doubles.
func EncodeFields(rec Record) Fields {
	out := make(Fields, len(rec))
	for k, v := range rec {
		if ev, ok := encodeField(v); ok {
			out[k] = ev
		}
	}
	return out
}

// EncodeValue encodes a single scalar or slice. ok is false for nil and for
// kinds the encoder does not produce.
func EncodeValue(v any) (*Value, bool) {
	return encodeField(v)
}

func encodeField(v any) (*Value, bool) {
	if v == nil {
		return nil, false
	}
	if s, ok := scalar(v); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, false
		}
		values := make([]*Value, rv.Len())
		for i := range values {
			values[i] = encodeElement(rv.Index(i).Interface())
		}
		return Array(values...), true
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, false
		}
		return encodeField(rv.Elem().Interface())
	}
	return nil, false
}

// encodeElement tags one array element. Anything that is not a string, number
// or boolean degrades to its string form so the request stays well-formed.
func encodeElement(v any) *Value {
	if v == nil {
		return String("null")
	}
	if s, ok := scalar(v); ok {
		return s
	}
	return String(fmt.Sprint(v))
}

func scalar(v any) (*Value, bool) {
	switch x := v.(type) {
	case string:
		return String(x), true
	case bool:
		return Bool(x), true
	case int:
		return Int(int64(x)), true
	case int8:
		return Int(int64(x)), true
	case int16:
		return Int(int64(x)), true
	case int32:
		return Int(int64(x)), true
	case int64:
		return Int(x), true
	case uint:
		return Integer64(strconv.FormatUint(uint64(x), 10)), true
	case uint8:
		return Int(int64(x)), true
	case uint16:
		return Int(int64(x)), true
	case uint32:
		return Int(int64(x)), true
	case uint64:
		return Integer64(strconv.FormatUint(x, 10)), true
	case float32:
		return number(float64(x))
	case float64:
		return number(x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return Int(n), true
		}
		f, err := x.Float64()
		if err != nil {
			return String(x.String()), true
		}
		return number(f)
	}
	return scalarKind(reflect.ValueOf(v))
}

// scalarKind handles named types whose underlying kind is a scalar.
func scalarKind(rv reflect.Value) (*Value, bool) {
	switch rv.Kind() {
	case reflect.String:
		return String(rv.String()), true
	case reflect.Bool:
		return Bool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Integer64(strconv.FormatUint(rv.Uint(), 10)), true
	case reflect.Float32, reflect.Float64:
		return number(rv.Float())
	}
	return nil, false
}

// number picks integerValue for whole values and doubleValue otherwise.
// NaN and infinities are not valid JSON numbers and fall back to their string form.
func number(f float64) (*Value, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return String(strconv.FormatFloat(f, 'g', -1, 64)), true
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<63 {
		return Int(int64(f)), true
	}
	return Double(f), true
}

// Integer64 builds an integerValue from decimal text without range checks.
func Integer64(text string) *Value {
	i := Integer(text)
	return &Value{IntegerValue: &i}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
