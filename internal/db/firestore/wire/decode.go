package wire

import (
	"encoding/base64"
	"errors"
	"strconv"
	"time"
)

// DecodeFields converts a document's fields into a Record. A nil map yields an
// empty Record.
func DecodeFields(fields Fields) Record {
	out := make(Record, len(fields))
	for k, v := range fields {
		out[k] = DecodeValue(v)
	}
	return out
}

// DecodeValue unwraps a typed value into its native form:
//
//	stringValue    string
//	integerValue   int64 (float64 past the int64 range, nil if not numeric)
//	doubleValue    float64
//	booleanValue   bool
//	arrayValue     []any
//	mapValue       Record
//	timestampValue int64 epoch milliseconds
//	nullValue      nil
//	referenceValue string
//	geoPointValue  Record{latitude, longitude}
//	bytesValue     []byte
//
// A nil value decodes to nil. A value with no recognized tag is returned as is.
func DecodeValue(v *Value) any {
	if v == nil {
		return nil
	}
	switch {
	case v.StringValue != nil:
		return *v.StringValue
	case v.IntegerValue != nil:
		n, err := strconv.ParseInt(string(*v.IntegerValue), 10, 64)
		if errors.Is(err, strconv.ErrRange) {
			f, ferr := strconv.ParseFloat(string(*v.IntegerValue), 64)
			if ferr != nil {
				return nil
			}
			return f
		}
		if err != nil {
			return nil
		}
		return n
	case v.DoubleValue != nil:
		f, err := strconv.ParseFloat(v.DoubleValue.String(), 64)
		if err != nil {
			return nil
		}
		return f
	case v.BooleanValue != nil:
		return *v.BooleanValue
	case v.ArrayValue != nil:
		out := make([]any, 0, len(v.ArrayValue.Values))
		for _, e := range v.ArrayValue.Values {
			out = append(out, DecodeValue(e))
		}
		return out
	case v.MapValue != nil:
		return DecodeFields(v.MapValue.Fields)
	case v.TimestampValue != nil:
		ts, err := time.Parse(time.RFC3339Nano, *v.TimestampValue)
		if err != nil {
			return nil
		}
		return ts.UnixMilli()
	case len(v.NullValue) > 0:
		return nil
	case v.ReferenceValue != nil:
		return *v.ReferenceValue
	case v.GeoPointValue != nil:
		return Record{"latitude": v.GeoPointValue.Latitude, "longitude": v.GeoPointValue.Longitude}
	case v.BytesValue != nil:
		b, err := base64.StdEncoding.DecodeString(*v.BytesValue)
		if err != nil {
			return nil
		}
		return b
	}
	return v
}
