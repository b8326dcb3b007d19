// Package wire converts between native Go values and the document database's
// typed REST value encoding, where every field value is an object carrying
// exactly one type tag (stringValue, integerValue, arrayValue, ...).
//
// The package has no dependencies outside the standard library and is the only
// place in the module that knows the wire shape of a field value.
package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Value is a single typed field value. Exactly one tag is set.
type Value struct {
	StringValue    *string         `json:"stringValue,omitempty"`
	IntegerValue   *Integer        `json:"integerValue,omitempty"`
	DoubleValue    *json.Number    `json:"doubleValue,omitempty"`
	BooleanValue   *bool           `json:"booleanValue,omitempty"`
	ArrayValue     *ArrayValue     `json:"arrayValue,omitempty"`
	MapValue       *MapValue       `json:"mapValue,omitempty"`
	TimestampValue *string         `json:"timestampValue,omitempty"`
	NullValue      json.RawMessage `json:"nullValue,omitempty"`
	ReferenceValue *string         `json:"referenceValue,omitempty"`
	GeoPointValue  *GeoPoint       `json:"geoPointValue,omitempty"`
	BytesValue     *string         `json:"bytesValue,omitempty"`
}

// ArrayValue holds the elements of an array field. Values may be absent on the wire.
type ArrayValue struct {
	Values []*Value `json:"values,omitempty"`
}

// MapValue holds the fields of a nested object.
type MapValue struct {
	Fields Fields `json:"fields,omitempty"`
}

// GeoPoint is a latitude/longitude pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Fields maps field names to typed values (the "fields" object of a document).
type Fields map[string]*Value

// Integer is the decimal text of a 64-bit integer. The store emits it as a JSON
// string; a bare JSON number is accepted on input as well.
type Integer string

// MarshalJSON always writes the quoted decimal form.
func (i Integer) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(i))
}

// UnmarshalJSON accepts "123" and 123.
func (i *Integer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("integerValue: %w", err)
		}
		*i = Integer(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("integerValue: %w", err)
	}
	*i = Integer(n.String())
	return nil
}

// String builds a stringValue.
func String(s string) *Value { return &Value{StringValue: &s} }

// Bool builds a booleanValue.
func Bool(b bool) *Value { return &Value{BooleanValue: &b} }

// Int builds an integerValue.
func Int(n int64) *Value {
	i := Integer(fmt.Sprintf("%d", n))
	return &Value{IntegerValue: &i}
}

// Double builds a doubleValue.
func Double(f float64) *Value {
	n := json.Number(formatFloat(f))
	return &Value{DoubleValue: &n}
}

// Array builds an arrayValue; a nil slice produces an empty array.
func Array(values ...*Value) *Value {
	if values == nil {
		values = []*Value{}
	}
	return &Value{ArrayValue: &ArrayValue{Values: values}}
}
