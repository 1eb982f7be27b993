package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind identifies the variant held by a Value.
type Kind int

// Value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSequence
	KindMapping
)

// Value is a tagged-variant node in a parsed document tree. Exactly one of
// the payload fields is meaningful, selected by Kind. Mappings preserve the
// key order of the source document.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Float float64
	Str   string
	Seq   []*Value
	Map   []Entry
}

// Entry is a single key/value pair in an ordered mapping.
type Entry struct {
	Key   string
	Value *Value
}

// Null returns a null value.
func Null() *Value { return &Value{Kind: KindNull} }

// NewBool returns a boolean value.
func NewBool(b bool) *Value { return &Value{Kind: KindBool, Bool: b} }

// NewInt returns an integer value.
func NewInt(i int64) *Value { return &Value{Kind: KindInt, Int: i} }

// NewFloat returns a floating-point value.
func NewFloat(f float64) *Value { return &Value{Kind: KindFloat, Float: f} }

// NewString returns a string value.
func NewString(s string) *Value { return &Value{Kind: KindString, Str: s} }

// NewSequence returns a sequence value holding the given items.
func NewSequence(items ...*Value) *Value {
	return &Value{Kind: KindSequence, Seq: items}
}

// NewMapping returns a mapping value holding the given entries in order.
func NewMapping(entries ...Entry) *Value {
	return &Value{Kind: KindMapping, Map: entries}
}

// Get looks up a key in a mapping value. Returns false when the value is not
// a mapping or the key is absent.
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.Kind != KindMapping {
		return nil, false
	}
	for _, e := range v.Map {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// AsString returns the string payload, reporting whether the value is a
// string.
func (v *Value) AsString() (string, bool) {
	if v == nil || v.Kind != KindString {
		return "", false
	}
	return v.Str, true
}

// AsBool returns the boolean payload, reporting whether the value is a bool.
func (v *Value) AsBool() (bool, bool) {
	if v == nil || v.Kind != KindBool {
		return false, false
	}
	return v.Bool, true
}

// AsFloat returns the value as a float64. Integer values are promoted.
func (v *Value) AsFloat() (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch v.Kind {
	case KindFloat:
		return v.Float, true
	case KindInt:
		return float64(v.Int), true
	default:
		return 0, false
	}
}

// AsInt returns the integer payload, reporting whether the value is an
// integer.
func (v *Value) AsInt() (int64, bool) {
	if v == nil || v.Kind != KindInt {
		return 0, false
	}
	return v.Int, true
}

// Interface converts the value tree to plain Go values: nil, bool, int64,
// float64, string, []any, and map[string]any. Mapping order is lost; use
// MarshalJSON when order matters.
func (v *Value) Interface() any {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case KindNull:
		return nil
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindString:
		return v.Str
	case KindSequence:
		out := make([]any, len(v.Seq))
		for i, item := range v.Seq {
			out[i] = item.Interface()
		}
		return out
	case KindMapping:
		out := make(map[string]any, len(v.Map))
		for _, e := range v.Map {
			out[e.Key] = e.Value.Interface()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON encodes the value as JSON, writing mapping entries in
// declaration order.
func (v *Value) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.Bool)
	case KindInt:
		return json.Marshal(v.Int)
	case KindFloat:
		return json.Marshal(v.Float)
	case KindString:
		return json.Marshal(v.Str)
	case KindSequence:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.Seq {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindMapping:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, e := range v.Map {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(e.Key)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			b, err := e.Value.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.Kind)
	}
}
