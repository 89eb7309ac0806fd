package schema

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Object is a loosely typed message value for Encode, keyed by field name.
// Repeated fields take a []interface{} or, for messages, a []Object.
type Object map[string]interface{}

// Encode serializes obj as a message of type msg. Fields are written in
// declaration order, repeated scalars unpacked. Keys without a field in msg
// are an error.
func Encode(msg *Message, obj Object) ([]byte, error) {
	return appendMessage(nil, msg, obj)
}

func appendMessage(b []byte, msg *Message, obj Object) ([]byte, error) {
	for key := range obj {
		if _, ok := msg.FieldByName(key); !ok {
			return nil, fmt.Errorf("message %s has no field %q", msg.Name, key)
		}
	}
	var err error
	for _, f := range msg.Fields {
		v, ok := obj[f.Name]
		if !ok || v == nil {
			continue
		}
		if !f.Repeated {
			if b, err = appendValue(b, f, v); err != nil {
				return nil, err
			}
			continue
		}
		switch list := v.(type) {
		case []interface{}:
			for _, x := range list {
				if b, err = appendValue(b, f, x); err != nil {
					return nil, err
				}
			}
		case []Object:
			for _, x := range list {
				if b, err = appendValue(b, f, x); err != nil {
					return nil, err
				}
			}
		default:
			return nil, fmt.Errorf("field %s.%s is repeated, value is %T", msg.Name, f.Name, v)
		}
	}
	return b, nil
}

func appendValue(b []byte, f *Field, v interface{}) ([]byte, error) {
	b = protowire.AppendTag(b, f.Number, f.Kind.WireType())
	switch f.Kind {
	case MessageKind:
		obj, ok := v.(Object)
		if !ok {
			return nil, fmt.Errorf("field %s needs an Object, has %T", f.Name, v)
		}
		sub, err := appendMessage(nil, f.Message, obj)
		if err != nil {
			return nil, err
		}
		return protowire.AppendBytes(b, sub), nil
	case StringKind:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("field %s needs a string, has %T", f.Name, v)
		}
		return protowire.AppendString(b, s), nil
	case BytesKind:
		p, ok := v.([]byte)
		if !ok {
			return nil, fmt.Errorf("field %s needs bytes, has %T", f.Name, v)
		}
		return protowire.AppendBytes(b, p), nil
	case BoolKind:
		x, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("field %s needs a bool, has %T", f.Name, v)
		}
		return protowire.AppendVarint(b, protowire.EncodeBool(x)), nil
	case FloatKind:
		x, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("field %s needs a number, has %T", f.Name, v)
		}
		return protowire.AppendFixed32(b, math.Float32bits(float32(x))), nil
	case DoubleKind:
		x, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("field %s needs a number, has %T", f.Name, v)
		}
		return protowire.AppendFixed64(b, math.Float64bits(x)), nil
	}
	bits, _, ok := toBits(v)
	if !ok {
		return nil, fmt.Errorf("field %s needs an integer, has %T", f.Name, v)
	}
	switch f.Kind {
	case Sint32Kind, Sint64Kind:
		return protowire.AppendVarint(b, protowire.EncodeZigZag(int64(bits))), nil
	case Fixed32Kind, Sfixed32Kind:
		return protowire.AppendFixed32(b, uint32(bits)), nil
	case Fixed64Kind, Sfixed64Kind:
		return protowire.AppendFixed64(b, bits), nil
	}
	return protowire.AppendVarint(b, bits), nil
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	}
	if bits, signed, ok := toBits(v); ok {
		if signed {
			return float64(int64(bits)), true
		}
		return float64(bits), true
	}
	return 0, false
}

// toBits returns the two's complement bits of an integer and whether it is
// of a signed type.
func toBits(v interface{}) (uint64, bool, bool) {
	switch x := v.(type) {
	case int:
		return uint64(x), true, true
	case int32:
		return uint64(x), true, true
	case int64:
		return uint64(x), true, true
	case uint:
		return uint64(x), false, true
	case uint32:
		return uint64(x), false, true
	case uint64:
		return x, false, true
	}
	return 0, false, false
}
