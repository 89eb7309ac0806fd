package schema

import (
	"fmt"
	"math"

	"github.com/npillmayer/tracescope"
	"google.golang.org/protobuf/encoding/protowire"
)

// Value is a decoded field value. Its dynamic type depends on the field kind:
//
//    bool                     BoolKind
//    int32                    Int32Kind, Sint32Kind, Sfixed32Kind, EnumKind
//    uint32                   Uint32Kind, Fixed32Kind
//    int64                    Int64Kind, Sint64Kind, Sfixed64Kind
//    uint64                   Uint64Kind, Fixed64Kind
//    float32                  FloatKind
//    float64                  DoubleKind
//    string                   StringKind
//    []byte                   BytesKind
//    *Record                  MessageKind
//
type Value interface{}

// FieldValues holds the values of one present field. Non-repeated fields
// hold exactly one value; for duplicates on the wire the last one wins.
type FieldValues struct {
	Field  *Field
	Values []Value
}

// Record is a decoded message: its present fields in declaration order.
type Record struct {
	Schema  *Message
	fields  []*FieldValues
}

// Fields returns the present fields in declaration order.
func (r *Record) Fields() []*FieldValues {
	return r.fields
}

func (r *Record) lookup(name string) *FieldValues {
	for _, fv := range r.fields {
		if fv.Field.Name == name {
			return fv
		}
	}
	return nil
}

// Has is true if field name is present.
func (r *Record) Has(name string) bool {
	return r != nil && r.lookup(name) != nil
}

// Get returns the value of a present field. For repeated fields it
// returns the last element.
func (r *Record) Get(name string) (Value, bool) {
	if r == nil {
		return nil, false
	}
	fv := r.lookup(name)
	if fv == nil || len(fv.Values) == 0 {
		return nil, false
	}
	return fv.Values[len(fv.Values)-1], true
}

// List returns all values of a field.
func (r *Record) List(name string) []Value {
	if r == nil {
		return nil
	}
	if fv := r.lookup(name); fv != nil {
		return fv.Values
	}
	return nil
}

// Message returns the sub-record of a message field.
func (r *Record) Message(name string) (*Record, bool) {
	v, ok := r.Get(name)
	if !ok {
		return nil, false
	}
	sub, ok := v.(*Record)
	return sub, ok
}

// Messages returns the sub-records of a repeated message field.
func (r *Record) Messages(name string) []*Record {
	values := r.List(name)
	recs := make([]*Record, 0, len(values))
	for _, v := range values {
		if sub, ok := v.(*Record); ok {
			recs = append(recs, sub)
		}
	}
	return recs
}

// Path follows a path of message fields and returns the value of the last one.
func (r *Record) Path(path ...string) (Value, bool) {
	if len(path) == 0 {
		return nil, false
	}
	rec := r
	for _, name := range path[:len(path)-1] {
		var ok bool
		if rec, ok = rec.Message(name); !ok {
			return nil, false
		}
	}
	return rec.Get(path[len(path)-1])
}

// Uint64 returns an unsigned integer value of a field along a path.
// Signed values are accepted if they are not negative.
func (r *Record) Uint64(path ...string) (uint64, bool) {
	v, ok := r.Path(path...)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case uint64:
		return n, true
	case uint32:
		return uint64(n), true
	case int64:
		return uint64(n), n >= 0
	case int32:
		return uint64(n), n >= 0
	}
	return 0, false
}

// Int64 returns a signed integer value of a field along a path.
func (r *Record) Int64(path ...string) (int64, bool) {
	v, ok := r.Path(path...)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), n <= math.MaxInt64
	}
	return 0, false
}

// String returns a string value of a field along a path.
func (r *Record) String(path ...string) (string, bool) {
	v, ok := r.Path(path...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// --- Decoding --------------------------------------------------------------

// Decode decodes buf as a message of type msg.
func Decode(buf []byte, msg *Message) (*Record, error) {
	rec, err := decodeMessage(buf, msg, 0)
	if err != nil {
		tracer().Debugf("decoding %s failed: %v", msg.Name, err)
		return nil, err
	}
	return rec, nil
}

// maxDepth limits nesting of messages on the wire.
const maxDepth = 100

func decodeError(msg *Message, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s: %s", tracescope.ErrDecode, msg.Name, fmt.Sprintf(format, args...))
}

func decodeMessage(b []byte, msg *Message, depth int) (*Record, error) {
	if depth > maxDepth {
		return nil, decodeError(msg, "messages nested too deeply")
	}
	present := make(map[*Field]*FieldValues)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, decodeError(msg, "tag: %v", protowire.ParseError(n))
		}
		b = b[n:]
		f, ok := msg.FieldByNumber(num)
		if !ok {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, decodeError(msg, "unknown field %d: %v", num, protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}
		fv := present[f]
		if fv == nil {
			fv = &FieldValues{Field: f}
			present[f] = fv
		}
		if f.Repeated && f.Kind.Packable() && typ == protowire.BytesType {
			packed, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, decodeError(msg, "field %s: %v", f.Name, protowire.ParseError(n))
			}
			b = b[n:]
			for len(packed) > 0 {
				v, m, err := decodeScalar(packed, f, msg)
				if err != nil {
					return nil, err
				}
				packed = packed[m:]
				fv.Values = append(fv.Values, v)
			}
			continue
		}
		if typ != f.Kind.WireType() {
			return nil, decodeError(msg, "field %s: wire type %d does not match kind %s", f.Name, typ, f.Kind)
		}
		var v Value
		if f.Kind == MessageKind {
			sub, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return nil, decodeError(msg, "field %s: %v", f.Name, protowire.ParseError(m))
			}
			b = b[m:]
			subrec, err := decodeMessage(sub, f.Message, depth+1)
			if err != nil {
				return nil, err
			}
			v = subrec
		} else {
			var m int
			var err error
			if v, m, err = decodeScalar(b, f, msg); err != nil {
				return nil, err
			}
			b = b[m:]
		}
		if f.Repeated {
			fv.Values = append(fv.Values, v)
		} else {
			fv.Values = []Value{v}
		}
	}
	rec := &Record{Schema: msg}
	for _, f := range msg.Fields {
		if fv := present[f]; fv != nil {
			rec.fields = append(rec.fields, fv)
		}
	}
	return rec, nil
}

func decodeScalar(b []byte, f *Field, msg *Message) (Value, int, error) {
	switch f.Kind.WireType() {
	case protowire.VarintType:
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return nil, 0, decodeError(msg, "field %s: %v", f.Name, protowire.ParseError(n))
		}
		switch f.Kind {
		case BoolKind:
			return protowire.DecodeBool(v), n, nil
		case Int32Kind, EnumKind:
			return int32(v), n, nil
		case Sint32Kind:
			return int32(protowire.DecodeZigZag(v & math.MaxUint32)), n, nil
		case Uint32Kind:
			return uint32(v), n, nil
		case Int64Kind:
			return int64(v), n, nil
		case Sint64Kind:
			return protowire.DecodeZigZag(v), n, nil
		}
		return v, n, nil
	case protowire.Fixed32Type:
		v, n := protowire.ConsumeFixed32(b)
		if n < 0 {
			return nil, 0, decodeError(msg, "field %s: %v", f.Name, protowire.ParseError(n))
		}
		switch f.Kind {
		case Sfixed32Kind:
			return int32(v), n, nil
		case FloatKind:
			return math.Float32frombits(v), n, nil
		}
		return v, n, nil
	case protowire.Fixed64Type:
		v, n := protowire.ConsumeFixed64(b)
		if n < 0 {
			return nil, 0, decodeError(msg, "field %s: %v", f.Name, protowire.ParseError(n))
		}
		switch f.Kind {
		case Sfixed64Kind:
			return int64(v), n, nil
		case DoubleKind:
			return math.Float64frombits(v), n, nil
		}
		return v, n, nil
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, decodeError(msg, "field %s: %v", f.Name, protowire.ParseError(n))
	}
	if f.Kind == StringKind {
		return string(v), n, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, n, nil
}
