package propertytree

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/npillmayer/tracescope/timestamp"
)

// ValueKind is the type of a leaf value.
type ValueKind uint8

// Kinds of leaf values.
const (
	KindUndefined ValueKind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindTimestamp
	KindBigInt
)

func (k ValueKind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTimestamp:
		return "timestamp"
	case KindBigInt:
		return "bigint"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Value is an immutable leaf value. The zero value is undefined.
type Value struct {
	kind ValueKind
	s    string
	i    int64
	f    float64
	ts   timestamp.Timestamp
	big  *big.Int
}

// Undefined returns the undefined value.
func Undefined() Value { return Value{} }

// String creates a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Int creates an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float creates a floating point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Bool creates a boolean value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.i = 1
	}
	return v
}

// Time creates a timestamp value.
func Time(ts timestamp.Timestamp) Value { return Value{kind: KindTimestamp, ts: ts} }

// BigInt creates an arbitrary-precision integer value. n is copied.
func BigInt(n *big.Int) Value {
	if n == nil {
		return Undefined()
	}
	return Value{kind: KindBigInt, big: new(big.Int).Set(n)}
}

// Kind returns the kind of v.
func (v Value) Kind() ValueKind { return v.kind }

// IsDefined is false for the undefined value.
func (v Value) IsDefined() bool { return v.kind != KindUndefined }

// AsString returns the string of a string value.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsInt returns an integer value. Big integers within int64 range qualify.
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindBigInt:
		if v.big.IsInt64() {
			return v.big.Int64(), true
		}
	}
	return 0, false
}

// AsFloat returns the float of a float value.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsBool returns the boolean of a bool value.
func (v Value) AsBool() (bool, bool) { return v.i == 1, v.kind == KindBool }

// AsTimestamp returns the timestamp of a timestamp value.
func (v Value) AsTimestamp() (timestamp.Timestamp, bool) { return v.ts, v.kind == KindTimestamp }

// AsBigInt returns a copy of the integer of an integer value.
func (v Value) AsBigInt() (*big.Int, bool) {
	switch v.kind {
	case KindBigInt:
		return new(big.Int).Set(v.big), true
	case KindInt:
		return big.NewInt(v.i), true
	}
	return nil, false
}

// Number coerces numeric values to float64.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	case KindBigInt:
		f, _ := new(big.Float).SetInt(v.big).Float64()
		return f, true
	}
	return 0, false
}

// Equal compares kind and value.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == other.s
	case KindInt, KindBool:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindTimestamp:
		return v.ts.Equal(other.ts)
	case KindBigInt:
		return v.big.Cmp(other.big) == 0
	}
	return true
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.i == 1)
	case KindTimestamp:
		return v.ts.String()
	case KindBigInt:
		return v.big.String()
	}
	return "undefined"
}
