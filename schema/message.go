package schema

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Number is a field number on the wire.
type Number = protowire.Number

// Kind is the scalar or composite kind of a field.
type Kind uint8

// Field kinds, mirroring the protocol buffer scalar types.
const (
	InvalidKind Kind = iota
	BoolKind
	Int32Kind
	Sint32Kind
	Uint32Kind
	Int64Kind
	Sint64Kind
	Uint64Kind
	Fixed32Kind
	Sfixed32Kind
	Fixed64Kind
	Sfixed64Kind
	FloatKind
	DoubleKind
	StringKind
	BytesKind
	EnumKind
	MessageKind
)

var kindNames = [...]string{
	"invalid", "bool", "int32", "sint32", "uint32", "int64", "sint64", "uint64",
	"fixed32", "sfixed32", "fixed64", "sfixed64", "float", "double", "string",
	"bytes", "enum", "message",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// WireType returns the protobuf wire type of a single value of kind k.
func (k Kind) WireType() protowire.Type {
	switch k {
	case BoolKind, Int32Kind, Sint32Kind, Uint32Kind, Int64Kind, Sint64Kind, Uint64Kind, EnumKind:
		return protowire.VarintType
	case Fixed32Kind, Sfixed32Kind, FloatKind:
		return protowire.Fixed32Type
	case Fixed64Kind, Sfixed64Kind, DoubleKind:
		return protowire.Fixed64Type
	}
	return protowire.BytesType
}

// Packable is true for kinds which may be encoded as packed repeated fields.
func (k Kind) Packable() bool {
	return k != InvalidKind && k.WireType() != protowire.BytesType
}

// Is64Bit is true for integer kinds with 64 bit range. Property trees
// represent them as big integers.
func (k Kind) Is64Bit() bool {
	switch k {
	case Int64Kind, Sint64Kind, Uint64Kind, Fixed64Kind, Sfixed64Kind:
		return true
	}
	return false
}

// Enum describes the symbolic names of an enum type.
type Enum struct {
	Name   string
	Values map[int32]string
}

// NameOf returns the symbolic name of an enum number.
func (e *Enum) NameOf(n int32) (string, bool) {
	if e == nil {
		return "", false
	}
	name, ok := e.Values[n]
	return name, ok
}

// Field describes one field of a message.
type Field struct {
	Number   protowire.Number
	Name     string
	Kind     Kind
	Repeated bool
	Message  *Message // for MessageKind
	Enum     *Enum    // for EnumKind, optional
}

func (f *Field) String() string {
	rep := ""
	if f.Repeated {
		rep = "repeated "
	}
	return fmt.Sprintf("%s%s %s = %d", rep, f.Kind, f.Name, f.Number)
}

// Message describes a message type as an ordered list of fields.
type Message struct {
	Name     string
	Fields   []*Field
	byNumber map[protowire.Number]*Field
	byName   map[string]*Field
}

// NewMessage creates a message descriptor. Field numbers and names must be
// unique, which is checked by Validate.
func NewMessage(name string, fields ...*Field) *Message {
	m := &Message{Name: name}
	for _, f := range fields {
		m.Add(f)
	}
	return m
}

// Add appends a field to m. It returns m to allow for chaining. Adding
// fields after construction allows recursive message types.
func (m *Message) Add(f *Field) *Message {
	if m.byNumber == nil {
		m.byNumber = make(map[protowire.Number]*Field)
		m.byName = make(map[string]*Field)
	}
	m.Fields = append(m.Fields, f)
	m.byNumber[f.Number] = f
	m.byName[f.Name] = f
	return m
}

// FieldByNumber finds a field by its wire number.
func (m *Message) FieldByNumber(n protowire.Number) (*Field, bool) {
	f, ok := m.byNumber[n]
	return f, ok
}

// FieldByName finds a field by name.
func (m *Message) FieldByName(name string) (*Field, bool) {
	f, ok := m.byName[name]
	return f, ok
}

// Validate checks a message descriptor and all message descriptors reachable
// from it.
func (m *Message) Validate() error {
	return m.validate(make(map[*Message]bool))
}

func (m *Message) validate(seen map[*Message]bool) error {
	if seen[m] {
		return nil
	}
	seen[m] = true
	if len(m.byNumber) != len(m.Fields) || len(m.byName) != len(m.Fields) {
		return fmt.Errorf("message %s: duplicate field numbers or names", m.Name)
	}
	for _, f := range m.Fields {
		if !f.Number.IsValid() {
			return fmt.Errorf("message %s: field %s has invalid number %d", m.Name, f.Name, f.Number)
		}
		if f.Kind == InvalidKind || f.Kind > MessageKind {
			return fmt.Errorf("message %s: field %s has invalid kind", m.Name, f.Name)
		}
		if f.Kind == MessageKind {
			if f.Message == nil {
				return fmt.Errorf("message %s: field %s lacks a message type", m.Name, f.Name)
			}
			if err := f.Message.validate(seen); err != nil {
				return err
			}
		}
	}
	return nil
}
