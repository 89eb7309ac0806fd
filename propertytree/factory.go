package propertytree

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"

	"github.com/npillmayer/tracescope/schema"
	"github.com/npillmayer/tracescope/timestamp"
)

// Factory builds property trees from decoded records.
//
// Scalar fields become leaves, nested messages interior nodes. A repeated
// field becomes an interior node named like the field, holding one child per
// element, named by its position ("0", "1", …). Absent fields are omitted.
// Integers of 64 bit kinds become big integers, and integer fields listed in
// TimestampFields become timestamps of the given domain.
type Factory struct {
	TimestampFields map[string]timestamp.Domain
}

// FromRecord builds a property tree with the default factory.
func FromRecord(rec *schema.Record, rootID, rootName string) (*Node, error) {
	return Factory{}.FromRecord(rec, rootID, rootName)
}

// FromRecord builds a property tree for a decoded record. The root gets id
// rootID, all other ids are derived from the schema path.
func (f Factory) FromRecord(rec *schema.Record, rootID, rootName string) (*Node, error) {
	if rec == nil {
		return nil, invariant("cannot build tree %s from nil record", rootID)
	}
	root := NewRoot(rootID, rootName)
	if err := f.addFields(root, rec); err != nil {
		return nil, err
	}
	return root, nil
}

func (f Factory) addFields(parent *Node, rec *schema.Record) error {
	for _, fv := range rec.Fields() {
		field := fv.Field
		if !field.Repeated {
			if len(fv.Values) == 0 {
				continue
			}
			ch, err := f.makeNode(parent.id, field.Name, field, fv.Values[len(fv.Values)-1])
			if err != nil {
				return err
			}
			if err = parent.AddChild(ch); err != nil {
				return err
			}
			continue
		}
		container := NewNode(ChildID(parent.id, field.Name), field.Name)
		for i, v := range fv.Values {
			ch, err := f.makeNode(container.id, strconv.Itoa(i), field, v)
			if err != nil {
				return err
			}
			if err = container.AddChild(ch); err != nil {
				return err
			}
		}
		if err := parent.AddChild(container); err != nil {
			return err
		}
	}
	return nil
}

func (f Factory) makeNode(parentID, name string, field *schema.Field, v schema.Value) (*Node, error) {
	id := ChildID(parentID, name)
	if sub, ok := v.(*schema.Record); ok {
		n := NewNode(id, name)
		if err := f.addFields(n, sub); err != nil {
			return nil, err
		}
		return n, nil
	}
	val, err := f.scalar(field, v)
	if err != nil {
		return nil, fmt.Errorf("property %s: %w", id, err)
	}
	return NewLeaf(id, name, val), nil
}

func (f Factory) scalar(field *schema.Field, v schema.Value) (Value, error) {
	if d, ok := f.TimestampFields[field.Name]; ok {
		switch n := v.(type) {
		case uint64:
			return Time(timestamp.FromUint64(d, n)), nil
		case int64:
			if n >= 0 {
				return Time(timestamp.FromInt64(d, n)), nil
			}
		}
	}
	switch x := v.(type) {
	case bool:
		return Bool(x), nil
	case int32:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case int64:
		return BigInt(big.NewInt(x)), nil
	case uint64:
		return BigInt(new(big.Int).SetUint64(x)), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case string:
		return String(x), nil
	case []byte:
		return String(hex.EncodeToString(x)), nil
	}
	return Undefined(), fmt.Errorf("unsupported value type %T", v)
}
