package parser

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/npillmayer/tracescope"
	"github.com/npillmayer/tracescope/schema"
	"github.com/npillmayer/tracescope/timestamp"
)

// Default field names of capture file schemas.
const (
	DefaultEntryField   = "entry"
	DefaultElapsedField = "elapsedRealtimeNanos"
	DefaultOffsetField  = "realToElapsedTimeOffsetNanos"
)

// Format describes the binary layout of the capture files of one trace type.
// Zero-valued field names fall back to the defaults above.
type Format struct {
	Type     TraceType
	Magic    []byte          // fixed-length prefix of every capture file
	File     *schema.Message // schema of the whole file
	RootName string          // name of property tree roots built from entries

	EntryField   string   // repeated entry field of the file message
	ElapsedField []string // path to the elapsed time of an entry
	RealField    []string // optional path to a native real time of an entry
	OffsetField  string   // file-level real-to-elapsed offset; "-" if there is none
}

func (f *Format) String() string {
	return fmt.Sprintf("format(%s)", f.Type)
}

func (f *Format) entryField() string {
	if f.EntryField == "" {
		return DefaultEntryField
	}
	return f.EntryField
}

func (f *Format) elapsedField() []string {
	if len(f.ElapsedField) == 0 {
		return []string{DefaultElapsedField}
	}
	return f.ElapsedField
}

func (f *Format) offsetField() string {
	if f.OffsetField == "" {
		return DefaultOffsetField
	}
	return f.OffsetField
}

// TimestampFields maps the names of the timestamp fields of an entry to
// their domain, for building property trees with timestamp leaves.
func (f *Format) TimestampFields() map[string]timestamp.Domain {
	el := f.elapsedField()
	fields := map[string]timestamp.Domain{el[len(el)-1]: timestamp.Elapsed}
	if len(f.RealField) > 0 {
		fields[f.RealField[len(f.RealField)-1]] = timestamp.Real
	}
	return fields
}

// EntryMessage returns the schema of a single entry.
func (f *Format) EntryMessage() (*schema.Message, bool) {
	ef, ok := f.File.FieldByName(f.entryField())
	if !ok || ef.Kind != schema.MessageKind {
		return nil, false
	}
	return ef.Message, true
}

// MagicValue returns the fixed64 value of the magic number field, which is
// what encoders write into field 1 of a capture file.
func (f *Format) MagicValue() uint64 {
	if len(f.Magic) < 9 {
		return 0
	}
	return binary.LittleEndian.Uint64(f.Magic[1:9])
}

// check verifies that a format is usable.
func (f *Format) check() error {
	if len(f.Magic) == 0 {
		return fmt.Errorf("%s: empty magic number", f)
	}
	if f.File == nil {
		return fmt.Errorf("%s: no file schema", f)
	}
	if err := f.File.Validate(); err != nil {
		return fmt.Errorf("%s: %w", f, err)
	}
	ef, ok := f.File.FieldByName(f.entryField())
	if !ok || ef.Kind != schema.MessageKind || !ef.Repeated {
		return fmt.Errorf("%s: file message lacks repeated entry field %q", f, f.entryField())
	}
	return nil
}

// Validate checks the fixed-length magic number prefix of buf.
func (f *Format) Validate(buf []byte) bool {
	return len(buf) >= len(f.Magic) && bytes.Equal(buf[:len(f.Magic)], f.Magic)
}

// Decode validates buf and decodes all of its entries.
//
// A prefix mismatch fails with tracescope.ErrFormat before any schema decoding
// takes place. A malformed payload fails with tracescope.ErrDecode, and so do
// entries whose timestamps decrease: entries are kept in time order.
func (f *Format) Decode(buf []byte) (*Parser, error) {
	if !f.Validate(buf) {
		return nil, fmt.Errorf("%w: magic number of %s does not match", tracescope.ErrFormat, f.Type)
	}
	file, err := schema.Decode(buf, f.File)
	if err != nil {
		return nil, err
	}
	p := &Parser{format: f}
	if f.OffsetField != "-" {
		if off, ok := file.Uint64(f.offsetField()); ok && off != 0 {
			p.offset = new(big.Int).SetUint64(off)
		}
	}
	records := file.Messages(f.entryField())
	p.entries = make([]*RawEntry, len(records))
	var lastReal *timestamp.Timestamp
	for i, rec := range records {
		e := &RawEntry{Index: i, Record: rec}
		elapsed, ok := rec.Uint64(f.elapsedField()...)
		if !ok {
			return nil, fmt.Errorf("%w: %s entry %d lacks an elapsed timestamp", tracescope.ErrDecode, f.Type, i)
		}
		e.elapsed = timestamp.FromUint64(timestamp.Elapsed, elapsed)
		if i > 0 && e.elapsed.Before(p.entries[i-1].elapsed) {
			return nil, fmt.Errorf("%w: %s entry %d at %s precedes entry %d at %s", tracescope.ErrDecode,
				f.Type, i, e.elapsed, i-1, p.entries[i-1].elapsed)
		}
		if len(f.RealField) > 0 {
			if wall, ok := rec.Uint64(f.RealField...); ok {
				ts := timestamp.FromUint64(timestamp.Real, wall)
				if lastReal != nil && ts.Before(*lastReal) {
					return nil, fmt.Errorf("%w: %s entry %d at %s precedes an earlier entry at %s", tracescope.ErrDecode,
						f.Type, i, ts, *lastReal)
				}
				e.real, lastReal = &ts, &ts
			}
		}
		p.entries[i] = e
	}
	p.deriveReal()
	tracer().Debugf("decoded %d %s entries", len(p.entries), f.Type)
	return p, nil
}
