package parser

import (
	"fmt"
	"math/big"

	"github.com/npillmayer/tracescope"
	"github.com/npillmayer/tracescope/schema"
	"github.com/npillmayer/tracescope/timestamp"
)

// RawEntry is one decoded entry of a capture file.
type RawEntry struct {
	Index   int            // position within the capture file
	Record  *schema.Record // decoded payload
	elapsed timestamp.Timestamp
	real    *timestamp.Timestamp // nil if not derivable
}

// Timestamp returns the timestamp of the entry in domain d.
func (e *RawEntry) Timestamp(d timestamp.Domain) (timestamp.Timestamp, bool) {
	switch d {
	case timestamp.Elapsed:
		return e.elapsed, true
	case timestamp.Real:
		if e.real != nil {
			return *e.real, true
		}
	}
	return timestamp.Timestamp{}, false
}

func (e *RawEntry) String() string {
	return fmt.Sprintf("entry #%d @ %s", e.Index, e.elapsed)
}

// Parser holds the decoded entries of one capture file and provides random
// access to them. Parsers are created by Format.Decode or Registry.Parse.
type Parser struct {
	format  *Format
	entries []*RawEntry
	offset  *big.Int // real-to-elapsed offset, nil if unknown
}

// TraceType returns the type of the decoded capture file.
func (p *Parser) TraceType() TraceType {
	return p.format.Type
}

// Format returns the format the capture file was decoded with.
func (p *Parser) Format() *Format {
	return p.format
}

// EntryCount returns the number of entries.
func (p *Parser) EntryCount() int {
	return len(p.entries)
}

// EntryAt returns entry i. Out-of-range access fails with tracescope.ErrIndex.
func (p *Parser) EntryAt(i int) (*RawEntry, error) {
	if i < 0 || i >= len(p.entries) {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", tracescope.ErrIndex, i, len(p.entries))
	}
	return p.entries[i], nil
}

// SupportsDomain is true if timestamps of domain d can be derived for all entries.
func (p *Parser) SupportsDomain(d timestamp.Domain) bool {
	for _, e := range p.entries {
		if _, ok := e.Timestamp(d); !ok {
			return false
		}
	}
	return true
}

// Timestamp returns the timestamp of an entry in domain d. It fails with
// tracescope.ErrUnsupportedDomain if the domain is neither stored natively nor
// derivable through a synchronization offset.
func (p *Parser) Timestamp(e *RawEntry, d timestamp.Domain) (timestamp.Timestamp, error) {
	if ts, ok := e.Timestamp(d); ok {
		return ts, nil
	}
	return timestamp.Timestamp{}, fmt.Errorf("%w: %s for %s entry %d",
		tracescope.ErrUnsupportedDomain, d, p.format.Type, e.Index)
}

// Timestamps returns the timestamps of all entries in domain d, in entry order.
func (p *Parser) Timestamps(d timestamp.Domain) ([]timestamp.Timestamp, error) {
	stamps := make([]timestamp.Timestamp, len(p.entries))
	for i, e := range p.entries {
		ts, err := p.Timestamp(e, d)
		if err != nil {
			return nil, err
		}
		stamps[i] = ts
	}
	return stamps, nil
}

// RealToElapsedOffset returns the offset between real and elapsed time, if known.
func (p *Parser) RealToElapsedOffset() (*big.Int, bool) {
	if p.offset == nil {
		return nil, false
	}
	return new(big.Int).Set(p.offset), true
}

// RegisterOffset registers a real-to-elapsed offset for a capture file which
// does not carry one, usually taken from another trace of the same recording.
// Entries without a native real timestamp get one derived from the offset.
// An offset recorded in the file itself takes precedence.
func (p *Parser) RegisterOffset(offset *big.Int) error {
	if offset == nil || offset.Sign() <= 0 {
		return fmt.Errorf("%w: offset must be positive, is %v", tracescope.ErrUnsupportedDomain, offset)
	}
	if p.offset != nil {
		return nil
	}
	p.offset = new(big.Int).Set(offset)
	p.deriveReal()
	return nil
}

func (p *Parser) deriveReal() {
	if p.offset == nil {
		return
	}
	for _, e := range p.entries {
		if e.real == nil {
			ts := e.elapsed.InDomain(timestamp.Real).PlusNanos(p.offset)
			e.real = &ts
		}
	}
}
