package parser

import (
	"fmt"

	"github.com/npillmayer/tracescope"
)

// Registry is an ordered list of formats. Buffers are matched against the
// formats in registration order; the first match wins.
type Registry struct {
	formats []*Format
}

// NewRegistry creates a registry for a list of formats. It fails if one of
// the formats is unusable or a trace type is registered twice.
func NewRegistry(formats ...*Format) (*Registry, error) {
	r := &Registry{}
	for _, f := range formats {
		if err := r.Register(f); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultRegistry returns a registry holding all known formats.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(KnownFormats()...)
	if err != nil {
		panic(err) // known formats are fixed
	}
	return r
}

// Register appends a format.
func (r *Registry) Register(f *Format) error {
	if f == nil {
		return fmt.Errorf("cannot register nil format")
	}
	if err := f.check(); err != nil {
		return err
	}
	for _, g := range r.formats {
		if g.Type == f.Type {
			return fmt.Errorf("format for %s already registered", f.Type)
		}
	}
	r.formats = append(r.formats, f)
	return nil
}

// Formats returns the registered formats in registration order.
func (r *Registry) Formats() []*Format {
	return append([]*Format(nil), r.formats...)
}

// ForType returns the format registered for a trace type.
func (r *Registry) ForType(t TraceType) (*Format, bool) {
	for _, f := range r.formats {
		if f.Type == t {
			return f, true
		}
	}
	return nil, false
}

// Sniff returns the first registered format whose magic number prefixes buf.
// Without a match it fails with tracescope.ErrFormat.
func (r *Registry) Sniff(buf []byte) (*Format, error) {
	for _, f := range r.formats {
		if f.Validate(buf) {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: no registered format matches", tracescope.ErrFormat)
}

// Parse sniffs the format of buf and decodes it.
func (r *Registry) Parse(buf []byte) (*Parser, error) {
	f, err := r.Sniff(buf)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("buffer of %d bytes is a %s capture", len(buf), f.Type)
	return f.Decode(buf)
}
