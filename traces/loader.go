package traces

import (
	"fmt"

	"github.com/npillmayer/tracescope/operations"
	"github.com/npillmayer/tracescope/parser"
	"github.com/npillmayer/tracescope/timeline"
	"go.uber.org/multierr"
)

// File is a named capture file, possibly compressed.
type File struct {
	Name string
	Data []byte
}

// Failure records a file which could not be loaded.
type Failure struct {
	File string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("trace %s unavailable: %v", f.File, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Loader loads capture files. Its zero value is ready to use.
type Loader struct {
	Registry  *parser.Registry                            // formats to sniff; nil for all known formats
	Pipelines func(t parser.TraceType) *operations.Pipeline // nil for operations.ForTraceType
	CacheSize int                                         // entry trees cached per trace; ≤ 0 for DefaultCacheSize
}

// Load decodes files. Traces failing to load are skipped and reported by the
// returned error, which combines one Failure per file. Only the first file of
// each trace type is loaded.
//
// Real timestamps of traces lacking a real-to-elapsed offset are derived
// from the offset of the first trace having one.
func (l Loader) Load(files []File) (*Traces, error) {
	registry := l.Registry
	if registry == nil {
		registry = parser.DefaultRegistry()
	}
	pipelines := l.Pipelines
	if pipelines == nil {
		pipelines = operations.ForTraceType
	}
	ts := &Traces{}
	var errs error
	fail := func(name string, err error) {
		failure := Failure{File: name, Err: err}
		tracer().Errorf(failure.Error())
		ts.failures = append(ts.failures, failure)
		errs = multierr.Append(errs, failure)
	}
	var names []string
	var parsers []*parser.Parser
	loaded := make(map[parser.TraceType]string)
	for _, f := range files {
		buf, err := Decompress(f.Data)
		if err != nil {
			fail(f.Name, err)
			continue
		}
		p, err := registry.Parse(buf)
		if err != nil {
			fail(f.Name, err)
			continue
		}
		if other, dup := loaded[p.TraceType()]; dup {
			fail(f.Name, fmt.Errorf("%s trace already loaded from %s", p.TraceType(), other))
			continue
		}
		loaded[p.TraceType()] = f.Name
		names = append(names, f.Name)
		parsers = append(parsers, p)
	}
	synchronize(parsers)
	for i, p := range parsers {
		t, err := NewTrace(names[i], p, pipelines(p.TraceType()), l.CacheSize)
		if err != nil {
			fail(names[i], err)
			continue
		}
		tracer().Infof("loaded %s", t)
		ts.traces = append(ts.traces, t)
	}
	return ts, errs
}

// synchronize hands the first known real-to-elapsed offset to every parser
// lacking one.
func synchronize(parsers []*parser.Parser) {
	for _, p := range parsers {
		offset, ok := p.RealToElapsedOffset()
		if !ok {
			continue
		}
		for _, q := range parsers {
			if _, has := q.RealToElapsedOffset(); !has {
				if err := q.RegisterOffset(offset); err != nil {
					tracer().Errorf("cannot register offset with %s: %v", q.TraceType(), err)
				}
			}
		}
		return
	}
}

// Traces is an ordered collection of loaded traces, at most one per type.
type Traces struct {
	traces   []*Trace
	failures []Failure
}

// Len returns the number of loaded traces.
func (ts *Traces) Len() int { return len(ts.traces) }

// Get returns the trace of a given type.
func (ts *Traces) Get(t parser.TraceType) (*Trace, bool) {
	for _, trace := range ts.traces {
		if trace.TraceType() == t {
			return trace, true
		}
	}
	return nil, false
}

// ForEach calls f for every trace in load order, until f returns false.
func (ts *Traces) ForEach(f func(*Trace) bool) {
	for _, trace := range ts.traces {
		if !f(trace) {
			return
		}
	}
}

// Failures returns the files which could not be loaded.
func (ts *Traces) Failures() []Failure {
	return append([]Failure(nil), ts.failures...)
}

// Sources returns the traces as timeline sources.
func (ts *Traces) Sources() []timeline.Source {
	sources := make([]timeline.Source, len(ts.traces))
	for i, t := range ts.traces {
		sources[i] = t
	}
	return sources
}
