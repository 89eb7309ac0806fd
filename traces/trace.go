package traces

import (
	"fmt"
	"sort"

	lru "github.com/hashicorp/golang-lru"
	"github.com/npillmayer/tracescope"
	"github.com/npillmayer/tracescope/operations"
	"github.com/npillmayer/tracescope/parser"
	"github.com/npillmayer/tracescope/propertytree"
	"github.com/npillmayer/tracescope/timestamp"
)

// DefaultCacheSize is the number of entry trees a trace keeps by default.
const DefaultCacheSize = 64

// Trace is one loaded capture file.
type Trace struct {
	name     string
	parser   *parser.Parser
	pipeline *operations.Pipeline
	factory  propertytree.Factory
	stamps   map[timestamp.Domain][]timestamp.Timestamp
	cache    *lru.Cache // entry index → frozen *propertytree.Node
}

// NewTrace wraps a parser. The timestamps of the trace are fixed at this
// point, so offsets have to be registered with p beforehand.
func NewTrace(name string, p *parser.Parser, pipeline *operations.Pipeline, cacheSize int) (*Trace, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	t := &Trace{
		name:     name,
		parser:   p,
		pipeline: pipeline,
		factory:  propertytree.Factory{TimestampFields: p.Format().TimestampFields()},
		stamps:   make(map[timestamp.Domain][]timestamp.Timestamp),
		cache:    cache,
	}
	for _, d := range timestamp.Domains {
		if stamps, err := p.Timestamps(d); err == nil {
			t.stamps[d] = stamps
		}
	}
	return t, nil
}

// Name returns the name of the capture file.
func (t *Trace) Name() string { return t.name }

// TraceType returns the type of the trace.
func (t *Trace) TraceType() parser.TraceType { return t.parser.TraceType() }

// Parser returns the parser holding the raw entries.
func (t *Trace) Parser() *parser.Parser { return t.parser }

// Len returns the number of entries.
func (t *Trace) Len() int { return t.parser.EntryCount() }

func (t *Trace) String() string {
	return fmt.Sprintf("%s trace %q (%d entries)", t.TraceType(), t.name, t.Len())
}

// SupportsDomain is true if every entry has a timestamp of domain d.
func (t *Trace) SupportsDomain(d timestamp.Domain) bool {
	_, ok := t.stamps[d]
	return ok
}

// Timestamps returns the timestamps of all entries in domain d, in entry
// order. It fails with tracescope.ErrUnsupportedDomain if d is not supported.
func (t *Trace) Timestamps(d timestamp.Domain) ([]timestamp.Timestamp, error) {
	stamps, ok := t.stamps[d]
	if !ok {
		return nil, fmt.Errorf("%w: %s for %s", tracescope.ErrUnsupportedDomain, d, t)
	}
	return append([]timestamp.Timestamp(nil), stamps...), nil
}

// Entry returns the property tree of entry i, processed by the pipeline of
// the trace and frozen.
func (t *Trace) Entry(i int) (*propertytree.Node, error) {
	if cached, ok := t.cache.Get(i); ok {
		return cached.(*propertytree.Node), nil
	}
	raw, err := t.parser.EntryAt(i)
	if err != nil {
		return nil, err
	}
	rootName := t.parser.Format().RootName
	root, err := t.factory.FromRecord(raw.Record, rootName, rootName)
	if err != nil {
		return nil, fmt.Errorf("%s entry %d: %w", t.TraceType(), i, err)
	}
	if root, err = t.pipeline.Apply(root); err != nil {
		return nil, fmt.Errorf("%s entry %d: %w", t.TraceType(), i, err)
	}
	t.cache.Add(i, root)
	tracer().P("trace", t.name).Debugf("built tree for entry %d", i)
	return root, nil
}

// IndexAt returns the index of the last entry at or before ts. It fails with
// tracescope.ErrIndex if ts precedes the first entry.
func (t *Trace) IndexAt(ts timestamp.Timestamp) (int, error) {
	stamps, ok := t.stamps[ts.Domain()]
	if !ok {
		return -1, fmt.Errorf("%w: %s for %s", tracescope.ErrUnsupportedDomain, ts.Domain(), t)
	}
	i := sort.Search(len(stamps), func(i int) bool {
		return stamps[i].After(ts)
	}) - 1
	if i < 0 {
		return -1, fmt.Errorf("%w: no %s entry at or before %s", tracescope.ErrIndex, t.TraceType(), ts)
	}
	return i, nil
}

// EntryAt returns the tree of the last entry at or before ts.
func (t *Trace) EntryAt(ts timestamp.Timestamp) (*propertytree.Node, error) {
	i, err := t.IndexAt(ts)
	if err != nil {
		return nil, err
	}
	return t.Entry(i)
}
