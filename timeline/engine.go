package timeline

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/npillmayer/tracescope"
	"github.com/npillmayer/tracescope/parser"
	"github.com/npillmayer/tracescope/timestamp"
)

// ErrNoTimestamps is returned by Initialize if none of the sources has a
// timestamp in the requested domain.
var ErrNoTimestamps = errors.New("no timestamps to build a timeline from")

// ErrOutOfRange is returned for positions outside the full time range.
var ErrOutOfRange = errors.New("position outside of timeline")

// ErrNotInitialized is returned by mutators called before Initialize.
var ErrNotInitialized = errors.New("timeline not initialized")

// ErrInvalidFactor is returned for zoom factors pointing in the wrong direction.
var ErrInvalidFactor = errors.New("invalid zoom factor")

// Source is a trace contributing timestamps to a timeline.
type Source interface {
	TraceType() parser.TraceType
	Timestamps(d timestamp.Domain) ([]timestamp.Timestamp, error)
}

// Default zoom factors, applied to the distances between cursor and window bounds.
var (
	DefaultZoomInFactor  = big.NewRat(6, 7)
	DefaultZoomOutFactor = big.NewRat(8, 7)
)

// Engine holds full range, zoom range and cursor of a set of traces.
type Engine struct {
	priority  []parser.TraceType
	zoomIn    *big.Rat
	zoomOut   *big.Rat
	domain    timestamp.Domain
	stamps    map[parser.TraceType][]timestamp.Timestamp
	full      timestamp.TimeRange
	zoom      timestamp.TimeRange
	cursor    Position
	hasRanges bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithPriority sets the order in which traces break ties between equal
// timestamps. Trace types not listed rank behind listed ones, in the default
// order of parser.AllTraceTypes.
func WithPriority(types ...parser.TraceType) Option {
	return func(e *Engine) {
		prio := append([]parser.TraceType(nil), types...)
		for _, t := range parser.AllTraceTypes {
			if indexOf(prio, t) < 0 {
				prio = append(prio, t)
			}
		}
		e.priority = prio
	}
}

// WithZoomFactors sets the factors of ZoomInOnCursor and ZoomOutOnCursor.
// Factors not within (0,1) for zooming in or above 1 for zooming out are
// ignored.
func WithZoomFactors(in, out float64) Option {
	return func(e *Engine) {
		if in > 0 && in < 1 {
			e.zoomIn = new(big.Rat).SetFloat64(in)
		} else {
			tracer().Errorf("ignoring zoom-in factor %g", in)
		}
		if out > 1 {
			e.zoomOut = new(big.Rat).SetFloat64(out)
		} else {
			tracer().Errorf("ignoring zoom-out factor %g", out)
		}
	}
}

// New creates an engine. It has to be initialized before use.
func New(opts ...Option) *Engine {
	e := &Engine{
		priority: append([]parser.TraceType(nil), parser.AllTraceTypes...),
		zoomIn:   DefaultZoomInFactor,
		zoomOut:  DefaultZoomOutFactor,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func indexOf(types []parser.TraceType, t parser.TraceType) int {
	for i, x := range types {
		if x == t {
			return i
		}
	}
	return -1
}

func (e *Engine) rank(t parser.TraceType) int {
	if i := indexOf(e.priority, t); i >= 0 {
		return i
	}
	return len(e.priority) + int(t)
}

// PreferredDomain returns Real if every source supports it, Elapsed otherwise.
func PreferredDomain(sources []Source) timestamp.Domain {
	if len(sources) == 0 {
		return timestamp.Elapsed
	}
	for _, s := range sources {
		if _, err := s.Timestamps(timestamp.Real); err != nil {
			return timestamp.Elapsed
		}
	}
	return timestamp.Real
}

// Initialize sets up the timeline for sources in domain d. Sources not
// supporting d or without entries are left out. The full range spans all
// timestamps, the zoom range equals the full range and the cursor is put on
// the first entry. Entries with equal timestamps are ordered by trace priority.
func (e *Engine) Initialize(sources []Source, d timestamp.Domain) error {
	stamps := make(map[parser.TraceType][]timestamp.Timestamp)
	var all []timestamp.Timestamp
	for _, s := range sources {
		ts, err := s.Timestamps(d)
		if err != nil {
			tracer().P("trace", s.TraceType()).Infof("not on timeline: %v", err)
			continue
		}
		if len(ts) == 0 {
			continue
		}
		if _, dup := stamps[s.TraceType()]; dup {
			tracer().P("trace", s.TraceType()).Errorf("duplicate trace type, ignoring")
			continue
		}
		stamps[s.TraceType()] = ts
		all = append(all, ts...)
	}
	full, ok := timestamp.Span(all)
	if !ok {
		return fmt.Errorf("%w in domain %s", ErrNoTimestamps, d)
	}
	first := Position{Index: -1}
	types := make([]parser.TraceType, 0, len(stamps))
	for t := range stamps {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return e.rank(types[i]) < e.rank(types[j]) })
	for _, t := range types {
		ts := stamps[t]
		i := 0
		for j := range ts {
			if ts[j].Before(ts[i]) {
				i = j
			}
		}
		if !first.HasEntry() || ts[i].Before(first.Timestamp) {
			first = AtEntry(ts[i], t, i)
		}
	}
	e.domain = d
	e.stamps = stamps
	e.full, e.zoom = full, full
	e.cursor = first
	e.hasRanges = true
	e.checkInvariants()
	tracer().Infof("timeline %s with %d traces, cursor at %s", full, len(stamps), first)
	return nil
}

// Domain returns the time domain of the timeline.
func (e *Engine) Domain() timestamp.Domain { return e.domain }

// FullRange returns the range spanning all timestamps.
func (e *Engine) FullRange() timestamp.TimeRange { return e.full }

// ZoomRange returns the current zoom window.
func (e *Engine) ZoomRange() timestamp.TimeRange { return e.zoom }

// CurrentPosition returns the cursor.
func (e *Engine) CurrentPosition() Position { return e.cursor }

// IsZoomed is true if the zoom window is narrower than the full range.
func (e *Engine) IsZoomed() bool { return !e.zoom.Equal(e.full) }

// Traces returns the trace types on the timeline, in priority order.
func (e *Engine) Traces() []parser.TraceType {
	var types []parser.TraceType
	for _, t := range e.priority {
		if _, ok := e.stamps[t]; ok {
			types = append(types, t)
		}
	}
	return types
}

func (e *Engine) checkDomain(ts timestamp.Timestamp) error {
	if !e.hasRanges {
		return ErrNotInitialized
	}
	if ts.Domain() != e.domain {
		return fmt.Errorf("%w: timeline is %s, got %s", tracescope.ErrUnsupportedDomain, e.domain, ts.Domain())
	}
	return nil
}

// SetZoom sets the zoom window, after clamping both bounds into the full range.
func (e *Engine) SetZoom(r timestamp.TimeRange) error {
	if err := e.checkDomain(r.From); err != nil {
		return err
	}
	if err := e.checkDomain(r.To); err != nil {
		return err
	}
	if r.From.After(r.To) {
		return fmt.Errorf("%w: zoom range %s is reversed", tracescope.ErrInvariant, r)
	}
	e.zoom = e.full.ClampRange(r)
	e.checkInvariants()
	return nil
}

// ResetZoom sets the zoom window to the full range.
func (e *Engine) ResetZoom() {
	e.zoom = e.full
	e.checkInvariants()
}

// SetPosition moves the cursor. The zoom window is left unchanged.
// Positions outside the full range fail with ErrOutOfRange.
func (e *Engine) SetPosition(p Position) error {
	if err := e.checkDomain(p.Timestamp); err != nil {
		return err
	}
	if !e.full.Contains(p.Timestamp) {
		return fmt.Errorf("%w: %s not in %s", ErrOutOfRange, p, e.full)
	}
	if p.HasEntry() {
		ts, ok := e.stamps[p.Trace]
		if !ok || p.Index >= len(ts) {
			return fmt.Errorf("%w: no entry %d of %s on timeline", tracescope.ErrIndex, p.Index, p.Trace)
		}
	}
	e.cursor = p
	e.checkInvariants()
	return nil
}

// SetTimestamp moves the cursor to ts, without reference to an entry.
func (e *Engine) SetTimestamp(ts timestamp.Timestamp) error {
	return e.SetPosition(At(ts))
}

// ZoomIn shrinks the zoom window towards cursor by factor, 0 < factor < 1.
func (e *Engine) ZoomIn(cursor timestamp.Timestamp, factor float64) error {
	if !(factor > 0 && factor < 1) {
		return fmt.Errorf("%w: cannot zoom in by %g", ErrInvalidFactor, factor)
	}
	return e.zoomAround(cursor, new(big.Rat).SetFloat64(factor))
}

// ZoomOut grows the zoom window away from cursor by factor > 1.
func (e *Engine) ZoomOut(cursor timestamp.Timestamp, factor float64) error {
	if !(factor > 1) {
		return fmt.Errorf("%w: cannot zoom out by %g", ErrInvalidFactor, factor)
	}
	return e.zoomAround(cursor, new(big.Rat).SetFloat64(factor))
}

// ZoomInOnCursor zooms in on the cursor by the configured factor.
func (e *Engine) ZoomInOnCursor() error {
	if !e.hasRanges {
		return ErrNotInitialized
	}
	return e.zoomAround(e.cursor.Timestamp, e.zoomIn)
}

// ZoomOutOnCursor zooms out from the cursor by the configured factor.
func (e *Engine) ZoomOutOnCursor() error {
	if !e.hasRanges {
		return ErrNotInitialized
	}
	return e.zoomAround(e.cursor.Timestamp, e.zoomOut)
}

// zoomAround scales the distances from the cursor to both window bounds.
// A cursor outside the window is moved to the nearest bound first.
func (e *Engine) zoomAround(cursor timestamp.Timestamp, factor *big.Rat) error {
	if err := e.checkDomain(cursor); err != nil {
		return err
	}
	c := e.zoom.Clamp(cursor).Nanos()
	from, to := e.zoom.From.Nanos(), e.zoom.To.Nanos()
	growing := factor.Cmp(big.NewRat(1, 1)) > 0
	before := scale(new(big.Int).Sub(c, from), factor, growing)
	after := scale(new(big.Int).Sub(to, c), factor, growing)
	newFrom := new(big.Int).Sub(c, before)
	newTo := new(big.Int).Add(c, after)
	fullFrom, fullTo := e.full.From.Nanos(), e.full.To.Nanos()
	if growing && newFrom.Cmp(from) == 0 && newTo.Cmp(to) == 0 { // zero-width window
		if newTo.Cmp(fullTo) < 0 {
			newTo.Add(newTo, big.NewInt(1))
		} else {
			newFrom.Sub(newFrom, big.NewInt(1))
		}
	}
	if newFrom.Cmp(fullFrom) < 0 {
		newFrom = fullFrom
	}
	if newTo.Cmp(fullTo) > 0 {
		newTo = fullTo
	}
	zoom, err := e.rangeOf(newFrom, newTo)
	if err != nil {
		return err
	}
	if !zoom.Equal(e.zoom) {
		tracer().Debugf("zoom %s → %s around %s", e.zoom, zoom, cursor)
	}
	e.zoom = zoom
	e.checkInvariants()
	return nil
}

// scale returns d·factor, rounded up when growing and down otherwise.
func scale(d *big.Int, factor *big.Rat, growing bool) *big.Int {
	x := new(big.Rat).Mul(new(big.Rat).SetInt(d), factor)
	q, r := new(big.Int).QuoRem(x.Num(), x.Denom(), new(big.Int))
	if growing && r.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

func (e *Engine) rangeOf(from, to *big.Int) (timestamp.TimeRange, error) {
	f, err := timestamp.New(e.domain, from)
	if err != nil {
		return timestamp.TimeRange{}, err
	}
	t, err := timestamp.New(e.domain, to)
	if err != nil {
		return timestamp.TimeRange{}, err
	}
	return timestamp.NewTimeRange(f, t)
}

// NextEntry moves the cursor to the next entry of trace t and returns the
// new position. Without a next entry it fails with tracescope.ErrIndex.
func (e *Engine) NextEntry(t parser.TraceType) (Position, error) {
	return e.step(t, +1)
}

// PreviousEntry moves the cursor to the previous entry of trace t and returns
// the new position. Without a previous entry it fails with tracescope.ErrIndex.
func (e *Engine) PreviousEntry(t parser.TraceType) (Position, error) {
	return e.step(t, -1)
}

func (e *Engine) step(t parser.TraceType, dir int) (Position, error) {
	if !e.hasRanges {
		return Position{}, ErrNotInitialized
	}
	ts, ok := e.stamps[t]
	if !ok {
		return e.cursor, fmt.Errorf("%w: %s not on timeline", tracescope.ErrIndex, t)
	}
	var i int
	if e.cursor.HasEntry() && e.cursor.Trace == t {
		i = e.cursor.Index + dir
	} else if dir > 0 {
		i = sort.Search(len(ts), func(k int) bool { return ts[k].After(e.cursor.Timestamp) })
	} else {
		i = sort.Search(len(ts), func(k int) bool { return !ts[k].Before(e.cursor.Timestamp) }) - 1
	}
	if i < 0 || i >= len(ts) {
		return e.cursor, fmt.Errorf("%w: no entry of %s beyond %s", tracescope.ErrIndex, t, e.cursor)
	}
	p := AtEntry(ts[i], t, i)
	if err := e.SetPosition(p); err != nil {
		return e.cursor, err
	}
	return p, nil
}

// checkInvariants panics if the ranges or the cursor are inconsistent.
func (e *Engine) checkInvariants() {
	if !e.hasRanges {
		return
	}
	assertThat(e.full.Domain() == e.domain && e.zoom.Domain() == e.domain &&
		e.cursor.Timestamp.Domain() == e.domain, "mixed domains")
	assertThat(!e.full.From.After(e.zoom.From), "zoom %s starts before %s", e.zoom, e.full)
	assertThat(!e.zoom.From.After(e.zoom.To), "zoom %s is reversed", e.zoom)
	assertThat(!e.zoom.To.After(e.full.To), "zoom %s ends after %s", e.zoom, e.full)
	assertThat(e.zoom.Width().Cmp(e.full.Width()) <= 0, "zoom %s wider than %s", e.zoom, e.full)
	assertThat(e.full.Contains(e.cursor.Timestamp), "cursor %s outside of %s", e.cursor, e.full)
}
