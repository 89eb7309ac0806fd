package timeline

import (
	"errors"
	"math/big"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tracescope"
	"github.com/npillmayer/tracescope/parser"
	"github.com/npillmayer/tracescope/timestamp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type source struct {
	t      parser.TraceType
	stamps map[timestamp.Domain][]int64
}

func (s source) TraceType() parser.TraceType { return s.t }

func (s source) Timestamps(d timestamp.Domain) ([]timestamp.Timestamp, error) {
	ns, ok := s.stamps[d]
	if !ok {
		return nil, tracescope.ErrUnsupportedDomain
	}
	ts := make([]timestamp.Timestamp, len(ns))
	for i, n := range ns {
		ts[i] = timestamp.FromInt64(d, n)
	}
	return ts, nil
}

func realSource(t parser.TraceType, ns ...int64) source {
	return source{t: t, stamps: map[timestamp.Domain][]int64{timestamp.Real: ns}}
}

func wall(ns int64) timestamp.Timestamp {
	return timestamp.FromInt64(timestamp.Real, ns)
}

func span(from, to int64) timestamp.TimeRange {
	return timestamp.TimeRange{From: wall(from), To: wall(to)}
}

func engine(t *testing.T, opts []Option, sources ...Source) *Engine {
	e := New(opts...)
	require.NoError(t, e.Initialize(sources, timestamp.Real))
	return e
}

func TestInitialize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.timeline")
	defer teardown()
	//
	e := engine(t, nil,
		realSource(parser.WindowManager, 1000),
		realSource(parser.SurfaceFlinger, 10),
	)
	assert.True(t, e.FullRange().Equal(span(10, 1000)), "full range is %s", e.FullRange())
	assert.True(t, e.ZoomRange().Equal(e.FullRange()))
	assert.False(t, e.IsZoomed())
	assert.Equal(t, AtEntry(wall(10), parser.SurfaceFlinger, 0), e.CurrentPosition())
	assert.Equal(t, []parser.TraceType{parser.SurfaceFlinger, parser.WindowManager}, e.Traces())
	//
	// equal first timestamps are tie-broken by priority
	e = engine(t, nil, realSource(parser.WindowManager, 10), realSource(parser.SurfaceFlinger, 10, 20))
	assert.Equal(t, parser.SurfaceFlinger, e.CurrentPosition().Trace)
	e = engine(t, []Option{WithPriority(parser.WindowManager)},
		realSource(parser.SurfaceFlinger, 10, 20), realSource(parser.WindowManager, 10))
	assert.Equal(t, parser.WindowManager, e.CurrentPosition().Trace)
}

func TestInitializeSkipsUnsupportedDomains(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.timeline")
	defer teardown()
	//
	elapsedOnly := source{t: parser.Transactions, stamps: map[timestamp.Domain][]int64{timestamp.Elapsed: {1}}}
	e := engine(t, nil, realSource(parser.SurfaceFlinger, 100, 200), elapsedOnly)
	assert.Equal(t, []parser.TraceType{parser.SurfaceFlinger}, e.Traces())
	assert.Equal(t, timestamp.Elapsed, PreferredDomain([]Source{realSource(parser.SurfaceFlinger, 1), elapsedOnly}))
	assert.Equal(t, timestamp.Real, PreferredDomain([]Source{realSource(parser.SurfaceFlinger, 1)}))
	assert.Equal(t, timestamp.Elapsed, PreferredDomain(nil))
	//
	err := New().Initialize([]Source{elapsedOnly, realSource(parser.WindowManager)}, timestamp.Real)
	assert.True(t, errors.Is(err, ErrNoTimestamps))
	err = New().SetTimestamp(wall(1))
	assert.True(t, errors.Is(err, ErrNotInitialized))
}

func TestSetZoom(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.timeline")
	defer teardown()
	//
	e := engine(t, nil, realSource(parser.SurfaceFlinger, 10, 20))
	require.NoError(t, e.SetZoom(span(15, 16)))
	assert.True(t, e.ZoomRange().Equal(span(15, 16)), "zoom is %s", e.ZoomRange())
	assert.True(t, e.IsZoomed())
	require.NoError(t, e.SetZoom(span(5, 25)))
	assert.True(t, e.ZoomRange().Equal(span(10, 20)))
	require.NoError(t, e.SetZoom(span(0, 5)))
	assert.True(t, e.ZoomRange().Equal(span(10, 10)))
	require.NoError(t, e.SetZoom(span(18, 30)))
	assert.True(t, e.ZoomRange().Equal(span(18, 20)))
	err := e.SetZoom(span(16, 15))
	assert.True(t, errors.Is(err, tracescope.ErrInvariant))
	err = e.SetZoom(timestamp.TimeRange{From: timestamp.FromInt64(timestamp.Elapsed, 10), To: timestamp.FromInt64(timestamp.Elapsed, 20)})
	assert.True(t, errors.Is(err, tracescope.ErrUnsupportedDomain))
	assert.True(t, e.ZoomRange().Equal(span(18, 20)), "failed calls must not change the zoom")
	e.ResetZoom()
	assert.True(t, e.ZoomRange().Equal(e.FullRange()))
}

// distance of the window center to the cursor, doubled to stay integral
func centerDistance(r timestamp.TimeRange, cursor int64) *big.Int {
	d := new(big.Int).Add(r.From.Nanos(), r.To.Nanos())
	d.Sub(d, big.NewInt(2*cursor))
	return d.Abs(d)
}

func TestZoomInConvergesOnCursor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.timeline")
	defer teardown()
	//
	e := engine(t, nil, realSource(parser.SurfaceFlinger, 10), realSource(parser.WindowManager, 1000))
	require.NoError(t, e.SetPosition(At(wall(800))))
	prev := e.ZoomRange()
	for i := 0; i < 10; i++ {
		require.NoError(t, e.ZoomInOnCursor())
		zoom := e.ZoomRange()
		t.Logf("zoom #%d = %s", i, zoom)
		assert.True(t, zoom.Width().Cmp(prev.Width()) < 0, "width must shrink in step %d", i)
		assert.False(t, zoom.From.Before(wall(10)))
		assert.False(t, zoom.To.After(wall(1000)))
		assert.True(t, centerDistance(zoom, 800).Cmp(centerDistance(prev, 800)) <= 0,
			"center must not move away from cursor in step %d", i)
		assert.True(t, zoom.Contains(wall(800)))
		prev = zoom
	}
	assert.True(t, e.CurrentPosition().Timestamp.Equal(wall(800)), "zooming must not move the cursor")
}

func TestZoomOut(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.timeline")
	defer teardown()
	//
	e := engine(t, nil, realSource(parser.SurfaceFlinger, 10), realSource(parser.WindowManager, 1000))
	require.NoError(t, e.SetZoom(span(700, 810)))
	require.NoError(t, e.SetPosition(At(wall(800))))
	prev := e.ZoomRange()
	for i := 0; i < 10; i++ {
		require.NoError(t, e.ZoomOutOnCursor())
		zoom := e.ZoomRange()
		assert.True(t, zoom.Width().Cmp(prev.Width()) > 0, "width must grow in step %d", i)
		assert.False(t, zoom.From.After(prev.From))
		assert.False(t, zoom.To.Before(prev.To))
		prev = zoom
	}
	for i := 0; i < 100; i++ {
		require.NoError(t, e.ZoomOutOnCursor())
	}
	assert.True(t, e.ZoomRange().Equal(e.FullRange()), "zooming out ends at the full range")
}

func TestZoomOutAtFullRangeIsIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.timeline")
	defer teardown()
	//
	e := engine(t, nil, realSource(parser.SurfaceFlinger, 10), realSource(parser.WindowManager, 1000))
	for _, cursor := range []int64{800, 10, 1000} {
		for i := 0; i < 5; i++ {
			require.NoError(t, e.ZoomOut(wall(cursor), 8.0/7.0))
			assert.True(t, e.ZoomRange().Equal(span(10, 1000)), "zoom is %s", e.ZoomRange())
		}
	}
}

func TestZoomEdgeCases(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.timeline")
	defer teardown()
	//
	e := engine(t, []Option{WithZoomFactors(0.5, 2)}, realSource(parser.SurfaceFlinger, 0, 1000))
	require.NoError(t, e.ZoomInOnCursor())
	assert.True(t, e.ZoomRange().Equal(span(0, 500)), "zoom is %s", e.ZoomRange())
	require.NoError(t, e.ZoomOutOnCursor())
	assert.True(t, e.ZoomRange().Equal(span(0, 1000)))
	// cursor outside of the zoom window zooms towards the nearest bound
	require.NoError(t, e.SetZoom(span(100, 200)))
	require.NoError(t, e.ZoomIn(wall(900), 0.5))
	assert.True(t, e.ZoomRange().Equal(span(150, 200)), "zoom is %s", e.ZoomRange())
	// a zero-width window can grow
	require.NoError(t, e.SetZoom(span(1000, 1000)))
	require.NoError(t, e.ZoomOut(wall(1000), 2))
	assert.True(t, e.ZoomRange().Equal(span(999, 1000)), "zoom is %s", e.ZoomRange())
	require.NoError(t, e.SetZoom(span(500, 500)))
	require.NoError(t, e.ZoomIn(wall(500), 0.5))
	assert.True(t, e.ZoomRange().Equal(span(500, 500)))
	//
	assert.True(t, errors.Is(e.ZoomIn(wall(500), 1.5), ErrInvalidFactor))
	assert.True(t, errors.Is(e.ZoomOut(wall(500), 0.5), ErrInvalidFactor))
	assert.True(t, errors.Is(New().ZoomInOnCursor(), ErrNotInitialized))
}

func TestSetPosition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.timeline")
	defer teardown()
	//
	e := engine(t, nil, realSource(parser.SurfaceFlinger, 10, 20))
	require.NoError(t, e.SetZoom(span(12, 14)))
	require.NoError(t, e.SetTimestamp(wall(19)))
	assert.True(t, e.ZoomRange().Equal(span(12, 14)), "setting the cursor must not zoom")
	assert.False(t, e.CurrentPosition().HasEntry())
	err := e.SetTimestamp(wall(21))
	assert.True(t, errors.Is(err, ErrOutOfRange))
	assert.True(t, e.CurrentPosition().Timestamp.Equal(wall(19)))
	err = e.SetTimestamp(timestamp.FromInt64(timestamp.Elapsed, 15))
	assert.True(t, errors.Is(err, tracescope.ErrUnsupportedDomain))
	err = e.SetPosition(AtEntry(wall(15), parser.SurfaceFlinger, 7))
	assert.True(t, errors.Is(err, tracescope.ErrIndex))
}

func TestNavigation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.timeline")
	defer teardown()
	//
	e := engine(t, nil,
		realSource(parser.SurfaceFlinger, 10, 30, 50),
		realSource(parser.WindowManager, 20, 40),
	)
	p, err := e.NextEntry(parser.WindowManager)
	require.NoError(t, err)
	assert.Equal(t, AtEntry(wall(20), parser.WindowManager, 0), p)
	p, err = e.NextEntry(parser.SurfaceFlinger)
	require.NoError(t, err)
	assert.Equal(t, AtEntry(wall(30), parser.SurfaceFlinger, 1), p)
	p, err = e.PreviousEntry(parser.SurfaceFlinger)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Index)
	_, err = e.PreviousEntry(parser.SurfaceFlinger)
	assert.True(t, errors.Is(err, tracescope.ErrIndex))
	assert.Equal(t, 0, e.CurrentPosition().Index, "failed navigation keeps the cursor")
	require.NoError(t, e.SetTimestamp(wall(45)))
	p, err = e.PreviousEntry(parser.WindowManager)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Index)
	_, err = e.NextEntry(parser.WindowManager)
	assert.True(t, errors.Is(err, tracescope.ErrIndex))
	_, err = e.NextEntry(parser.Accessibility)
	assert.True(t, errors.Is(err, tracescope.ErrIndex))
}

func TestInvariantViolationPanics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.timeline")
	defer teardown()
	//
	e := engine(t, nil, realSource(parser.SurfaceFlinger, 10, 20))
	e.zoom = span(5, 20)
	defer func() {
		r := recover()
		err, ok := r.(error)
		require.True(t, ok, "expected panic with error, got %v", r)
		assert.True(t, errors.Is(err, tracescope.ErrInvariant))
	}()
	e.checkInvariants()
	t.Errorf("checkInvariants should have panicked")
}
