package timestamp

import (
	"errors"
	"math/big"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tracescope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampArithmetic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.timestamp")
	defer teardown()
	//
	a := FromInt64(Elapsed, 10)
	b := FromUint64(Elapsed, 1000)
	assert.Equal(t, "990", b.Minus(a).Nanos().String())
	assert.Equal(t, "1010", a.Plus(b).Nanos().String())
	assert.Equal(t, "500", b.Div(2).Nanos().String())
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, 0, a.Compare(FromInt64(Elapsed, 10)))
}

func TestTimestampBeyond64Bits(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.timestamp")
	defer teardown()
	//
	huge := FromUint64(Real, ^uint64(0))
	sum := huge.Plus(huge)
	if _, ok := sum.Uint64(); ok {
		t.Errorf("expected sum of two max uint64 not to fit into 64 bits, does")
	}
	expected := new(big.Int).Mul(new(big.Int).SetUint64(^uint64(0)), big.NewInt(2))
	assert.Equal(t, 0, sum.Nanos().Cmp(expected))
}

func TestTimestampDomainMismatchPanics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.timestamp")
	defer teardown()
	//
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected comparison of different domains to panic")
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, tracescope.ErrInvariant))
	}()
	FromInt64(Elapsed, 1).Before(FromInt64(Real, 2))
}

func TestTimestampUnderflowPanics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.timestamp")
	defer teardown()
	//
	assert.Panics(t, func() {
		FromInt64(Elapsed, 1).Minus(FromInt64(Elapsed, 2))
	})
	assert.Panics(t, func() {
		FromInt64(Elapsed, -1)
	})
	_, err := New(Elapsed, big.NewInt(-5))
	assert.Error(t, err)
}

func TestTimestampFormat(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.timestamp")
	defer teardown()
	//
	elapsed := FromInt64(Elapsed, 2661012903966)
	assert.Equal(t, "44m21s12ms903966ns", elapsed.Format())
	assert.Equal(t, "0ns", FromInt64(Elapsed, 0).Format())
	wall := FromInt64(Real, 1681207048025580000)
	assert.Equal(t, "2023-04-11T09:57:28.025580000", wall.Format())
	assert.Equal(t, "real:2023-04-11T09:57:28.025580000", wall.String())
}

func TestTimestampParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.timestamp")
	defer teardown()
	//
	ts, err := Parse(Real, "1681207048025580000")
	require.NoError(t, err)
	assert.True(t, ts.Equal(FromInt64(Real, 1681207048025580000)))
	_, err = Parse(Real, "12x")
	assert.Error(t, err)
	d, err := ParseDomain("Elapsed")
	require.NoError(t, err)
	assert.Equal(t, Elapsed, d)
	_, err = ParseDomain("monotonic")
	assert.True(t, errors.Is(err, tracescope.ErrUnsupportedDomain))
}

func TestTimeRange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.timestamp")
	defer teardown()
	//
	r, err := NewTimeRange(FromInt64(Elapsed, 10), FromInt64(Elapsed, 1000))
	require.NoError(t, err)
	assert.Equal(t, "990", r.Width().String())
	assert.True(t, r.Contains(FromInt64(Elapsed, 10)))
	assert.False(t, r.Contains(FromInt64(Elapsed, 1001)))
	assert.True(t, r.Clamp(FromInt64(Elapsed, 5)).Equal(r.From))
	assert.True(t, r.Clamp(FromInt64(Elapsed, 5000)).Equal(r.To))
	assert.Equal(t, "505", r.Center().Nanos().String())
	//
	_, err = NewTimeRange(FromInt64(Elapsed, 20), FromInt64(Elapsed, 10))
	assert.True(t, errors.Is(err, tracescope.ErrInvariant))
	_, err = NewTimeRange(FromInt64(Elapsed, 10), FromInt64(Real, 20))
	assert.True(t, errors.Is(err, tracescope.ErrInvariant))
}

func TestSpan(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.timestamp")
	defer teardown()
	//
	_, ok := Span(nil)
	assert.False(t, ok)
	r, ok := Span([]Timestamp{
		FromInt64(Elapsed, 50), FromInt64(Elapsed, 7), FromInt64(Elapsed, 99),
	})
	require.True(t, ok)
	assert.Equal(t, "7", r.From.Nanos().String())
	assert.Equal(t, "99", r.To.Nanos().String())
}
