package parser_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tracescope"
	"github.com/npillmayer/tracescope/parser"
	"github.com/npillmayer/tracescope/schema"
	"github.com/npillmayer/tracescope/timestamp"
	"github.com/npillmayer/tracescope/tracetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessibilityRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.parser")
	defer teardown()
	//
	buf := tracetest.File(parser.AccessibilityFormat, 0, tracetest.Entry(2661012903966))
	require.Equal(t, []byte{0x09, 0x41, 0x31, 0x31, 0x59, 0x54, 0x52, 0x41, 0x43}, buf[:9])
	p, err := parser.AccessibilityFormat.Decode(buf)
	require.NoError(t, err)
	require.Equal(t, 1, p.EntryCount())
	e, err := p.EntryAt(0)
	require.NoError(t, err)
	ts, err := p.Timestamp(e, timestamp.Elapsed)
	require.NoError(t, err)
	assert.True(t, ts.Equal(timestamp.FromInt64(timestamp.Elapsed, 2661012903966)),
		"expected elapsed timestamp 2661012903966, is %s", ts)
	_, err = p.Timestamp(e, timestamp.Real)
	assert.True(t, errors.Is(err, tracescope.ErrUnsupportedDomain))
}

func TestCorruptedMagicFailsBeforeDecoding(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.parser")
	defer teardown()
	//
	buf := tracetest.File(parser.AccessibilityFormat, 0, tracetest.Entry(2661012903966))
	short := append([]byte{}, buf[:8]...) // 1-byte-short magic
	short = append(short, buf[9:]...)
	assert.False(t, parser.AccessibilityFormat.Validate(short))
	_, err := parser.AccessibilityFormat.Decode(short)
	assert.True(t, errors.Is(err, tracescope.ErrFormat), "expected ErrFormat, got %v", err)
	assert.False(t, errors.Is(err, tracescope.ErrDecode))
	_, err = parser.AccessibilityFormat.Decode(buf[:5])
	assert.True(t, errors.Is(err, tracescope.ErrFormat))
}

func TestMalformedPayload(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.parser")
	defer teardown()
	//
	buf := tracetest.File(parser.AccessibilityFormat, 0, tracetest.Entry(1), tracetest.Entry(2))
	_, err := parser.AccessibilityFormat.Decode(buf[:len(buf)-2])
	assert.True(t, errors.Is(err, tracescope.ErrDecode), "expected ErrDecode, got %v", err)
	// an entry without elapsed timestamp is malformed as well
	buf = tracetest.File(parser.AccessibilityFormat, 0, schema.Object{"where": "nowhere"})
	_, err = parser.AccessibilityFormat.Decode(buf)
	assert.True(t, errors.Is(err, tracescope.ErrDecode), "expected ErrDecode, got %v", err)
}

func TestRealTimestampsFromOffset(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.parser")
	defer teardown()
	//
	const elapsed, wall = 2661012903966, 1681207048025580000
	buf := tracetest.File(parser.WindowManagerFormat, wall-elapsed,
		tracetest.Entry(elapsed), tracetest.Entry(elapsed+1000))
	p, err := parser.DefaultRegistry().Parse(buf)
	require.NoError(t, err)
	assert.Equal(t, parser.WindowManager, p.TraceType())
	assert.True(t, p.SupportsDomain(timestamp.Real))
	stamps, err := p.Timestamps(timestamp.Real)
	require.NoError(t, err)
	require.Len(t, stamps, 2)
	assert.True(t, stamps[0].Equal(timestamp.FromInt64(timestamp.Real, wall)))
	assert.True(t, stamps[1].Equal(timestamp.FromInt64(timestamp.Real, wall+1000)))
	off, ok := p.RealToElapsedOffset()
	require.True(t, ok)
	assert.Equal(t, int64(wall-elapsed), off.Int64())
}

func TestRegisterOffset(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.parser")
	defer teardown()
	//
	buf := tracetest.File(parser.AccessibilityFormat, 0, tracetest.Entry(10))
	p, err := parser.DefaultRegistry().Parse(buf)
	require.NoError(t, err)
	assert.False(t, p.SupportsDomain(timestamp.Real))
	assert.Error(t, p.RegisterOffset(big.NewInt(-1)))
	require.NoError(t, p.RegisterOffset(big.NewInt(100)))
	e, _ := p.EntryAt(0)
	ts, err := p.Timestamp(e, timestamp.Real)
	require.NoError(t, err)
	assert.Equal(t, "110", ts.Nanos().String())
}

func TestEntryAtOutOfRange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.parser")
	defer teardown()
	//
	buf := tracetest.File(parser.TransactionsFormat, 0, tracetest.Entry(1))
	p, err := parser.DefaultRegistry().Parse(buf)
	require.NoError(t, err)
	for _, i := range []int{-1, 1, 100} {
		_, err := p.EntryAt(i)
		assert.True(t, errors.Is(err, tracescope.ErrIndex), "index %d: expected ErrIndex, got %v", i, err)
	}
}

func TestRegistrySniffing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.parser")
	defer teardown()
	//
	reg := parser.DefaultRegistry()
	for _, f := range parser.KnownFormats() {
		buf := tracetest.File(f, 0)
		sniffed, err := reg.Sniff(buf)
		require.NoError(t, err)
		assert.Equal(t, f.Type, sniffed.Type)
		p, err := reg.Parse(buf)
		require.NoError(t, err)
		assert.Equal(t, 0, p.EntryCount())
	}
	_, err := reg.Sniff([]byte("not a trace at all"))
	assert.True(t, errors.Is(err, tracescope.ErrFormat))
	_, err = reg.Parse(nil)
	assert.True(t, errors.Is(err, tracescope.ErrFormat))
}

func TestRegistryFirstMatchWins(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.parser")
	defer teardown()
	//
	// a format with a shorter magic shadows the accessibility format
	shadow := &parser.Format{
		Type:     parser.WindowManager,
		Magic:    parser.MagicAccessibility[:4],
		File:     parser.AccessibilityTraceFileProto,
		RootName: "Shadow",
	}
	reg, err := parser.NewRegistry(shadow, parser.AccessibilityFormat)
	require.NoError(t, err)
	f, err := reg.Sniff(tracetest.File(parser.AccessibilityFormat, 0))
	require.NoError(t, err)
	assert.Equal(t, "Shadow", f.RootName)
	//
	_, err = parser.NewRegistry(parser.AccessibilityFormat, parser.AccessibilityFormat)
	assert.Error(t, err, "expected duplicate registration to fail")
	_, err = parser.NewRegistry(&parser.Format{Type: parser.Accessibility})
	assert.Error(t, err, "expected format without magic to be rejected")
}

func TestNativeRealTimestamps(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.parser")
	defer teardown()
	//
	entry := schema.NewMessage("Event",
		&schema.Field{Number: 1, Name: "elapsedNanos", Kind: schema.Int64Kind},
		&schema.Field{Number: 2, Name: "unixNanos", Kind: schema.Int64Kind},
	)
	file := schema.NewMessage("EventFile",
		&schema.Field{Number: 1, Name: "magicNumber", Kind: schema.Fixed64Kind},
		&schema.Field{Number: 2, Name: "events", Kind: schema.MessageKind, Message: entry, Repeated: true},
	)
	f := &parser.Format{
		Type:         parser.Transactions,
		Magic:        parser.MagicTransactions,
		File:         file,
		RootName:     "Event",
		EntryField:   "events",
		ElapsedField: []string{"elapsedNanos"},
		RealField:    []string{"unixNanos"},
		OffsetField:  "-",
	}
	buf, err := schema.Encode(file, schema.Object{
		"magicNumber": f.MagicValue(),
		"events": []schema.Object{
			{"elapsedNanos": 2661012903966, "unixNanos": 1681207048025580000},
		},
	})
	require.NoError(t, err)
	p, err := f.Decode(buf)
	require.NoError(t, err)
	e, _ := p.EntryAt(0)
	ts, err := p.Timestamp(e, timestamp.Real)
	require.NoError(t, err)
	assert.Equal(t, "1681207048025580000", ts.Nanos().String())
	_, ok := p.RealToElapsedOffset()
	assert.False(t, ok)
}

func TestParseTraceType(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.parser")
	defer teardown()
	//
	for _, tt := range parser.AllTraceTypes {
		parsed, err := parser.ParseTraceType(tt.String())
		require.NoError(t, err)
		assert.Equal(t, tt, parsed)
	}
	_, err := parser.ParseTraceType("protolog")
	assert.True(t, errors.Is(err, tracescope.ErrFormat))
}

func TestEntriesMustBeOrdered(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tracescope.parser")
	defer teardown()
	//
	buf := tracetest.File(parser.AccessibilityFormat, 0, tracetest.Entry(200), tracetest.Entry(100))
	_, err := parser.AccessibilityFormat.Decode(buf)
	assert.True(t, errors.Is(err, tracescope.ErrDecode), "expected ErrDecode, got %v", err)
	// equal timestamps are fine
	buf = tracetest.File(parser.AccessibilityFormat, 0, tracetest.Entry(100), tracetest.Entry(100))
	p, err := parser.AccessibilityFormat.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, p.EntryCount())
}
