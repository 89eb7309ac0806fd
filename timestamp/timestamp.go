package timestamp

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/npillmayer/tracescope"
)

// Domain is the time domain of a timestamp.
type Domain uint8

// Time domains. Elapsed counts nanoseconds since boot, Real counts nanoseconds
// since the Unix epoch.
const (
	Elapsed Domain = iota
	Real
)

func (d Domain) String() string {
	switch d {
	case Elapsed:
		return "elapsed"
	case Real:
		return "real"
	}
	return fmt.Sprintf("domain(%d)", uint8(d))
}

// ParseDomain returns the domain for a name as returned by Domain.String.
func ParseDomain(s string) (Domain, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "elapsed":
		return Elapsed, nil
	case "real":
		return Real, nil
	}
	return Elapsed, fmt.Errorf("%w: %q", tracescope.ErrUnsupportedDomain, s)
}

// Domains lists all time domains in order of preference for display.
var Domains = []Domain{Real, Elapsed}

// Timestamp is an immutable nanosecond instant within a time domain.
// The zero value is instant 0 of the elapsed domain.
type Timestamp struct {
	domain Domain
	ns     *big.Int // never negative, never mutated after construction
}

var errNegative = errors.New("timestamp must not be negative")

// New creates a timestamp from a big integer. The integer is copied.
func New(d Domain, ns *big.Int) (Timestamp, error) {
	if ns == nil || ns.Sign() < 0 {
		return Timestamp{}, fmt.Errorf("%w: %v", errNegative, ns)
	}
	return Timestamp{domain: d, ns: new(big.Int).Set(ns)}, nil
}

// FromUint64 creates a timestamp from an unsigned nanosecond counter.
func FromUint64(d Domain, ns uint64) Timestamp {
	return Timestamp{domain: d, ns: new(big.Int).SetUint64(ns)}
}

// FromInt64 creates a timestamp from a signed nanosecond counter.
// Negative values are a programming error.
func FromInt64(d Domain, ns int64) Timestamp {
	assertThat(ns >= 0, "negative nanoseconds %d", ns)
	return Timestamp{domain: d, ns: big.NewInt(ns)}
}

// Parse creates a timestamp from a decimal nanosecond string.
func Parse(d Domain, s string) (Timestamp, error) {
	ns, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return Timestamp{}, fmt.Errorf("not a nanosecond value: %q", s)
	}
	return New(d, ns)
}

func (ts Timestamp) nanos() *big.Int {
	if ts.ns == nil {
		return new(big.Int)
	}
	return ts.ns
}

// Domain returns the time domain of ts.
func (ts Timestamp) Domain() Domain {
	return ts.domain
}

// Nanos returns a copy of the nanosecond value of ts.
func (ts Timestamp) Nanos() *big.Int {
	return new(big.Int).Set(ts.nanos())
}

// Uint64 returns the nanosecond value if it fits into 64 bits.
func (ts Timestamp) Uint64() (uint64, bool) {
	n := ts.nanos()
	if !n.IsUint64() {
		return 0, false
	}
	return n.Uint64(), true
}

// IsZero is true for instant 0.
func (ts Timestamp) IsZero() bool {
	return ts.nanos().Sign() == 0
}

// InDomain returns a timestamp with the same value in domain d.
// This is only meaningful when applying a synchronization offset.
func (ts Timestamp) InDomain(d Domain) Timestamp {
	return Timestamp{domain: d, ns: ts.ns}
}

func (ts Timestamp) sameDomain(other Timestamp, op string) {
	assertThat(ts.domain == other.domain, "cannot %s %s and %s timestamps", op, ts.domain, other.domain)
}

// Plus returns ts + other.
func (ts Timestamp) Plus(other Timestamp) Timestamp {
	ts.sameDomain(other, "add")
	return Timestamp{domain: ts.domain, ns: new(big.Int).Add(ts.nanos(), other.nanos())}
}

// PlusNanos returns ts shifted by a signed number of nanoseconds.
// Shifting below zero is a data error and panics.
func (ts Timestamp) PlusNanos(delta *big.Int) Timestamp {
	ns := new(big.Int).Add(ts.nanos(), delta)
	assertThat(ns.Sign() >= 0, "shifting %s by %s underflows", ts, delta)
	return Timestamp{domain: ts.domain, ns: ns}
}

// Minus returns ts - other. Underflow below zero panics.
func (ts Timestamp) Minus(other Timestamp) Timestamp {
	ts.sameDomain(other, "subtract")
	ns := new(big.Int).Sub(ts.nanos(), other.nanos())
	assertThat(ns.Sign() >= 0, "%s - %s underflows", ts, other)
	return Timestamp{domain: ts.domain, ns: ns}
}

// Div returns ts / n, truncated.
func (ts Timestamp) Div(n int64) Timestamp {
	assertThat(n > 0, "division by %d", n)
	return Timestamp{domain: ts.domain, ns: new(big.Int).Quo(ts.nanos(), big.NewInt(n))}
}

// Compare returns -1, 0 or +1 if ts is before, equal to or after other.
func (ts Timestamp) Compare(other Timestamp) int {
	ts.sameDomain(other, "compare")
	return ts.nanos().Cmp(other.nanos())
}

// Before is true if ts < other.
func (ts Timestamp) Before(other Timestamp) bool {
	return ts.Compare(other) < 0
}

// After is true if ts > other.
func (ts Timestamp) After(other Timestamp) bool {
	return ts.Compare(other) > 0
}

// Equal is true for timestamps of the same domain and value.
// Unlike Compare, it does not panic for different domains.
func (ts Timestamp) Equal(other Timestamp) bool {
	return ts.domain == other.domain && ts.nanos().Cmp(other.nanos()) == 0
}

// Min returns the earlier of two timestamps.
func Min(a, b Timestamp) Timestamp {
	if b.Before(a) {
		return b
	}
	return a
}

// Max returns the later of two timestamps.
func Max(a, b Timestamp) Timestamp {
	if b.After(a) {
		return b
	}
	return a
}

// --- Formatting ------------------------------------------------------------

// RealFormat is the layout for real timestamps, always in UTC.
const RealFormat = "2006-01-02T15:04:05.000000000"

var durationUnits = []struct {
	name string
	ns   int64
}{
	{"d", 24 * int64(time.Hour)},
	{"h", int64(time.Hour)},
	{"m", int64(time.Minute)},
	{"s", int64(time.Second)},
	{"ms", int64(time.Millisecond)},
	{"ns", 1},
}

// Format renders an elapsed timestamp as a compact duration ("44m21s12ms903966ns")
// and a real timestamp as a UTC date.
func (ts Timestamp) Format() string {
	n := ts.nanos()
	if ts.domain == Real && n.IsInt64() {
		return time.Unix(0, n.Int64()).UTC().Format(RealFormat)
	}
	return formatDuration(n)
}

func formatDuration(n *big.Int) string {
	if n.Sign() == 0 {
		return "0ns"
	}
	var b strings.Builder
	rest := new(big.Int).Set(n)
	for _, u := range durationUnits {
		q, r := new(big.Int).QuoRem(rest, big.NewInt(u.ns), new(big.Int))
		rest = r
		if q.Sign() > 0 {
			b.WriteString(q.String())
			b.WriteString(u.name)
		}
	}
	return b.String()
}

func (ts Timestamp) String() string {
	return ts.domain.String() + ":" + ts.Format()
}
