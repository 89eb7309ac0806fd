package timeline

import (
	"fmt"

	"github.com/npillmayer/tracescope/parser"
	"github.com/npillmayer/tracescope/timestamp"
)

// Position is a cursor position: a timestamp, optionally pointing to the
// entry of a trace.
type Position struct {
	Timestamp timestamp.Timestamp
	Trace     parser.TraceType // 0 if the position is not an entry
	Index     int              // entry index within Trace
}

// At creates a position at a timestamp, without reference to an entry.
func At(ts timestamp.Timestamp) Position {
	return Position{Timestamp: ts, Index: -1}
}

// AtEntry creates a position at entry index of trace t.
func AtEntry(ts timestamp.Timestamp, t parser.TraceType, index int) Position {
	return Position{Timestamp: ts, Trace: t, Index: index}
}

// HasEntry is true if p points to an entry.
func (p Position) HasEntry() bool {
	return p.Trace != 0 && p.Index >= 0
}

func (p Position) String() string {
	if p.HasEntry() {
		return fmt.Sprintf("%s (%s #%d)", p.Timestamp, p.Trace, p.Index)
	}
	return p.Timestamp.String()
}
