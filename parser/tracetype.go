package parser

import (
	"fmt"
	"strings"

	"github.com/npillmayer/tracescope"
)

// TraceType identifies the subsystem a capture file stems from.
type TraceType uint8

// Known trace types.
const (
	SurfaceFlinger TraceType = iota + 1
	WindowManager
	Transactions
	InputMethodClients
	Accessibility
)

var traceTypeNames = map[TraceType]string{
	SurfaceFlinger:     "surfaceflinger",
	WindowManager:      "windowmanager",
	Transactions:       "transactions",
	InputMethodClients: "imeclients",
	Accessibility:      "accessibility",
}

// AllTraceTypes lists every trace type in default priority order.
// Timeline cursors are tie-broken by this order.
var AllTraceTypes = []TraceType{
	SurfaceFlinger, WindowManager, Transactions, InputMethodClients, Accessibility,
}

func (t TraceType) String() string {
	if name, ok := traceTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tracetype(%d)", uint8(t))
}

// ParseTraceType returns the trace type for a name as returned by String.
func ParseTraceType(s string) (TraceType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range traceTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: no trace type %q", tracescope.ErrFormat, s)
}
