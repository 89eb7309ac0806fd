package parser

import (
	"github.com/npillmayer/tracescope/schema"
)

// Magic numbers. A capture file starts with field 1 of its file message, a
// fixed64 holding eight ASCII characters, hence the leading tag byte 0x09.
var (
	MagicSurfaceFlinger     = []byte{0x09, 0x4c, 0x59, 0x52, 0x54, 0x52, 0x41, 0x43, 0x45} // .LYRTRACE
	MagicWindowManager      = []byte{0x09, 0x57, 0x49, 0x4e, 0x54, 0x52, 0x41, 0x43, 0x45} // .WINTRACE
	MagicTransactions       = []byte{0x09, 0x54, 0x4e, 0x58, 0x54, 0x52, 0x41, 0x43, 0x45} // .TNXTRACE
	MagicInputMethodClients = []byte{0x09, 0x49, 0x4d, 0x43, 0x54, 0x52, 0x41, 0x43, 0x45} // .IMCTRACE
	MagicAccessibility      = []byte{0x09, 0x41, 0x31, 0x31, 0x59, 0x54, 0x52, 0x41, 0x43} // .A11YTRAC
)

func field(num int32, name string, kind schema.Kind) *schema.Field {
	return &schema.Field{Number: schema.Number(num), Name: name, Kind: kind}
}

func repeated(num int32, name string, kind schema.Kind) *schema.Field {
	f := field(num, name, kind)
	f.Repeated = true
	return f
}

func message(num int32, name string, msg *schema.Message) *schema.Field {
	f := field(num, name, schema.MessageKind)
	f.Message = msg
	return f
}

func messages(num int32, name string, msg *schema.Message) *schema.Field {
	f := message(num, name, msg)
	f.Repeated = true
	return f
}

func enum(num int32, name string, e *schema.Enum) *schema.Field {
	f := field(num, name, schema.EnumKind)
	f.Enum = e
	return f
}

// traceFile builds the common outer message of capture files.
func traceFile(name string, entry *schema.Message) *schema.Message {
	return schema.NewMessage(name,
		field(1, "magicNumber", schema.Fixed64Kind),
		messages(2, "entry", entry),
		field(3, "realToElapsedTimeOffsetNanos", schema.Fixed64Kind),
	)
}

// --- Shared geometry -------------------------------------------------------

// Geometry messages shared by several formats.
var (
	SizeProto = schema.NewMessage("SizeProto",
		field(1, "w", schema.Int32Kind),
		field(2, "h", schema.Int32Kind),
	)
	RectProto = schema.NewMessage("RectProto",
		field(1, "left", schema.Int32Kind),
		field(2, "top", schema.Int32Kind),
		field(3, "right", schema.Int32Kind),
		field(4, "bottom", schema.Int32Kind),
	)
	FloatRectProto = schema.NewMessage("FloatRectProto",
		field(1, "left", schema.FloatKind),
		field(2, "top", schema.FloatKind),
		field(3, "right", schema.FloatKind),
		field(4, "bottom", schema.FloatKind),
	)
	TransformProto = schema.NewMessage("TransformProto",
		field(1, "dsdx", schema.FloatKind),
		field(2, "dtdx", schema.FloatKind),
		field(3, "dsdy", schema.FloatKind),
		field(4, "dtdy", schema.FloatKind),
		field(5, "tx", schema.FloatKind),
		field(6, "ty", schema.FloatKind),
	)
	ColorProto = schema.NewMessage("ColorProto",
		field(1, "r", schema.FloatKind),
		field(2, "g", schema.FloatKind),
		field(3, "b", schema.FloatKind),
		field(4, "a", schema.FloatKind),
	)
)

// --- SurfaceFlinger --------------------------------------------------------

// Layer and display messages of SurfaceFlinger captures.
var (
	LayerProto = schema.NewMessage("LayerProto",
		field(1, "id", schema.Int32Kind),
		field(2, "name", schema.StringKind),
		repeated(3, "children", schema.Int32Kind),
		field(4, "parent", schema.Int32Kind),
		field(5, "type", schema.StringKind),
		field(6, "z", schema.Int32Kind),
		field(7, "layerStack", schema.Uint32Kind),
		field(8, "flags", schema.Uint32Kind),
		message(9, "color", ColorProto),
		message(10, "bounds", FloatRectProto),
		message(11, "transform", TransformProto),
		field(12, "cornerRadius", schema.FloatKind),
		field(13, "isOpaque", schema.BoolKind),
		field(14, "zOrderRelativeOf", schema.Int32Kind),
	)
	DisplayProto = schema.NewMessage("DisplayProto",
		field(1, "id", schema.Uint64Kind),
		field(2, "name", schema.StringKind),
		field(3, "layerStack", schema.Int32Kind),
		message(4, "size", SizeProto),
		message(5, "layerStackSpaceRect", RectProto),
		message(6, "transform", TransformProto),
		field(7, "isVirtual", schema.BoolKind),
		field(8, "dpiX", schema.DoubleKind),
		field(9, "dpiY", schema.DoubleKind),
	)
	LayersTraceProto = schema.NewMessage("LayersTraceProto",
		field(1, "elapsedRealtimeNanos", schema.Sfixed64Kind),
		field(2, "where", schema.StringKind),
		messages(3, "layers", LayerProto),
		messages(4, "displays", DisplayProto),
		field(5, "vsyncId", schema.Int64Kind),
	)
	LayersTraceFileProto = traceFile("LayersTraceFileProto", LayersTraceProto)
)

// --- WindowManager ---------------------------------------------------------

// WindowType enumerates window types of WindowManager captures.
var WindowType = &schema.Enum{Name: "WindowType", Values: map[int32]string{
	1:    "TYPE_BASE_APPLICATION",
	2:    "TYPE_APPLICATION",
	3:    "TYPE_APPLICATION_STARTING",
	2000: "TYPE_STATUS_BAR",
	2011: "TYPE_INPUT_METHOD",
	2013: "TYPE_WALLPAPER",
	2019: "TYPE_NAVIGATION_BAR",
}}

// Window messages of WindowManager captures.
var (
	WindowStateProto = schema.NewMessage("WindowStateProto",
		field(1, "hashCode", schema.Int32Kind),
		field(2, "title", schema.StringKind),
		field(3, "displayId", schema.Int32Kind),
		field(4, "isVisible", schema.BoolKind),
		message(5, "frame", RectProto),
		enum(6, "type", WindowType),
		field(7, "zOrder", schema.Int32Kind),
	)
	WindowManagerServiceProto = schema.NewMessage("WindowManagerServiceDumpProto",
		field(1, "focusedApp", schema.StringKind),
		field(2, "focusedWindow", schema.StringKind),
		messages(3, "windows", WindowStateProto),
	)
	WindowManagerTraceProto = schema.NewMessage("WindowManagerTraceProto",
		field(1, "elapsedRealtimeNanos", schema.Fixed64Kind),
		field(2, "where", schema.StringKind),
		message(3, "windowManagerService", WindowManagerServiceProto),
	)
	WindowManagerTraceFileProto = traceFile("WindowManagerTraceFileProto", WindowManagerTraceProto)
)

// --- Transactions ----------------------------------------------------------

// Transaction messages of transaction captures.
var (
	LayerStateProto = schema.NewMessage("LayerState",
		field(1, "layerId", schema.Uint32Kind),
		field(2, "what", schema.Uint64Kind),
		field(3, "x", schema.FloatKind),
		field(4, "y", schema.FloatKind),
		field(5, "z", schema.Int32Kind),
	)
	TransactionStateProto = schema.NewMessage("TransactionState",
		field(1, "pid", schema.Int32Kind),
		field(2, "uid", schema.Int32Kind),
		field(3, "vsyncId", schema.Int64Kind),
		field(4, "inputEventId", schema.Int32Kind),
		field(5, "postTime", schema.Int64Kind),
		field(6, "transactionId", schema.Uint64Kind),
		messages(7, "layerChanges", LayerStateProto),
	)
	TransactionTraceEntryProto = schema.NewMessage("TransactionTraceEntry",
		field(1, "elapsedRealtimeNanos", schema.Int64Kind),
		field(2, "vsyncId", schema.Int64Kind),
		messages(3, "transactions", TransactionStateProto),
	)
	TransactionTraceFileProto = traceFile("TransactionTraceFile", TransactionTraceEntryProto)
)

// --- Input method clients --------------------------------------------------

// Input method client messages.
var (
	EditorInfoProto = schema.NewMessage("EditorInfoProto",
		field(1, "inputType", schema.Int32Kind),
		field(2, "imeOptions", schema.Int32Kind),
		field(3, "packageName", schema.StringKind),
		field(4, "fieldId", schema.Int32Kind),
	)
	InputMethodClientProto = schema.NewMessage("InputMethodClientProto",
		field(1, "displayId", schema.Int32Kind),
		message(2, "editorInfo", EditorInfoProto),
		field(3, "curId", schema.StringKind),
	)
	InputMethodClientsTraceProto = schema.NewMessage("InputMethodClientsTraceProto",
		field(1, "elapsedRealtimeNanos", schema.Fixed64Kind),
		field(2, "where", schema.StringKind),
		message(3, "client", InputMethodClientProto),
	)
	InputMethodClientsTraceFileProto = traceFile("InputMethodClientsTraceFileProto", InputMethodClientsTraceProto)
)

// --- Accessibility ---------------------------------------------------------

// Accessibility messages.
var (
	AccessibilityServiceProto = schema.NewMessage("AccessibilityManagerServiceDumpProto",
		field(1, "currentUserId", schema.Int32Kind),
		repeated(2, "enabledServices", schema.StringKind),
		field(3, "isTouchExplorationEnabled", schema.BoolKind),
	)
	AccessibilityTraceProto = schema.NewMessage("AccessibilityTraceProto",
		field(1, "elapsedRealtimeNanos", schema.Fixed64Kind),
		field(2, "calendarTime", schema.StringKind),
		field(3, "where", schema.StringKind),
		message(4, "accessibilityService", AccessibilityServiceProto),
	)
	AccessibilityTraceFileProto = traceFile("AccessibilityTraceFileProto", AccessibilityTraceProto)
)

// --- Formats ---------------------------------------------------------------

// Formats of the known trace types.
var (
	SurfaceFlingerFormat = &Format{
		Type: SurfaceFlinger, Magic: MagicSurfaceFlinger, File: LayersTraceFileProto,
		RootName: "LayerTraceEntry",
	}
	WindowManagerFormat = &Format{
		Type: WindowManager, Magic: MagicWindowManager, File: WindowManagerTraceFileProto,
		RootName: "WindowManagerState",
	}
	TransactionsFormat = &Format{
		Type: Transactions, Magic: MagicTransactions, File: TransactionTraceFileProto,
		RootName: "TransactionsTraceEntry",
	}
	InputMethodClientsFormat = &Format{
		Type: InputMethodClients, Magic: MagicInputMethodClients, File: InputMethodClientsTraceFileProto,
		RootName: "InputMethodClients",
	}
	AccessibilityFormat = &Format{
		Type: Accessibility, Magic: MagicAccessibility, File: AccessibilityTraceFileProto,
		RootName: "AccessibilityTraceEntry",
	}
)

// KnownFormats lists the formats of all trace types in registration order.
func KnownFormats() []*Format {
	return []*Format{
		SurfaceFlingerFormat,
		WindowManagerFormat,
		TransactionsFormat,
		InputMethodClientsFormat,
		AccessibilityFormat,
	}
}
