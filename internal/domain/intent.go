package domain

// IntentType classifies what the user wants the timer to do.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentStart
	IntentStop
	IntentToggle
	IntentClear
	IntentAddTime // Seconds may be negative
	IntentSetTime
	IntentRename // Payload is the new label, possibly empty
	IntentStatus
	IntentHelp
	IntentQuit
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentStart:
		return "start"
	case IntentStop:
		return "stop"
	case IntentToggle:
		return "toggle"
	case IntentClear:
		return "clear"
	case IntentAddTime:
		return "add_time"
	case IntentSetTime:
		return "set_time"
	case IntentRename:
		return "rename"
	case IntentStatus:
		return "status"
	case IntentHelp:
		return "help"
	case IntentQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Intent represents a parsed user action.
type Intent struct {
	Type    IntentType
	Seconds int    // for add_time / set_time
	Payload string // label for rename, raw input for unknown
}

// IntentFromString is the inverse of String. Unrecognised names map to
// IntentUnknown.
func IntentFromString(s string) IntentType {
	for t := IntentStart; t <= IntentQuit; t++ {
		if t.String() == s {
			return t
		}
	}
	return IntentUnknown
}
