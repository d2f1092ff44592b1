package logging

import (
	"log/slog"
	"strings"
)

// Severity orders log records from most to least verbose.
type Severity int

const (
	Trace Severity = iota
	Debug
	Info
	Warning
	Error
	Fatal
	Off

	// All enables every record.
	All = Trace
)

var severityNames = [...]string{"trace", "debug", "info", "warning", "error", "fatal", "off"}

func (s Severity) String() string {
	if s < Trace || s > Off {
		return "unknown"
	}
	return severityNames[s]
}

// ParseSeverity parses a severity name as printed by String. "warn" and "all"
// are accepted as aliases.
func ParseSeverity(name string) (Severity, bool) {
	switch n := strings.ToLower(name); n {
	case "all":
		return All, true
	case "warn":
		return Warning, true
	default:
		for i, s := range severityNames {
			if s == n {
				return Severity(i), true
			}
		}
		return Off, false
	}
}

// LevelTrace and LevelFatal extend the slog levels at both ends.
const (
	LevelTrace = slog.Level(-8)
	LevelFatal = slog.Level(12)
)

// Level returns the slog level records of this severity are emitted at.
func (s Severity) Level() slog.Level {
	switch s {
	case Trace:
		return LevelTrace
	case Debug:
		return slog.LevelDebug
	case Info:
		return slog.LevelInfo
	case Warning:
		return slog.LevelWarn
	case Error:
		return slog.LevelError
	case Fatal:
		return LevelFatal
	default:
		return slog.Level(1000)
	}
}
