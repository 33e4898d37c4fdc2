package log

import (
	"log/slog"
	"strconv"
	"strings"
)

// Level is the severity of a log record.
//
// Levels are ordered and encoded on the wire as small positive integers, so a
// Level always marshals to a JSON number.
type Level int

const (
	// LevelTrace is the most verbose severity.
	LevelTrace Level = iota + 1
	// LevelDebug is for diagnostic detail.
	LevelDebug
	// LevelInfo is for routine events.
	LevelInfo
	// LevelWarn is for unexpected but recoverable conditions.
	LevelWarn
	// LevelError is for failures.
	LevelError
)

// slogLevelTrace is one step below [slog.LevelDebug].
const slogLevelTrace = slog.LevelDebug - 4

var allLevels = []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError}

// String returns the upper-case name of the level.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}

	return "LEVEL(" + strconv.Itoa(int(l)) + ")"
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return l >= LevelTrace && l <= LevelError
}

// Enabled reports whether a record at level l passes a filter of minimum min.
func (l Level) Enabled(minimum Level) bool {
	return l >= minimum
}

// SlogLevel returns the equivalent [slog.Level].
func (l Level) SlogLevel() slog.Level {
	switch l {
	case LevelTrace:
		return slogLevelTrace
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	}

	return slog.LevelInfo
}

// LevelFromSlog maps a [slog.Level] to the highest [Level] at or below it.
// Anything below [slog.LevelDebug] is [LevelTrace].
func LevelFromSlog(l slog.Level) Level {
	switch {
	case l >= slog.LevelError:
		return LevelError
	case l >= slog.LevelWarn:
		return LevelWarn
	case l >= slog.LevelInfo:
		return LevelInfo
	case l >= slog.LevelDebug:
		return LevelDebug
	}

	return LevelTrace
}

// ParseLevel parses a level name (case-insensitive) or its integer encoding.
func ParseLevel(level string) (Level, error) {
	s := strings.ToLower(strings.TrimSpace(level))

	switch s {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}

	n, err := strconv.Atoi(s)
	if err == nil && Level(n).Valid() {
		return Level(n), nil
	}

	return 0, ErrUnknownLogLevel
}

// GetAllLevelStrings returns the lower-case names of all levels, in order.
func GetAllLevelStrings() []string {
	out := make([]string, 0, len(allLevels))
	for _, l := range allLevels {
		out = append(out, strings.ToLower(l.String()))
	}

	return out
}
