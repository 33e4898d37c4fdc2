package log

import (
	"encoding/json"
	"slices"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
)

// Formatter renders a [Record] as a single display line, without a trailing
// newline. Formatters must be safe for concurrent use.
type Formatter func(Record) string

// Format names a built-in [Formatter].
type Format string

const (
	// FormatText renders with [DefaultFormatter].
	FormatText Format = "text"
	// FormatColor renders with [ColorFormatter] and [DefaultLevelStyles].
	// The formatter is shared by every text sink, so the escape codes also
	// reach file sinks; [Config.NewBuilder] rejects it alongside file
	// targets.
	FormatColor Format = "color"
	// FormatJSON renders with [JSONFormatter].
	FormatJSON Format = "json"
)

var allFormats = []Format{FormatText, FormatColor, FormatJSON}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// ParseFormat parses a log format string and returns the corresponding
// [Format].
func ParseFormat(format string) (Format, error) {
	f := Format(strings.ToLower(format))
	if slices.Contains(allFormats, f) {
		return f, nil
	}

	return "", ErrUnknownLogFormat
}

// GetAllFormatStrings returns the names of all formats.
func GetAllFormatStrings() []string {
	out := make([]string, 0, len(allFormats))
	for _, f := range allFormats {
		out = append(out, string(f))
	}

	return out
}

// Formatter returns the [Formatter] for f. Unknown formats fall back to
// [DefaultFormatter].
func (f Format) Formatter() Formatter {
	switch f {
	case FormatColor:
		return ColorFormatter(DefaultLevelStyles())
	case FormatJSON:
		return JSONFormatter
	}

	return DefaultFormatter
}

// DefaultFormatter renders `[YYYY-MM-DD][HH:MM:SS][origin][LEVEL] message`.
func DefaultFormatter(r Record) string {
	return render(r, r.Level.String())
}

// LevelStyles maps each [Level] to the style of its token.
type LevelStyles map[Level]lipgloss.Style

// DefaultLevelStyles returns one ANSI color per level.
func DefaultLevelStyles() LevelStyles {
	return LevelStyles{
		LevelTrace: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

// Render returns the styled token for l, or the plain token if l has no style.
func (s LevelStyles) Render(l Level) string {
	style, ok := s[l]
	if !ok {
		return l.String()
	}

	return style.Render(l.String())
}

// ColorFormatter returns a [Formatter] with the [DefaultFormatter] layout whose
// level token is colorized with styles.
func ColorFormatter(styles LevelStyles) Formatter {
	return func(r Record) string {
		return render(r, styles.Render(r.Level))
	}
}

func render(r Record, level string) string {
	var sb strings.Builder

	sb.Grow(len(r.Origin) + len(r.Message) + len(level) + 28)
	sb.WriteByte('[')
	sb.WriteString(r.Time.Format(dateLayout))
	sb.WriteString("][")
	sb.WriteString(r.Time.Format(timeLayout))
	sb.WriteString("][")
	sb.WriteString(r.Origin)
	sb.WriteString("][")
	sb.WriteString(level)
	sb.WriteString("] ")
	sb.WriteString(r.Message)

	return sb.String()
}

type jsonLine struct {
	Time    string `json:"time"`
	Origin  string `json:"origin"`
	Message string `json:"message"`
	Level   Level  `json:"level"`
}

// JSONFormatter renders a record as a single JSON object with the level as its
// integer encoding.
func JSONFormatter(r Record) string {
	b, err := json.Marshal(jsonLine{
		Time:    r.Time.Format(time.RFC3339Nano),
		Origin:  r.Origin,
		Level:   r.Level,
		Message: r.Message,
	})
	if err != nil {
		return DefaultFormatter(r)
	}

	return string(b)
}
