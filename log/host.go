package log

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// EventName is the UI event emitted for each record by a [Webview] target.
const EventName = "log://log"

// Emitter delivers a named event with a payload to the UI layer.
//
// Implementations need not be safe for concurrent use; the webview sink
// serializes calls.
type Emitter interface {
	Emit(event string, payload any) error
}

// EmitterFunc adapts a function to [Emitter].
type EmitterFunc func(event string, payload any) error

// Emit calls f.
func (f EmitterFunc) Emit(event string, payload any) error {
	return f(event, payload)
}

// Host is the embedding application as seen by [Activate].
type Host interface {
	// AppName names the log file ({AppName}.log) and is the default origin
	// for records from [log/slog].
	AppName() string
	// LogDir returns the OS-appropriate per-application log directory.
	LogDir() (string, error)
	// Emitter returns the UI event channel, or nil if there is none.
	Emitter() Emitter
}

var errNoHome = errors.New("no home directory")

// OSHost is a [Host] that resolves the log directory from the operating system.
//
// On macOS the directory is ~/Library/Logs/{Identifier}; elsewhere it is
// {os.UserConfigDir}/{Identifier}.
type OSHost struct {
	// Events receives UI events. May be nil.
	Events Emitter
	// Name is the application name.
	Name string
	// Identifier is the reverse-DNS application identifier. Defaults to Name.
	Identifier string
	// Dir overrides the resolved log directory when non-empty.
	Dir string
}

// AppName implements [Host].
func (h *OSHost) AppName() string {
	return h.Name
}

// Emitter implements [Host].
func (h *OSHost) Emitter() Emitter {
	return h.Events
}

// LogDir implements [Host].
func (h *OSHost) LogDir() (string, error) {
	if h.Dir != "" {
		return h.Dir, nil
	}

	id := h.Identifier
	if id == "" {
		id = h.Name
	}

	if id == "" {
		return "", fmt.Errorf("%w: empty application identifier", ErrInvalidArgument)
	}

	return platformLogDir(runtime.GOOS, id, os.UserHomeDir, os.UserConfigDir)
}

func platformLogDir(goos, id string, home, config func() (string, error)) (string, error) {
	if goos == "darwin" {
		dir, err := home()
		if err != nil {
			return "", fmt.Errorf("%w: %w", errNoHome, err)
		}

		return filepath.Join(dir, "Library", "Logs", id), nil
	}

	dir, err := config()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}

	return filepath.Join(dir, id), nil
}
