package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Sink is a live destination created from a [Target].
//
// Emit receives the record and its rendered line. Text sinks write the line;
// structured sinks ignore it. Sinks serialize concurrent calls themselves.
type Sink interface {
	Name() string
	Emit(r Record, line string) error
	Close() error
}

// textSink is implemented by sinks that consume the rendered line.
type textSink interface {
	wantsLine() bool
}

// streamSink writes lines to a process stream or arbitrary writer.
type streamSink struct {
	w    io.Writer
	name string
	mu   sync.Mutex
}

func newStreamSink(name string, w io.Writer) *streamSink {
	return &streamSink{name: name, w: w}
}

func (s *streamSink) Name() string { return s.name }

func (s *streamSink) wantsLine() bool { return true }

func (s *streamSink) Emit(_ Record, line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := io.WriteString(s.w, line+"\n")
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, s.name, err)
	}

	return nil
}

// Close is a no-op; process streams outlive the dispatcher.
func (s *streamSink) Close() error { return nil }

// fileSink appends lines to a log file opened once at activation.
type fileSink struct {
	f    *os.File
	path string
	mu   sync.Mutex
}

// openFileSink applies the rotation policy in dir and opens the log file for
// appending.
func openFileSink(dir, appName string, strategy RotationStrategy, maxSize int64, now time.Time) (*fileSink, error) {
	path, err := PrepareLogFile(dir, appName, strategy, maxSize, now)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // Path is built from host-provided directory and app name.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: open log file: %w", ErrSinkOpen, err)
	}

	return &fileSink{f: f, path: path}, nil
}

func (s *fileSink) Name() string { return s.path }

func (s *fileSink) wantsLine() bool { return true }

func (s *fileSink) Emit(_ Record, line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, s.path, os.ErrClosed)
	}

	// One write per line keeps concurrent records from interleaving.
	_, err := s.f.WriteString(line + "\n")
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, s.path, err)
	}

	return nil
}

func (s *fileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return nil
	}

	err := s.f.Close()
	s.f = nil

	if err != nil {
		return fmt.Errorf("close %s: %w", s.path, err)
	}

	return nil
}

// webviewSink forwards structured records to the UI. The emitter may be
// invoked from any goroutine, so it is only reached under mu.
type webviewSink struct {
	emitter Emitter
	mu      sync.Mutex
}

func newWebviewSink(e Emitter) *webviewSink {
	return &webviewSink{emitter: e}
}

func (s *webviewSink) Name() string { return "webview" }

func (s *webviewSink) Emit(r Record, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.emitter.Emit(EventName, r.Payload())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrForward, err)
	}

	return nil
}

func (s *webviewSink) Close() error { return nil }

// needsLine reports whether any sink consumes rendered lines.
func needsLine(sinks []Sink) bool {
	for _, s := range sinks {
		if t, ok := s.(textSink); ok && t.wantsLine() {
			return true
		}
	}

	return false
}
