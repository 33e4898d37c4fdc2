// Package logtest provides test doubles for the log package's sinks and hosts.
package logtest

import (
	"errors"
	"strings"
	"sync"
)

// ErrFail is returned by [FailingWriter] and [Emitter] when set to fail.
var ErrFail = errors.New("logtest: induced failure")

// Event is an event captured by [Emitter].
type Event struct {
	Payload any
	Name    string
}

// Emitter records every emitted event. Safe for concurrent use.
type Emitter struct {
	events []Event
	mu     sync.Mutex
	fail   bool
}

// Emit records the event, or returns [ErrFail] if [Emitter.SetFail] is on.
func (e *Emitter) Emit(event string, payload any) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.fail {
		return ErrFail
	}

	e.events = append(e.events, Event{Name: event, Payload: payload})

	return nil
}

// SetFail makes subsequent calls to Emit fail.
func (e *Emitter) SetFail(fail bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.fail = fail
}

// Events returns a copy of the recorded events.
func (e *Emitter) Events() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Event, len(e.events))
	copy(out, e.events)

	return out
}

// FailingWriter is an io.Writer that always fails.
type FailingWriter struct{}

// Write returns [ErrFail].
func (FailingWriter) Write([]byte) (int, error) {
	return 0, ErrFail
}

// Sequence records the order in which named writers are written to.
// Safe for concurrent use.
type Sequence struct {
	names []string
	mu    sync.Mutex
}

// Writer returns an io.Writer that appends name to s on every write.
func (s *Sequence) Writer(name string) *SequenceWriter {
	return &SequenceWriter{seq: s, name: name}
}

// Names returns the recorded writer names, in write order.
func (s *Sequence) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.names))
	copy(out, s.names)

	return out
}

// SequenceWriter is a writer created by [Sequence.Writer].
type SequenceWriter struct {
	seq  *Sequence
	name string
}

// Write records the writer's name.
func (w *SequenceWriter) Write(b []byte) (int, error) {
	w.seq.mu.Lock()
	defer w.seq.mu.Unlock()

	w.seq.names = append(w.seq.names, w.name)

	return len(b), nil
}

// Lines splits s into lines, dropping a single trailing newline.
func Lines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}

	return strings.Split(s, "\n")
}

// JoinLF joins lines with LF line endings and a trailing newline, the way line
// sinks write them.
//
// Example:
//
//	want := logtest.JoinLF(
//		"line1",
//		"line2",
//	) // -> "line1\nline2\n"
func JoinLF(lines ...string) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}

	return sb.String()
}

// SyncBuffer is a strings.Builder guarded by a mutex.
type SyncBuffer struct {
	sb strings.Builder
	mu sync.Mutex
}

// Write appends b.
func (b *SyncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.sb.Write(p)
}

// String returns the buffered text.
func (b *SyncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.sb.String()
}
