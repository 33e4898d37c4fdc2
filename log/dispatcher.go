package log

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	charmlog "charm.land/log/v2"
)

// Dispatcher filters records by severity and fans them out to its sinks in
// target declaration order.
//
// A Dispatcher is immutable after [Activate] and safe for concurrent use.
// Fan-out happens synchronously on the calling goroutine; each sink serializes
// its own writes.
type Dispatcher struct {
	formatter Formatter
	fallback  *charmlog.Logger
	appName   string
	sinks     []Sink
	// forwardDown tracks, per sink, whether a forward failure has already been
	// reported since the last successful delivery.
	forwardDown []atomic.Bool
	level       Level
	renderLine  bool
	closed      atomic.Bool
}

// Activate resolves every target in s into a live sink, in declaration order.
//
// File targets create their directory and apply the rotation policy exactly
// once, here. If any sink fails to open, sinks opened so far are closed and an
// error wrapping [ErrSinkOpen] is returned. host may be nil when no target
// needs it.
//
// Activation is rejected with [ErrAlreadyActive] once a dispatcher has been
// installed with [Install]; no directory or file is touched in that case, so
// the installed dispatcher's log files are never rotated while it writes.
func Activate(s Settings, host Host) (*Dispatcher, error) {
	if active.Load() != nil {
		return nil, ErrAlreadyActive
	}

	if s.formatter == nil {
		return nil, fmt.Errorf("%w: settings were not built with NewBuilder", ErrInvalidArgument)
	}

	appName := ""
	if host != nil {
		appName = host.AppName()
	}

	sinks := make([]Sink, 0, len(s.targets))

	for i, t := range s.targets {
		sink, err := openSink(s, host, appName, t)
		if err != nil {
			//nolint:errcheck // The open error is the one worth returning.
			closeSinks(sinks)

			return nil, fmt.Errorf("target %d (%s): %w", i, t, err)
		}

		sinks = append(sinks, sink)
	}

	fallback := charmlog.NewWithOptions(s.fallback, charmlog.Options{
		Prefix:          "applog",
		ReportTimestamp: true,
	})

	return &Dispatcher{
		formatter:   s.formatter,
		fallback:    fallback,
		appName:     appName,
		sinks:       sinks,
		forwardDown: make([]atomic.Bool, len(sinks)),
		level:       s.level,
		renderLine:  needsLine(sinks),
	}, nil
}

func openSink(s Settings, host Host, appName string, t Target) (Sink, error) {
	switch t.kind {
	case TargetStdout:
		return newStreamSink("stdout", s.stdout), nil

	case TargetStderr:
		return newStreamSink("stderr", s.stderr), nil

	case TargetWriter:
		if t.w == nil {
			return nil, fmt.Errorf("%w: %w: nil writer", ErrSinkOpen, ErrInvalidArgument)
		}

		return newStreamSink(t.name, t.w), nil

	case TargetFolder:
		return openFileSink(t.path, appName, s.rotation, s.maxFileSize, s.clock())

	case TargetLogDir:
		if host == nil {
			return nil, fmt.Errorf("%w: %w: no host to resolve log directory", ErrSinkOpen, ErrInvalidArgument)
		}

		dir, err := host.LogDir()
		if err != nil {
			return nil, fmt.Errorf("%w: resolve log directory: %w", ErrSinkOpen, err)
		}

		return openFileSink(dir, appName, s.rotation, s.maxFileSize, s.clock())

	case TargetWebview:
		if host == nil || host.Emitter() == nil {
			return nil, fmt.Errorf("%w: %w: host has no UI emitter", ErrSinkOpen, ErrInvalidArgument)
		}

		return newWebviewSink(host.Emitter()), nil
	}

	return nil, fmt.Errorf("%w: %w", ErrSinkOpen, ErrUnknownTarget)
}

func closeSinks(sinks []Sink) error {
	var errs []error

	for _, s := range sinks {
		err := s.Close()
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Enabled reports whether records at level l pass the severity filter.
func (d *Dispatcher) Enabled(l Level) bool {
	return l.Enabled(d.level)
}

// Sinks returns the names of the live sinks in fan-out order.
func (d *Dispatcher) Sinks() []string {
	names := make([]string, 0, len(d.sinks))
	for _, s := range d.sinks {
		names = append(names, s.Name())
	}

	return names
}

// Dispatch delivers r to every sink if its level passes the filter.
//
// The line is rendered once and shared by all text sinks. A failing sink never
// prevents delivery to the sinks after it. Write failures are reported to the
// fallback logger and returned joined. UI forward failures are tolerated:
// they are reported once until the sink recovers and are not returned.
func (d *Dispatcher) Dispatch(r Record) error {
	if d.closed.Load() {
		return ErrClosed
	}

	if !d.Enabled(r.Level) {
		return nil
	}

	if r.Time.IsZero() {
		r.Time = time.Now()
	}

	var line string
	if d.renderLine {
		line = d.formatter(r)
	}

	var errs []error

	for i, s := range d.sinks {
		err := s.Emit(r, line)
		if err == nil {
			d.forwardDown[i].Store(false)

			continue
		}

		if errors.Is(err, ErrForward) {
			if d.forwardDown[i].CompareAndSwap(false, true) {
				d.fallback.Warn("ui forwarding failed", "sink", s.Name(), "err", err)
			}

			continue
		}

		d.fallback.Error("sink write failed", "sink", s.Name(), "err", err)

		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Log dispatches a new [Record] stamped with the current time.
func (d *Dispatcher) Log(origin string, level Level, msg string) error {
	return d.Dispatch(NewRecord(origin, level, msg))
}

// Close closes every sink. Subsequent calls to [Dispatcher.Dispatch] return
// [ErrClosed]. Idempotent.
func (d *Dispatcher) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}

	return closeSinks(d.sinks)
}

// active is the process-wide dispatcher.
var active atomic.Pointer[Dispatcher]

// Install makes d the process-wide dispatcher and routes the [log/slog] default
// logger through it. Only the first call succeeds; later calls return
// [ErrAlreadyActive] and change nothing.
func Install(d *Dispatcher) error {
	if d == nil {
		return fmt.Errorf("%w: nil dispatcher", ErrInvalidArgument)
	}

	if !active.CompareAndSwap(nil, d) {
		return ErrAlreadyActive
	}

	slog.SetDefault(slog.New(d.Handler()))

	return nil
}

// Active returns the process-wide dispatcher, or nil before [Install].
func Active() *Dispatcher {
	return active.Load()
}

// ActivateAndInstall activates s and installs the result. If a dispatcher is
// already installed, [ErrAlreadyActive] is returned; a dispatcher that loses
// an install race is closed.
func ActivateAndInstall(s Settings, host Host) (*Dispatcher, error) {
	d, err := Activate(s, host)
	if err != nil {
		return nil, err
	}

	err = Install(d)
	if err != nil {
		//nolint:errcheck // Install failure is the error worth returning.
		d.Close()

		return nil, err
	}

	return d, nil
}
