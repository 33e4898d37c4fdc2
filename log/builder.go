package log

import (
	"io"
	"os"
	"slices"
	"time"
)

// Settings is the frozen configuration of a [Dispatcher].
//
// Create instances with [Builder.Build]. The zero value is not useful.
type Settings struct {
	formatter   Formatter
	stdout      io.Writer
	stderr      io.Writer
	fallback    io.Writer
	clock       func() time.Time
	targets     []Target
	maxFileSize int64
	level       Level
	rotation    RotationStrategy
}

// Level returns the minimum severity.
func (s Settings) Level() Level { return s.level }

// RotationStrategy returns the rotation strategy applied to file sinks.
func (s Settings) RotationStrategy() RotationStrategy { return s.rotation }

// MaxFileSize returns the rotation threshold in bytes.
func (s Settings) MaxFileSize() int64 { return s.maxFileSize }

// Targets returns a copy of the targets in declaration order.
func (s Settings) Targets() []Target { return slices.Clone(s.targets) }

// Fallback returns the writer that sink failures are reported to.
func (s Settings) Fallback() io.Writer { return s.fallback }

// Builder assembles [Settings].
//
// Create instances with [NewBuilder]. Setters return the builder for chaining;
// [Builder.Build] snapshots the current values, so later changes to the
// builder do not affect previously built settings.
type Builder struct {
	s Settings
}

// NewBuilder creates a [Builder] with the given targets and defaults: minimum
// level [LevelTrace], [KeepOne] rotation, [DefaultMaxFileSize], and
// [DefaultFormatter].
func NewBuilder(targets ...Target) *Builder {
	return &Builder{
		s: Settings{
			level:       LevelTrace,
			rotation:    KeepOne,
			maxFileSize: DefaultMaxFileSize,
			formatter:   DefaultFormatter,
			targets:     slices.Clone(targets),
			stdout:      os.Stdout,
			stderr:      os.Stderr,
			fallback:    os.Stderr,
			clock:       time.Now,
		},
	}
}

// Level sets the minimum severity.
func (b *Builder) Level(l Level) *Builder {
	b.s.level = l
	return b
}

// RotationStrategy sets the rotation strategy for file sinks.
func (b *Builder) RotationStrategy(s RotationStrategy) *Builder {
	b.s.rotation = s
	return b
}

// MaxFileSize sets the rotation threshold in bytes.
func (b *Builder) MaxFileSize(n int64) *Builder {
	b.s.maxFileSize = n
	return b
}

// Formatter replaces the formatter used for text sinks. A nil formatter
// restores [DefaultFormatter].
func (b *Builder) Formatter(f Formatter) *Builder {
	if f == nil {
		f = DefaultFormatter
	}

	b.s.formatter = f

	return b
}

// Targets appends targets.
func (b *Builder) Targets(targets ...Target) *Builder {
	b.s.targets = append(b.s.targets, targets...)
	return b
}

// Stdout overrides the writer behind [Stdout] targets.
func (b *Builder) Stdout(w io.Writer) *Builder {
	b.s.stdout = w
	return b
}

// Stderr overrides the writer behind [Stderr] targets.
func (b *Builder) Stderr(w io.Writer) *Builder {
	b.s.stderr = w
	return b
}

// Fallback sets where sink failures are reported. Defaults to [os.Stderr];
// a nil writer discards the reports.
func (b *Builder) Fallback(w io.Writer) *Builder {
	if w == nil {
		w = io.Discard
	}

	b.s.fallback = w

	return b
}

// Clock overrides the time source used for rotation archive names. A nil
// clock restores [time.Now].
func (b *Builder) Clock(now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}

	b.s.clock = now

	return b
}

// Build returns the frozen [Settings].
func (b *Builder) Build() Settings {
	s := b.s
	s.targets = slices.Clone(b.s.targets)

	return s
}
