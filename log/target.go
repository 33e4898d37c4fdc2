package log

import (
	"fmt"
	"io"
	"strings"
)

// TargetKind identifies the kind of sink a [Target] describes.
type TargetKind int

const (
	// TargetStdout writes formatted lines to standard output.
	TargetStdout TargetKind = iota + 1
	// TargetStderr writes formatted lines to standard error.
	TargetStderr
	// TargetFolder writes to a rotated log file in an explicit directory.
	TargetFolder
	// TargetLogDir writes to a rotated log file in the host's log directory.
	TargetLogDir
	// TargetWebview forwards structured records to the UI.
	TargetWebview
	// TargetWriter writes formatted lines to a caller-supplied [io.Writer].
	TargetWriter
)

// String returns the name used by [ParseTarget].
func (k TargetKind) String() string {
	switch k {
	case TargetStdout:
		return "stdout"
	case TargetStderr:
		return "stderr"
	case TargetFolder:
		return "folder"
	case TargetLogDir:
		return "logdir"
	case TargetWebview:
		return "webview"
	case TargetWriter:
		return "writer"
	}

	return "unknown"
}

// Target declaratively describes a sink. It is pure configuration; the live
// sink is created by [Activate].
//
// Create instances with [Stdout], [Stderr], [Folder], [LogDir], [Webview], or
// [Writer].
type Target struct {
	w    io.Writer
	path string
	name string
	kind TargetKind
}

// Stdout returns a [Target] for standard output.
func Stdout() Target { return Target{kind: TargetStdout} }

// Stderr returns a [Target] for standard error.
func Stderr() Target { return Target{kind: TargetStderr} }

// Folder returns a [Target] for a log file in dir.
func Folder(dir string) Target { return Target{kind: TargetFolder, path: dir} }

// LogDir returns a [Target] for a log file in the host's log directory.
func LogDir() Target { return Target{kind: TargetLogDir} }

// Webview returns a [Target] that emits each record as a UI event.
func Webview() Target { return Target{kind: TargetWebview} }

// Writer returns a [Target] that writes formatted lines to w. The name is used
// in diagnostics.
func Writer(name string, w io.Writer) Target {
	return Target{kind: TargetWriter, name: name, w: w}
}

// Kind returns the kind of sink t describes.
func (t Target) Kind() TargetKind { return t.kind }

// Path returns the directory of a [TargetFolder] target.
func (t Target) Path() string { return t.path }

// String returns the target in the syntax accepted by [ParseTarget].
func (t Target) String() string {
	switch t.kind {
	case TargetFolder:
		return "folder=" + t.path
	case TargetWriter:
		return "writer=" + t.name
	}

	return t.kind.String()
}

// ParseTarget parses one of "stdout", "stderr", "logdir", "webview", or
// "folder=PATH".
func ParseTarget(s string) (Target, error) {
	name, value, hasValue := strings.Cut(strings.TrimSpace(s), "=")

	switch strings.ToLower(name) {
	case "stdout":
		return Stdout(), nil
	case "stderr":
		return Stderr(), nil
	case "logdir":
		return LogDir(), nil
	case "webview":
		return Webview(), nil
	case "folder":
		if !hasValue || value == "" {
			return Target{}, fmt.Errorf("%w: folder target requires a path", ErrUnknownTarget)
		}

		return Folder(value), nil
	}

	return Target{}, fmt.Errorf("%w: %q", ErrUnknownTarget, s)
}

// GetAllTargetStrings returns the target names accepted by [ParseTarget].
func GetAllTargetStrings() []string {
	return []string{"stdout", "stderr", "logdir", "webview", "folder="}
}
