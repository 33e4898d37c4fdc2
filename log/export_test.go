package log

import "log/slog"

var initialSlog = slog.Default()

// ResetActive uninstalls the process-wide dispatcher.
func ResetActive() {
	active.Store(nil)
	slog.SetDefault(initialSlog)
}

// PlatformLogDir exposes platformLogDir.
var PlatformLogDir = platformLogDir
