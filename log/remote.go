package log

import (
	"encoding/json"
	"fmt"
)

const (
	// PluginName is the name the logger registers under in the host.
	PluginName = "log"
	// CommandName is the fully qualified remote log command.
	CommandName = "plugin:" + PluginName + "|log"
	// RemoteOrigin is the origin of records received through the remote
	// command.
	RemoteOrigin = "webview"
)

// Command is the remote log call: it logs message at the integer-encoded
// level and reports nothing back to the caller.
type Command func(level int, message string)

// RemoteCall is the argument shape of [CommandName].
type RemoteCall struct {
	Message string `json:"message"`
	Level   int    `json:"level"`
}

// Command returns the remote log call bound to d.
//
// Levels outside 1 to 5 are dropped and reported to the fallback logger. Sink
// failures are reported by [Dispatcher.Dispatch] and never reach the caller.
func (d *Dispatcher) Command() Command {
	return func(level int, message string) {
		l := Level(level)
		if !l.Valid() {
			d.fallback.Warn("dropping remote log call", "level", level, "err", ErrUnknownLogLevel)
			return
		}

		//nolint:errcheck // Dispatch has already reported the failure.
		d.Log(RemoteOrigin, l, message)
	}
}

// Remote performs the remote log call on the process-wide dispatcher. It is a
// no-op before [Install].
func Remote(level int, message string) {
	d := Active()
	if d == nil {
		return
	}

	d.Command()(level, message)
}

// HandleInvoke decodes a JSON [RemoteCall] and performs it on the process-wide
// dispatcher. Only decode failures are returned.
func HandleInvoke(payload []byte) error {
	var call RemoteCall

	err := json.Unmarshal(payload, &call)
	if err != nil {
		return fmt.Errorf("%w: decode %s arguments: %w", ErrInvalidArgument, CommandName, err)
	}

	Remote(call.Level, call.Message)

	return nil
}
