// Package log is a multi-sink logging dispatcher for desktop applications.
//
// Records from application code (directly or via [log/slog]) and from the UI's
// remote log command are filtered by [Level], rendered by a [Formatter], and
// fanned out in declaration order to the sinks described by a list of
// [Target] values: process streams, rotated log files in a folder or in the OS
// log directory, and a UI event channel ([EventName]).
//
// Configuration is assembled with a [Builder] and frozen into [Settings].
// [Activate] resolves the targets into live sinks, applying the
// [RotationStrategy] to each log file once, at open time:
//
//	settings := log.NewBuilder(log.LogDir(), log.Stdout(), log.Webview()).
//	    Level(log.LevelInfo).
//	    RotationStrategy(log.KeepAll).
//	    Build()
//
//	d, err := log.ActivateAndInstall(settings, host)
//	if err != nil {
//	    return err
//	}
//	defer d.Close()
//
//	slog.Info("ready", "origin", "main")
//
// [Install] makes a dispatcher the process-wide one and routes the slog
// default logger through it; it succeeds once per process. The UI's remote log
// call is served by [Remote] or [HandleInvoke].
//
// Flag-driven setup with cobra and pflag:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//
//	b, err := cfg.NewBuilder()
//	d, err := log.Activate(b.Build(), cfg.NewHost(nil))
//
// A [Publisher] is an [Emitter] that fans UI events out to in-process
// subscribers, which is useful for displaying logs inside a Bubble Tea TUI.
package log
