package log

import "errors"

var (
	// ErrInvalidArgument indicates an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnknownLogLevel indicates an unrecognized log level string.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrUnknownLogFormat indicates an unrecognized log format string.
	ErrUnknownLogFormat = errors.New("unknown log format")
	// ErrUnknownRotation indicates an unrecognized rotation strategy string.
	ErrUnknownRotation = errors.New("unknown rotation strategy")
	// ErrUnknownTarget indicates an unrecognized log target string.
	ErrUnknownTarget = errors.New("unknown log target")
	// ErrInvalidSize indicates a malformed human-readable size.
	ErrInvalidSize = errors.New("invalid size")
	// ErrInvalidConfig indicates host plugin configuration that fails
	// validation.
	ErrInvalidConfig = errors.New("invalid plugin config")

	// ErrSinkOpen indicates a sink could not be opened during activation.
	ErrSinkOpen = errors.New("open sink")
	// ErrWrite indicates a sink failed to write a record after activation.
	ErrWrite = errors.New("write record")
	// ErrForward indicates a record could not be forwarded to the UI.
	ErrForward = errors.New("forward record")

	// ErrAlreadyActive is returned when a second dispatcher is installed.
	ErrAlreadyActive = errors.New("dispatcher already active")
	// ErrClosed is returned when dispatching through a closed dispatcher.
	ErrClosed = errors.New("dispatcher closed")
	// ErrPublisherClosed is returned when emitting on a closed [Publisher].
	ErrPublisherClosed = errors.New("publisher closed")
)
