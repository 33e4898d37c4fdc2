package main

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tea "charm.land/bubbletea/v2"

	"go.jacobcolvin.com/applog/internal/logtest"
	"go.jacobcolvin.com/applog/log"
)

func TestConsoleOnly(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		targets []string
		want    bool
	}{
		"stdout":         {targets: []string{"stdout"}, want: true},
		"both streams":   {targets: []string{"stdout", "stderr"}, want: true},
		"with folder":    {targets: []string{"stdout", "folder=/tmp/x"}, want: false},
		"webview":        {targets: []string{"webview"}, want: false},
		"invalid target": {targets: []string{"syslog"}, want: false},
		"none":           {want: false},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, consoleOnly(tc.targets))
		})
	}
}

func TestViewTargets(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		targets []string
		want    []string
	}{
		"console replaced": {
			targets: []string{"stdout", "stderr"},
			want:    []string{"webview"},
		},
		"files kept": {
			targets: []string{"stdout", "logdir", "folder=/tmp/x"},
			want:    []string{"logdir", "folder=/tmp/x", "webview"},
		},
		"webview not duplicated": {
			targets: []string{"webview", "logdir"},
			want:    []string{"webview", "logdir"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, viewTargets(tc.targets))
		})
	}
}

func TestViewBuilder(t *testing.T) {
	t.Parallel()

	cfg := log.NewConfig()
	cfg.Level = "debug"
	cfg.Format = "text"
	cfg.Rotation = "keep-one"
	cfg.Targets = []string{"stdout", "stderr", "folder=/tmp/applog"}

	b, err := viewBuilder(cfg)
	require.NoError(t, err)

	s := b.Build()
	assert.Equal(t, io.Discard, s.Fallback())
	assert.Equal(t, []log.Target{log.Folder("/tmp/applog"), log.Webview()}, s.Targets())
	assert.Equal(t, log.LevelDebug, s.Level())
}

type recordingLogger struct {
	failOn string
	lines  []string
}

func (l *recordingLogger) Log(origin string, level log.Level, msg string) error {
	l.lines = append(l.lines, origin+"|"+level.String()+"|"+msg)
	if msg == l.failOn {
		return logtest.ErrFail
	}

	return nil
}

func TestPipeLines(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input  string
		failOn string
		want   []string
	}{
		"every line": {
			input: "first\nsecond\n",
			want:  []string{"stdin|WARN|first", "stdin|WARN|second"},
		},
		"no trailing newline": {
			input: "only",
			want:  []string{"stdin|WARN|only"},
		},
		"sink failure does not stop the stream": {
			input:  "a\nb\nc\n",
			failOn: "b",
			want:   []string{"stdin|WARN|a", "stdin|WARN|b", "stdin|WARN|c"},
		},
		"empty": {},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			l := &recordingLogger{failOn: tc.failOn}

			require.NoError(t, pipeLines(strings.NewReader(tc.input), l, "stdin", log.LevelWarn))
			assert.Equal(t, tc.want, l.lines)
		})
	}
}

func TestJSONEmitter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	e := jsonEmitter{w: &buf}
	require.NoError(t, e.Emit(log.EventName, log.RecordPayload{Message: "hi", Level: log.LevelWarn}))

	assert.JSONEq(t, `{"event":"log://log","payload":{"message":"hi","level":4}}`, buf.String())
}

func TestSchemaCmd(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	root := newRootCmd(log.NewConfig(), strings.NewReader(""), &out)
	root.SetArgs([]string{"schema"})
	require.NoError(t, root.Execute())

	var schema map[string]any

	require.NoError(t, json.Unmarshal(out.Bytes(), &schema))
	assert.Equal(t, "object", schema["type"])
}

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	root := newRootCmd(log.NewConfig(), strings.NewReader(""), &out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "devel")
}

// TestLogCmd installs the process-wide dispatcher, so it is the only test in
// this package that runs a logging subcommand.
func TestLogCmd(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	root := newRootCmd(log.NewConfig(), strings.NewReader(""), &out)
	root.SetArgs([]string{"--log-target", "webview", "log", "--level", "warn", "low", "disk"})
	require.NoError(t, root.Execute())

	assert.JSONEq(t, `{"event":"log://log","payload":{"message":"low disk","level":4}}`, out.String())
}

func TestLogCmdBadLevel(t *testing.T) {
	t.Parallel()

	root := newRootCmd(log.NewConfig(), strings.NewReader(""), &bytes.Buffer{})
	root.SetArgs([]string{"log", "--level", "loud", "x"})
	require.ErrorIs(t, root.Execute(), log.ErrUnknownLogLevel)
}

func TestViewerEvents(t *testing.T) {
	t.Parallel()

	pub := log.NewPublisher()
	sub := pub.Subscribe()
	m := newViewer(sub, log.LevelStyles{})

	_, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 4})
	assert.Nil(t, cmd)

	for _, msg := range []string{"one", "two", "three"} {
		_, cmd = m.Update(eventMsg{ev: log.Event{
			Name:    log.EventName,
			Payload: log.RecordPayload{Message: msg, Level: log.LevelInfo},
		}})
		assert.NotNil(t, cmd)
	}

	assert.Equal(t, []string{"INFO two", "INFO three"}, m.lines)

	require.NoError(t, pub.Close())
	assert.Equal(t, streamDoneMsg{}, m.next()())

	m.Update(streamDoneMsg{})
	assert.True(t, m.done)
}
