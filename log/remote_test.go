package log_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/applog/internal/logtest"
	"go.jacobcolvin.com/applog/log"
)

// Tests in this file touch the process-wide dispatcher and must not run in
// parallel.

func installForTest(t *testing.T, b *log.Builder) *log.Dispatcher {
	t.Helper()

	log.ResetActive()
	t.Cleanup(log.ResetActive)

	d, err := log.ActivateAndInstall(b.Build(), &testHost{name: "app"})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, d.Close()) })

	return d
}

func TestInstallOnce(t *testing.T) {
	var buf bytes.Buffer

	log.ResetActive()

	other, err := log.Activate(log.NewBuilder(log.Stdout()).Build(), nil)
	require.NoError(t, err)

	d := installForTest(t, log.NewBuilder(log.Writer("buf", &buf)).Formatter(messageFormatter))
	assert.Same(t, d, log.Active())

	require.ErrorIs(t, log.Install(other), log.ErrAlreadyActive)
	require.NoError(t, other.Close())

	_, err = log.ActivateAndInstall(log.NewBuilder(log.Stdout()).Build(), nil)
	require.ErrorIs(t, err, log.ErrAlreadyActive)

	assert.Same(t, d, log.Active())

	slog.Info("through slog")
	assert.Equal(t, "app|INFO|through slog\n", buf.String())
}

func TestActivateWhileInstalled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	long := strings.Repeat("x", 80)

	b := log.NewBuilder(log.Folder(dir)).MaxFileSize(50).Formatter(messageFormatter)
	d := installForTest(t, b)

	require.NoError(t, d.Log("app", log.LevelInfo, long))

	tcs := map[string]struct {
		strategy log.RotationStrategy
	}{
		"keep one": {strategy: log.KeepOne},
		"keep all": {strategy: log.KeepAll},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			_, err := log.Activate(b.RotationStrategy(tc.strategy).Build(), &testHost{name: "app"})
			require.ErrorIs(t, err, log.ErrAlreadyActive)

			_, err = log.ActivateAndInstall(b.Build(), &testHost{name: "app"})
			require.ErrorIs(t, err, log.ErrAlreadyActive)
		})
	}

	require.NoError(t, d.Log("app", log.LevelInfo, "after second activation"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, logtest.JoinLF("app|INFO|"+long, "app|INFO|after second activation"), string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestInstallNil(t *testing.T) {
	log.ResetActive()
	t.Cleanup(log.ResetActive)

	require.ErrorIs(t, log.Install(nil), log.ErrInvalidArgument)
	assert.Nil(t, log.Active())
}

func TestRemote(t *testing.T) {
	var (
		buf      bytes.Buffer
		fallback logtest.SyncBuffer
	)

	installForTest(t, log.NewBuilder(log.Writer("buf", &buf)).
		Level(log.LevelDebug).
		Formatter(messageFormatter).
		Fallback(&fallback))

	log.Remote(3, "from ui")
	log.Remote(1, "filtered trace")
	log.Remote(9, "bad level")
	log.Remote(0, "zero level")

	require.NoError(t, log.HandleInvoke([]byte(`{"level":5,"message":"invoked"}`)))

	err := log.HandleInvoke([]byte(`{"level":"loud"}`))
	require.ErrorIs(t, err, log.ErrInvalidArgument)

	assert.Equal(t, logtest.JoinLF(
		"webview|INFO|from ui",
		"webview|ERROR|invoked",
	), buf.String())
	assert.Contains(t, fallback.String(), "dropping remote log call")
}

func TestRemoteBeforeInstall(t *testing.T) {
	log.ResetActive()
	t.Cleanup(log.ResetActive)

	assert.NotPanics(t, func() { log.Remote(3, "nobody listening") })
	require.NoError(t, log.HandleInvoke([]byte(`{"level":3,"message":"x"}`)))
}

func TestDispatcherCommand(t *testing.T) {
	t.Parallel()

	host := newHost(t)
	emitter := &logtest.Emitter{}
	host.emitter = emitter

	d := activate(t, log.NewBuilder(log.Webview()), host)

	cmd := d.Command()
	cmd(4, "low disk")

	events := emitter.Events()
	require.Len(t, events, 1)
	assert.Equal(t, log.RecordPayload{Message: "low disk", Level: log.LevelWarn}, events[0].Payload)
}
