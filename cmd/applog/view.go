package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	tea "charm.land/bubbletea/v2"

	"go.jacobcolvin.com/applog/log"
)

func newViewCmd(cfg *log.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "view [FILE]",
		Short: "Watch UI log events in an interactive viewer",
		Long: `view plays the part of the application UI. It subscribes to the webview
target and shows every record forwarded to it. Press 1-5 to send a remote log
call at that level, q to quit. Lines of FILE, if given, are logged on start.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			pub := log.NewPublisher(log.WithBufferSize(256))
			defer pub.Close() //nolint:errcheck // Always nil.

			sub := pub.Subscribe()
			defer sub.Close()

			b, err := viewBuilder(cfg)
			if err != nil {
				return err
			}

			d, err := log.ActivateAndInstall(b.Build(), cfg.NewHost(pub))
			if err != nil {
				return err
			}
			defer d.Close()

			slog.Info("viewer started", slog.Any("sinks", d.Sinks()))

			if len(args) == 1 {
				go replayFile(d, args[0])
			}

			_, err = tea.NewProgram(newViewer(sub, log.DefaultLevelStyles())).Run()
			if err != nil {
				return fmt.Errorf("run viewer: %w", err)
			}

			return nil
		},
	}
}

// viewBuilder configures logging for the viewer. Nothing may write to the
// terminal while the viewer holds the alt screen, so the fallback reports are
// discarded along with the console targets.
func viewBuilder(cfg *log.Config) (*log.Builder, error) {
	cfg.Targets = viewTargets(cfg.Targets)

	b, err := cfg.NewBuilder()
	if err != nil {
		return nil, err
	}

	return b.Fallback(io.Discard), nil
}

// viewTargets drops the console targets, which would draw over the viewer,
// and makes sure the webview target is present.
func viewTargets(targets []string) []string {
	out := make([]string, 0, len(targets)+1)
	for _, s := range targets {
		t, err := log.ParseTarget(s)
		if err == nil && (t.Kind() == log.TargetStdout || t.Kind() == log.TargetStderr) {
			continue
		}

		out = append(out, s)
	}

	if !slices.ContainsFunc(out, func(s string) bool {
		t, err := log.ParseTarget(s)
		return err == nil && t.Kind() == log.TargetWebview
	}) {
		out = append(out, log.Webview().String())
	}

	return out
}

func replayFile(d *log.Dispatcher, path string) {
	f, err := os.Open(path)
	if err != nil {
		slog.Error("open replay file", slog.Any("err", err))
		return
	}
	defer f.Close() //nolint:errcheck // Read-only.

	origin := filepath.Base(path)

	err = pipeLines(bufio.NewReader(f), d, origin, log.LevelInfo)
	if err != nil {
		slog.Error("replay file", slog.Any("err", err))
	}
}

// eventMsg carries one UI event from the subscription.
type eventMsg struct {
	ev log.Event
}

// streamDoneMsg signals that the subscription channel was closed.
type streamDoneMsg struct{}

// viewer is the bubbletea model for the log viewer.
type viewer struct {
	sub    *log.Subscription
	styles log.LevelStyles
	lines  []string
	buf    strings.Builder
	rows   int
	done   bool
}

func newViewer(sub *log.Subscription, styles log.LevelStyles) *viewer {
	return &viewer{
		sub:    sub,
		styles: styles,
		rows:   24,
	}
}

// Init starts waiting for the first event.
func (m *viewer) Init() tea.Cmd {
	return m.next()
}

func (m *viewer) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.sub.C()
		if !ok {
			return streamDoneMsg{}
		}

		return eventMsg{ev: ev}
	}
}

// Update handles events, resizes, and key presses.
func (m *viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "1", "2", "3", "4", "5":
			n, _ := strconv.Atoi(key)
			log.Remote(n, fmt.Sprintf("%s button pressed", log.Level(n)))
		}

	case tea.WindowSizeMsg:
		m.rows = msg.Height
		m.trim()

	case eventMsg:
		m.lines = append(m.lines, m.renderEvent(msg.ev))
		m.trim()

		return m, m.next()

	case streamDoneMsg:
		m.done = true
	}

	return m, nil
}

func (m *viewer) renderEvent(ev log.Event) string {
	p, ok := ev.Payload.(log.RecordPayload)
	if !ok {
		return fmt.Sprintf("%s %v", ev.Name, ev.Payload)
	}

	return m.styles.Render(p.Level) + " " + p.Message
}

// trim keeps only the lines that fit below the header.
func (m *viewer) trim() {
	keep := max(m.rows-2, 1)
	if len(m.lines) > keep {
		m.lines = slices.Clone(m.lines[len(m.lines)-keep:])
	}
}

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

// View renders the header and the most recent events.
func (m *viewer) View() tea.View {
	m.buf.Reset()

	status := log.EventName
	if m.done {
		status += " (closed)"
	}

	m.buf.WriteString(headerStyle.Render("applog view: " + status + "  [1-5] log  [q] quit"))
	m.buf.WriteString("\n\n")
	m.buf.WriteString(strings.Join(m.lines, "\n"))

	v := tea.NewView(m.buf.String())
	v.AltScreen = true

	return v
}
