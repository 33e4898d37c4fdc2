// Command applog drives the log dispatcher from the command line.
//
// It activates a dispatcher from flags, installs it as the process-wide
// logger, and feeds it records the way an embedding desktop application
// would: through the remote log call, from a stream of lines, or from an
// interactive viewer that plays the part of the UI.
//
// # Usage
//
//	applog log [--level LEVEL] MESSAGE...
//	applog pipe < lines.txt
//	applog view [FILE]
//	applog schema
//	applog version
//
// Targets are chosen with --log-target (stdout, stderr, logdir, webview,
// folder=PATH). Outside of the viewer, webview events are printed to stdout
// as JSON lines.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"go.jacobcolvin.com/applog/log"
	"go.jacobcolvin.com/applog/version"
)

func main() {
	err := newRootCmd(log.NewConfig(), os.Stdin, os.Stdout).Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(cfg *log.Config, stdin io.Reader, stdout io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "applog",
		Short: "Multi-sink application logger",
		Long: `applog filters log records by severity and fans them out to the console,
rotated log files, the OS log directory, and a UI event channel.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed(cfg.Flags.Format) && consoleOnly(cfg.Targets) && isTerminal(stdout) {
				cfg.Format = string(log.FormatColor)
			}

			return nil
		},
	}

	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)

	cfg.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		newLogCmd(cfg),
		newPipeCmd(cfg),
		newViewCmd(cfg),
		newSchemaCmd(),
		newVersionCmd(),
	)

	completionErr := cfg.RegisterCompletions(rootCmd)
	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

	return rootCmd
}

func newLogCmd(cfg *log.Config) *cobra.Command {
	var level string

	cmd := &cobra.Command{
		Use:   "log [--level LEVEL] MESSAGE...",
		Short: "Send one record through the remote log call",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := log.ParseLevel(level)
			if err != nil {
				return fmt.Errorf("%w: %w", log.ErrInvalidArgument, err)
			}

			d, err := install(cfg, jsonEmitter{w: cmd.OutOrStdout()})
			if err != nil {
				return err
			}
			defer d.Close()

			log.Remote(int(lvl), strings.Join(args, " "))

			return nil
		},
	}

	cmd.Flags().StringVarP(&level, "level", "l", "info",
		fmt.Sprintf("record level, one of: %s (or 1-5)", strings.Join(log.GetAllLevelStrings(), ", ")))

	err := cmd.RegisterFlagCompletionFunc("level",
		cobra.FixedCompletions(log.GetAllLevelStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	return cmd
}

func newPipeCmd(cfg *log.Config) *cobra.Command {
	var (
		level  string
		origin string
	)

	cmd := &cobra.Command{
		Use:   "pipe",
		Short: "Log every line read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lvl, err := log.ParseLevel(level)
			if err != nil {
				return fmt.Errorf("%w: %w", log.ErrInvalidArgument, err)
			}

			d, err := install(cfg, jsonEmitter{w: cmd.OutOrStdout()})
			if err != nil {
				return err
			}
			defer d.Close()

			return pipeLines(cmd.InOrStdin(), d, origin, lvl)
		},
	}

	cmd.Flags().StringVarP(&level, "level", "l", "info", "level of every record")
	cmd.Flags().StringVar(&origin, "origin", "stdin", "origin tag of every record")

	return cmd
}

// lineLogger is the part of [log.Dispatcher] used to replay lines.
type lineLogger interface {
	Log(origin string, level log.Level, msg string) error
}

// pipeLines logs each line of r. Sink failures have already been reported by
// the dispatcher and do not stop the stream.
func pipeLines(r io.Reader, d lineLogger, origin string, lvl log.Level) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		//nolint:errcheck // Reported to the fallback logger by Dispatch.
		d.Log(origin, lvl, sc.Text())
	}

	err := sc.Err()
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	return nil
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the host plugin config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := json.MarshalIndent(log.PluginConfigSchema(), "", "  ")
			if err != nil {
				return fmt.Errorf("marshal schema: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))

			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Get())
			return err
		},
	}
}

// install activates a dispatcher from cfg and makes it the process-wide one.
func install(cfg *log.Config, events log.Emitter) (*log.Dispatcher, error) {
	b, err := cfg.NewBuilder()
	if err != nil {
		return nil, err
	}

	return log.ActivateAndInstall(b.Build(), cfg.NewHost(events))
}

// jsonEmitter prints UI events as JSON lines, standing in for a webview.
type jsonEmitter struct {
	w io.Writer
}

func (e jsonEmitter) Emit(event string, payload any) error {
	b, err := json.Marshal(struct {
		Payload any    `json:"payload"`
		Event   string `json:"event"`
	}{Event: event, Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	_, err = fmt.Fprintln(e.w, string(b))

	return err
}

// consoleOnly reports whether every target is a process stream.
func consoleOnly(targets []string) bool {
	for _, s := range targets {
		t, err := log.ParseTarget(s)
		if err != nil {
			return false
		}

		if t.Kind() != log.TargetStdout && t.Kind() != log.TargetStderr {
			return false
		}
	}

	return len(targets) > 0
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}
