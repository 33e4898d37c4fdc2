package log

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for log configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	AppName     string
	Level       string
	Format      string
	Rotation    string
	MaxFileSize string
	Targets     string
	Dir         string
	PluginFile  string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
	}
}

// Config holds CLI flag values for log configuration.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewBuilder] to turn the values into a
// [Builder].
type Config struct {
	Flags       Flags
	AppName     string
	Level       string
	Format      string
	Rotation    string
	MaxFileSize string
	Dir         string
	PluginFile  string
	Targets     []string
}

// NewConfig returns a new [Config] with default flag names and zero-value
// fields. Use [Config.RegisterFlags] to add CLI flags, or set values directly.
func NewConfig() *Config {
	f := Flags{
		AppName:     "app-name",
		Level:       "log-level",
		Format:      "log-format",
		Rotation:    "log-rotation",
		MaxFileSize: "log-max-file-size",
		Targets:     "log-target",
		Dir:         "log-dir",
		PluginFile:  "log-config",
	}

	return f.NewConfig()
}

// RegisterFlags adds logging flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.AppName, c.Flags.AppName, "applog",
		"application name, used for the log file name")
	flags.StringVar(&c.Level, c.Flags.Level, "trace",
		fmt.Sprintf("minimum log level, one of: %s", strings.Join(GetAllLevelStrings(), ", ")))
	flags.StringVar(&c.Format, c.Flags.Format, "text",
		fmt.Sprintf("log line format, one of: %s", strings.Join(GetAllFormatStrings(), ", ")))
	flags.StringVar(&c.Rotation, c.Flags.Rotation, KeepOne.String(),
		fmt.Sprintf("rotation strategy, one of: %s", strings.Join(GetAllRotationStrings(), ", ")))
	flags.StringVar(&c.MaxFileSize, c.Flags.MaxFileSize, "",
		"rotate an existing log file larger than this size, e.g. 10KB (default 40000 bytes)")
	flags.StringSliceVar(&c.Targets, c.Flags.Targets, []string{"stdout"},
		"log targets: stdout, stderr, logdir, webview, folder=PATH (repeatable)")
	flags.StringVar(&c.Dir, c.Flags.Dir, "",
		"override the OS log directory used by the logdir target")
	flags.StringVar(&c.PluginFile, c.Flags.PluginFile, "",
		"host plugin config file (JSON or YAML)")
}

// RegisterCompletions registers shell completions for log flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	fixed := map[string][]string{
		c.Flags.Level:    GetAllLevelStrings(),
		c.Flags.Format:   GetAllFormatStrings(),
		c.Flags.Rotation: GetAllRotationStrings(),
		c.Flags.Targets:  GetAllTargetStrings(),
	}

	for _, flag := range []string{c.Flags.Level, c.Flags.Format, c.Flags.Rotation, c.Flags.Targets} {
		err := cmd.RegisterFlagCompletionFunc(flag,
			cobra.FixedCompletions(fixed[flag], cobra.ShellCompDirectiveNoFileComp))
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, flag := range []string{c.Flags.AppName, c.Flags.MaxFileSize} {
		err := cmd.RegisterFlagCompletionFunc(flag, noFileComp)
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	err := cmd.RegisterFlagCompletionFunc(c.Flags.Dir,
		func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveFilterDirs
		})
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Dir, err)
	}

	return nil
}

// NewBuilder creates a [Builder] from the flag values. Sizes from
// [Config.MaxFileSize] take precedence over the plugin config file. The
// [FormatColor] format is rejected when any target is a log file.
func (c *Config) NewBuilder() (*Builder, error) {
	lvl, err := ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	format, err := ParseFormat(c.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	rotation, err := ParseRotation(c.Rotation)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	targets := make([]Target, 0, len(c.Targets))

	for _, s := range c.Targets {
		t, err := ParseTarget(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}

		if format == FormatColor && (t.Kind() == TargetFolder || t.Kind() == TargetLogDir) {
			return nil, fmt.Errorf("%w: %s format cannot be used with file target %s",
				ErrInvalidArgument, format, t)
		}

		targets = append(targets, t)
	}

	b := NewBuilder(targets...).
		Level(lvl).
		Formatter(format.Formatter()).
		RotationStrategy(rotation)

	if c.PluginFile != "" {
		data, err := os.ReadFile(c.PluginFile)
		if err != nil {
			return nil, fmt.Errorf("read plugin config: %w", err)
		}

		pc, err := ParsePluginConfig(data)
		if err != nil {
			return nil, err
		}

		err = pc.Apply(b)
		if err != nil {
			return nil, err
		}
	}

	if c.MaxFileSize != "" {
		n, err := ParseSize(c.MaxFileSize)
		if err != nil {
			return nil, err
		}

		b.MaxFileSize(n)
	}

	return b, nil
}

// NewHost returns an [OSHost] for the configured application name and log
// directory override, emitting UI events to events.
func (c *Config) NewHost(events Emitter) *OSHost {
	return &OSHost{
		Name:   c.AppName,
		Dir:    c.Dir,
		Events: events,
	}
}
