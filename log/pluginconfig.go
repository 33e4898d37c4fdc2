package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
)

// PluginConfig is the logger's section of the host application config.
type PluginConfig struct {
	// MaxFileSize is a human-readable size such as "10KB" or "2MiB". Decimal
	// units are powers of 1000 and binary units powers of 1024.
	MaxFileSize *string `json:"maxFileSize"`
}

// PluginConfigSchema returns the JSON Schema accepted by [ParsePluginConfig].
func PluginConfigSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Title:       "log plugin config",
		Description: "Configuration of the " + PluginName + " plugin.",
		Type:        "object",
		Properties: map[string]*jsonschema.Schema{
			"maxFileSize": {
				Description: "Size above which an existing log file is rotated at startup, e.g. \"10KB\".",
				Types:       []string{"string", "null"},
			},
		},
	}
}

// ParsePluginConfig parses JSON or YAML host configuration. Empty or null input
// yields the zero [PluginConfig].
func ParsePluginConfig(data []byte) (PluginConfig, error) {
	var cfg PluginConfig

	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	raw, err := yaml.YAMLToJSON(data)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	var instance any

	err = json.Unmarshal(raw, &instance)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if instance == nil {
		return cfg, nil
	}

	resolved, err := PluginConfigSchema().Resolve(nil)
	if err != nil {
		return cfg, fmt.Errorf("resolve plugin config schema: %w", err)
	}

	err = resolved.Validate(instance)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	err = json.Unmarshal(raw, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return cfg, nil
}

// MaxFileSizeBytes returns the configured size in bytes, or
// [DefaultMaxFileSize] when unset.
func (c PluginConfig) MaxFileSizeBytes() (int64, error) {
	if c.MaxFileSize == nil {
		return DefaultMaxFileSize, nil
	}

	return ParseSize(*c.MaxFileSize)
}

// Apply sets the builder's max file size from c.
func (c PluginConfig) Apply(b *Builder) error {
	n, err := c.MaxFileSizeBytes()
	if err != nil {
		return err
	}

	b.MaxFileSize(n)

	return nil
}

// ParseSize parses a human-readable byte size such as "10KB", "1.5MiB" or
// "40000".
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidSize)
	}

	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidSize, s, err)
	}

	if n > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidSize, s)
	}

	return int64(n), nil
}
