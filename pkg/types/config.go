// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

const (
	// DefaultPath is the file reduced when no path is given.
	DefaultPath = "place_ids.json"

	// DefaultIndent is the number of spaces per nesting level in output.
	DefaultIndent = 2

	// MaxIndent bounds the configurable indent width.
	MaxIndent = 8

	// DefaultJournalDir holds the run journal database.
	DefaultJournalDir = ".idextract"
)

// ExtractConfig holds settings for the extract stage.
type ExtractConfig struct {
	// Field is the member projected out of each record (default "id").
	Field string `json:"field" yaml:"field"`

	// Indent is the number of spaces per nesting level in the output
	// (default 2). Zero writes compact output.
	Indent int `json:"indent" yaml:"indent"`
}

// Validate reports whether the extract settings are usable.
func (c ExtractConfig) Validate() error {
	if c.Field == "" {
		return fmt.Errorf("extract field must not be empty")
	}
	if c.Indent < 0 || c.Indent > MaxIndent {
		return fmt.Errorf("extract indent %d out of range 0-%d", c.Indent, MaxIndent)
	}
	return nil
}

// JournalConfig holds settings for the run journal.
type JournalConfig struct {
	// Dir is the directory containing journal.db (default ".idextract").
	Dir string `json:"dir" yaml:"dir"`

	// Disabled skips recording runs entirely.
	Disabled bool `json:"disabled" yaml:"disabled"`
}

// LogConfig holds settings for diagnostic logging.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn, error (default "warn").
	Level string `json:"level" yaml:"level"`

	// Format selects the encoder: console or json (default "console").
	Format string `json:"format" yaml:"format"`
}

// Config groups all settings read from idextract.yaml and the environment.
type Config struct {
	Extract ExtractConfig `json:"extract" yaml:"extract"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Extract: ExtractConfig{
			Field:  DefaultIDField,
			Indent: DefaultIndent,
		},
		Journal: JournalConfig{
			Dir: DefaultJournalDir,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}
