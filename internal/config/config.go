// Package config holds the settings of the command line driver and the
// defaults it applies to documents and task units.
//
// Settings come from, in increasing precedence: built-in defaults, a TOML
// or YAML file, and NOTEPAD_CORE_* environment variables.
package config

import (
	"fmt"

	"github.com/ishibashi-futos/notepad-macos/internal/charset"
	"github.com/ishibashi-futos/notepad-macos/internal/engine"
	"github.com/ishibashi-futos/notepad-macos/internal/logger"
	"github.com/ishibashi-futos/notepad-macos/internal/search"
	"github.com/ishibashi-futos/notepad-macos/internal/task"
)

// Config is the complete configuration.
type Config struct {
	Editor Editor `toml:"editor" yaml:"editor"`
	Tasks  Tasks  `toml:"tasks" yaml:"tasks"`
	Log    Log    `toml:"log" yaml:"log"`
}

// Editor holds document defaults.
type Editor struct {
	MaxUndoEntries    int    `toml:"max_undo_entries" yaml:"max_undo_entries"`
	DeleteUnit        string `toml:"delete_unit" yaml:"delete_unit"`
	DefaultEncoding   string `toml:"default_encoding" yaml:"default_encoding"`
	DefaultLineEnding string `toml:"default_line_ending" yaml:"default_line_ending"`
	DefaultBOM        bool   `toml:"default_bom" yaml:"default_bom"`
}

// Tasks holds the polling windows of background units.
type Tasks struct {
	PollBytes       int `toml:"poll_bytes" yaml:"poll_bytes"`
	SearchPollRunes int `toml:"search_poll_runes" yaml:"search_poll_runes"`
}

// Log configures the logger.
type Log struct {
	Level      string `toml:"level" yaml:"level"`
	File       string `toml:"file" yaml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" yaml:"max_backups"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Editor: Editor{
			MaxUndoEntries:    engine.DefaultMaxUndoEntries,
			DeleteUnit:        engine.DeleteGrapheme.String(),
			DefaultEncoding:   string(charset.UTF8),
			DefaultLineEnding: string(charset.LF),
		},
		Tasks: Tasks{
			PollBytes:       task.DefaultPollBytes,
			SearchPollRunes: search.DefaultPollEvery,
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Validate checks every setting and reports the first invalid one.
func (c Config) Validate() error {
	if c.Editor.MaxUndoEntries <= 0 {
		return invalid("editor.max_undo_entries", c.Editor.MaxUndoEntries, "must be positive")
	}
	if _, ok := engine.ParseDeleteUnit(c.Editor.DeleteUnit); !ok {
		return invalid("editor.delete_unit", c.Editor.DeleteUnit, "must be grapheme or rune")
	}
	if _, err := c.Descriptor(); err != nil {
		return err
	}
	if c.Tasks.PollBytes <= 0 {
		return invalid("tasks.poll_bytes", c.Tasks.PollBytes, "must be positive")
	}
	if c.Tasks.SearchPollRunes <= 0 {
		return invalid("tasks.search_poll_runes", c.Tasks.SearchPollRunes, "must be positive")
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level", c.Log.Level, "must be debug, info, warn or error")
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 {
		return invalid("log", fmt.Sprintf("%d/%d", c.Log.MaxSizeMB, c.Log.MaxBackups), "rotation limits must not be negative")
	}
	return nil
}

// Descriptor returns the encoding given to new documents.
func (c Config) Descriptor() (charset.Descriptor, error) {
	name, err := charset.ParseName(c.Editor.DefaultEncoding)
	if err != nil {
		return charset.Descriptor{}, invalid("editor.default_encoding", c.Editor.DefaultEncoding, err.Error())
	}
	le, err := charset.ParseLineEnding(c.Editor.DefaultLineEnding)
	if err != nil || le == charset.Mixed {
		return charset.Descriptor{}, invalid("editor.default_line_ending", c.Editor.DefaultLineEnding, "must be lf, crlf or cr")
	}
	return charset.Descriptor{Encoding: name, BOM: c.Editor.DefaultBOM, LineEnding: le}, nil
}

// DocumentOptions returns the engine options for a new document.
func (c Config) DocumentOptions() []engine.Option {
	unit, _ := engine.ParseDeleteUnit(c.Editor.DeleteUnit)
	opts := []engine.Option{
		engine.WithMaxUndoEntries(c.Editor.MaxUndoEntries),
		engine.WithDeleteUnit(unit),
	}
	if desc, err := c.Descriptor(); err == nil {
		opts = append(opts, engine.WithDescriptor(desc))
	}
	return opts
}

// LoggerOptions returns the logger settings.
func (c Config) LoggerOptions() logger.Options {
	return logger.Options{
		Level:      c.Log.Level,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
	}
}
