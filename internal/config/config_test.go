package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ishibashi-futos/notepad-macos/internal/charset"
	"github.com/ishibashi-futos/notepad-macos/internal/engine"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	desc, err := Default().Descriptor()
	if err != nil || desc != charset.DefaultDescriptor() {
		t.Errorf("Descriptor() = %v, %v", desc, err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"undo depth", func(c *Config) { c.Editor.MaxUndoEntries = 0 }},
		{"delete unit", func(c *Config) { c.Editor.DeleteUnit = "word" }},
		{"encoding", func(c *Config) { c.Editor.DefaultEncoding = "klingon" }},
		{"line ending", func(c *Config) { c.Editor.DefaultLineEnding = "mixed" }},
		{"poll bytes", func(c *Config) { c.Tasks.PollBytes = -1 }},
		{"search poll", func(c *Config) { c.Tasks.SearchPollRunes = 0 }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"log rotation", func(c *Config) { c.Log.MaxBackups = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrValidationFailed) {
				t.Errorf("Validate() = %v, want ErrValidationFailed", err)
			}
		})
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "core.toml", `
[editor]
max_undo_entries = 50
delete_unit = "rune"
default_encoding = "sjis"
default_line_ending = "crlf"

[log]
level = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Editor.MaxUndoEntries != 50 || cfg.Editor.DeleteUnit != "rune" || cfg.Log.Level != "debug" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Tasks != Default().Tasks {
		t.Errorf("unset section should keep defaults: %+v", cfg.Tasks)
	}
	desc, err := cfg.Descriptor()
	if err != nil {
		t.Fatal(err)
	}
	if desc.Encoding != charset.ShiftJIS || desc.LineEnding != charset.CRLF {
		t.Errorf("Descriptor() = %v", desc)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "core.yaml", `
editor:
  default_encoding: utf-16le
  default_bom: true
tasks:
  poll_bytes: 4096
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tasks.PollBytes != 4096 || !cfg.Editor.DefaultBOM {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Editor.MaxUndoEntries != engine.DefaultMaxUndoEntries {
		t.Errorf("MaxUndoEntries = %d, want default", cfg.Editor.MaxUndoEntries)
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "empty.yml", ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name, file, content string
		check               func(error) bool
	}{
		{"toml syntax", "bad.toml", "[editor\n", func(err error) bool {
			var pe *ParseError
			return errors.As(err, &pe) && pe.Line > 0
		}},
		{"toml unknown key", "bad.toml", "[editor]\ncolour = 1\n", func(err error) bool {
			var pe *ParseError
			return errors.As(err, &pe)
		}},
		{"yaml unknown key", "bad.yaml", "editor:\n  colour: 1\n", func(err error) bool {
			var pe *ParseError
			return errors.As(err, &pe)
		}},
		{"format", "core.json", "{}", func(err error) bool {
			return errors.Is(err, ErrUnsupportedFormat)
		}},
		{"invalid value", "core.toml", "[editor]\ndelete_unit = \"word\"\n", func(err error) bool {
			return errors.Is(err, ErrValidationFailed)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			if err == nil || !tt.check(err) {
				t.Errorf("Load() error = %v", err)
			}
		})
	}
}

func TestLoadFromEnvPath(t *testing.T) {
	path := writeFile(t, "env.toml", "[log]\nlevel = \"warn\"\n")
	t.Setenv(EnvPath, path)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"NOTEPAD_CORE_LOG_LEVEL":   "error",
		"NOTEPAD_CORE_MAX_UNDO":    "25",
		"NOTEPAD_CORE_LINE_ENDING": "cr",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := ApplyEnv(&cfg, lookup); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Log.Level != "error" || cfg.Editor.MaxUndoEntries != 25 || cfg.Editor.DefaultLineEnding != "cr" {
		t.Errorf("cfg = %+v", cfg)
	}

	env["NOTEPAD_CORE_MAX_UNDO"] = "many"
	if err := ApplyEnv(&cfg, lookup); err == nil {
		t.Error("expected an error for a non-numeric undo depth")
	}
}

func TestDocumentOptions(t *testing.T) {
	cfg := Default()
	cfg.Editor.MaxUndoEntries = 2
	cfg.Editor.DefaultEncoding = "euc-jp"

	d, err := engine.New(cfg.DocumentOptions()...)
	if err != nil {
		t.Fatal(err)
	}
	if d.Descriptor().Encoding != charset.EUCJP {
		t.Errorf("Descriptor() = %v", d.Descriptor())
	}
	for i := 0; i < 3; i++ {
		if _, err := d.InsertAtSelection("x", engine.NewAction); err != nil {
			t.Fatal(err)
		}
	}
	if d.UndoCount() != 2 {
		t.Errorf("UndoCount() = %d, want 2", d.UndoCount())
	}
}

func TestLoggerOptions(t *testing.T) {
	cfg := Default()
	cfg.Log.File = "/tmp/core.log"
	opts := cfg.LoggerOptions()
	if opts.File != "/tmp/core.log" || opts.Level != "info" || opts.MaxBackups != 3 {
		t.Errorf("LoggerOptions() = %+v", opts)
	}
}
