package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPath names the config file used when Load gets an empty path.
const EnvPath = "NOTEPAD_CORE_CONFIG"

// envMapping maps environment variables to the settings they override.
var envMapping = map[string]func(*Config, string) error{
	"NOTEPAD_CORE_LOG_LEVEL":   stringSetting(func(c *Config) *string { return &c.Log.Level }),
	"NOTEPAD_CORE_LOG_FILE":    stringSetting(func(c *Config) *string { return &c.Log.File }),
	"NOTEPAD_CORE_ENCODING":    stringSetting(func(c *Config) *string { return &c.Editor.DefaultEncoding }),
	"NOTEPAD_CORE_LINE_ENDING": stringSetting(func(c *Config) *string { return &c.Editor.DefaultLineEnding }),
	"NOTEPAD_CORE_DELETE_UNIT": stringSetting(func(c *Config) *string { return &c.Editor.DeleteUnit }),
	"NOTEPAD_CORE_MAX_UNDO":    intSetting(func(c *Config) *int { return &c.Editor.MaxUndoEntries }),
}

func stringSetting(field func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}

func intSetting(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

// Load reads the configuration. An empty path falls back to the
// NOTEPAD_CORE_CONFIG environment variable; a path that does not exist
// yields the defaults. Environment overrides are applied last and the
// result is validated.
func Load(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if cfg, err = Parse(path, data); err != nil {
				return Config{}, err
			}
		}
	}

	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes data over the defaults, choosing TOML or YAML by the
// extension of path. Unknown keys are rejected.
func Parse(path string, data []byte) (Config, error) {
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, tomlError(path, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, &ParseError{Path: path, Message: err.Error(), Err: err}
		}
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return cfg, nil
}

// ApplyEnv applies NOTEPAD_CORE_* overrides found through lookup.
// Empty values are treated as set.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	for name, set := range envMapping {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		if err := set(cfg, v); err != nil {
			return fmt.Errorf("environment variable %s: %w", name, err)
		}
	}
	return nil
}

func tomlError(path string, err error) error {
	pe := &ParseError{Path: path, Message: err.Error(), Err: err}
	var de *toml.DecodeError
	if errors.As(err, &de) {
		pe.Line, pe.Column = de.Position()
	}
	return pe
}
