package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format names a configuration encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFor picks the format from the file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", &Error{Path: path, Err: ErrUnsupportedFormat}
	}
}

// Load reads path, applies defaults and validates the result.
func Load(path string) (*Config, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Err: fmt.Errorf("read: %w", err)}
	}
	cfg, err := Parse(data, format)
	if err != nil {
		if cerr, ok := err.(*Error); ok {
			cerr.Path = path
			return nil, cerr
		}
		return nil, &Error{Path: path, Err: err}
	}
	return cfg, nil
}

// Parse decodes data in format, applies defaults and validates the result.
func Parse(data []byte, format Format) (*Config, error) {
	cfg := Default()
	if err := decode(data, format, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decode(data []byte, format Format, out *Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, out)
	case FormatTOML:
		err = toml.Unmarshal(data, out)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(out)
	default:
		return &Error{Err: ErrUnsupportedFormat}
	}
	if err != nil {
		return &Error{Err: fmt.Errorf("parse %s: %w", format, err)}
	}
	return nil
}
