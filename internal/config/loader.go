package config

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Load reads settings from a TOML file, applying defaults for absent keys.
// A missing file is not an error: the defaults are returned unchanged.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return Settings{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parse(path, data)
}

// LoadFromReader reads settings from an io.Reader.
func LoadFromReader(r io.Reader) (Settings, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Settings{}, fmt.Errorf("reading config: %w", err)
	}
	return parse("<reader>", data)
}

// parse unmarshals TOML data over the defaults and validates the result.
func parse(source string, data []byte) (Settings, error) {
	settings := DefaultSettings()
	if err := toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, &ParseError{Path: source, Err: err}
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid config %s: %w", source, err)
	}
	return settings, nil
}
