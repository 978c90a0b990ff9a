package snapshot

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ParsePreset decodes a TOML preset. Keys absent from data keep their
// DefaultConfig values, enums are written by name and the result is
// normalized.
//
//	effect_mode = "Sepia"
//	blur_mode = "Medium"
//	blur_iterations = 3
//
//	[effect_color]
//	r = 1.0
//	g = 0.9
//	b = 0.8
//	a = 1.0
func ParsePreset(data []byte) (RequestConfig, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return RequestConfig{}, fmt.Errorf("snapshot: parse preset: %w", err)
	}
	return cfg.Normalized(), nil
}

// LoadPreset reads and parses a TOML preset file.
func LoadPreset(path string) (RequestConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RequestConfig{}, fmt.Errorf("snapshot: load preset: %w", err)
	}
	return ParsePreset(data)
}

// MarshalPreset encodes cfg as TOML.
func MarshalPreset(cfg RequestConfig) ([]byte, error) {
	data, err := toml.Marshal(cfg.Normalized())
	if err != nil {
		return nil, fmt.Errorf("snapshot: marshal preset: %w", err)
	}
	return data, nil
}

// SavePreset writes cfg to path as TOML.
func SavePreset(path string, cfg RequestConfig) error {
	data, err := MarshalPreset(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("snapshot: save preset: %w", err)
	}
	return nil
}
