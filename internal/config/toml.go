// Package config loads the optional TOML settings file and resolves it,
// together with environment overrides, into concrete settings.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Nil fields are unset.
type FileConfig struct {
	Progression ProgressionConfig  `toml:"progression"`
	Assistant   AssistantConfig    `toml:"assistant"`
	LLM         LLMConfig          `toml:"llm"`
	Log         LogConfig          `toml:"log"`
	Speech      SpeechConfig       `toml:"speech"`
	Medication  []MedicationConfig `toml:"medication"`
}

// ProgressionConfig maps score settings.
type ProgressionConfig struct {
	DefaultScore *int `toml:"default_score"`
}

// AssistantConfig maps chat assistant settings.
type AssistantConfig struct {
	UserName *string `toml:"user_name"`
	Persona  *string `toml:"persona"`
	Fallback *string `toml:"fallback"`
}

// LLMConfig maps generative provider settings.
type LLMConfig struct {
	Provider *string `toml:"provider"`
	Model    *string `toml:"model"`
	APIKey   *string `toml:"api_key"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// SpeechConfig maps the read-aloud task settings.
type SpeechConfig struct {
	Script     *string `toml:"script"`
	MaxSeconds *int    `toml:"max_seconds"`
}

// MedicationConfig is one entry of the medication list.
type MedicationConfig struct {
	Name   string `toml:"name"`
	Dosage string `toml:"dosage"`
	Period string `toml:"period"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return FileConfig{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}
