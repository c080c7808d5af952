// Copyright (c) TokenFlow Authors.
// Licensed under the MIT License.

package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/BaSui01/tokenflow/types"
)

// Config is the full TokenFlow configuration.
type Config struct {
	// Train holds the training parameters.
	Train TrainConfig `yaml:"train" env:"TRAIN"`

	// Log holds the logging parameters.
	Log LogConfig `yaml:"log" env:"LOG"`
}

// TrainConfig configures a training run.
type TrainConfig struct {
	// Variant selects the tokenizer: basic or regex.
	Variant string `yaml:"variant" env:"VARIANT"`
	// VocabSize is the target vocabulary size, strictly greater than 256.
	VocabSize int `yaml:"vocab_size" env:"VOCAB_SIZE"`
	// Pattern is the chunk split pattern for the regex variant. Empty
	// selects the GPT-4 pattern.
	Pattern string `yaml:"pattern" env:"PATTERN"`
	// Verbose enables per-merge progress logging.
	Verbose bool `yaml:"verbose" env:"VERBOSE"`
	// ModelDir is the directory model files are written to.
	ModelDir string `yaml:"model_dir" env:"MODEL_DIR"`
	// ModelName is the file prefix for .model and .vocab outputs.
	ModelName string `yaml:"model_name" env:"MODEL_NAME"`
	// Specials are special tokens registered before training (regex only).
	Specials []SpecialConfig `yaml:"specials"`
}

// SpecialConfig declares one special token.
type SpecialConfig struct {
	Label string `yaml:"label"`
	ID    int    `yaml:"id"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" env:"LEVEL"`
	// Format is json or console.
	Format string `yaml:"format" env:"FORMAT"`
	// OutputPaths are zap output paths.
	OutputPaths []string `yaml:"output_paths" env:"OUTPUT_PATHS"`
	// EnableCaller adds caller annotations.
	EnableCaller bool `yaml:"enable_caller" env:"ENABLE_CALLER"`
}

// Loader merges configuration sources with the priority
// defaults → YAML file → environment variables.
type Loader struct {
	configPath string
	envPrefix  string
	validators []func(*Config) error
}

// NewLoader creates a loader with the TOKENFLOW env prefix.
func NewLoader() *Loader {
	return &Loader{
		envPrefix:  "TOKENFLOW",
		validators: make([]func(*Config) error, 0),
	}
}

// WithConfigPath sets the YAML file path. A missing file is not an error;
// defaults and environment apply.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix sets the environment variable prefix.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// WithValidator adds a validation hook run after merging.
func (l *Loader) WithValidator(v func(*Config) error) *Loader {
	l.validators = append(l.validators, v)
	return l
}

// Load merges all sources and validates the result.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if l.configPath != "" {
		if err := l.loadFromFile(cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := l.loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	for _, v := range l.validators {
		if err := v(cfg); err != nil {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
	}

	return cfg, nil
}

func (l *Loader) loadFromFile(cfg *Config) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

func (l *Loader) loadFromEnv(cfg *Config) error {
	return l.setFieldsFromEnv(reflect.ValueOf(cfg).Elem(), l.envPrefix)
}

// setFieldsFromEnv walks struct fields recursively, overriding any field
// whose env-tagged variable is set.
func (l *Loader) setFieldsFromEnv(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		envTag := fieldType.Tag.Get("env")
		if envTag == "" || envTag == "-" {
			continue
		}

		envKey := prefix + "_" + envTag

		if field.Kind() == reflect.Struct {
			if err := l.setFieldsFromEnv(field, envKey); err != nil {
				return err
			}
			continue
		}

		envValue := os.Getenv(envKey)
		if envValue == "" {
			continue
		}

		if err := setFieldValue(field, envValue); err != nil {
			return fmt.Errorf("failed to set %s: %w", envKey, err)
		}
	}

	return nil
}

func setFieldValue(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(i)

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)

	case reflect.Slice:
		// Comma-separated string slices only.
		if field.Type().Elem().Kind() == reflect.String {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			field.Set(reflect.ValueOf(parts))
		}
	}

	return nil
}

// MustLoad loads configuration from path, panicking on failure.
func MustLoad(path string) *Config {
	cfg, err := NewLoader().WithConfigPath(path).Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// Validate checks the merged configuration for consistency.
func (c *Config) Validate() error {
	switch c.Train.Variant {
	case "basic", "regex":
	default:
		return fmt.Errorf("unknown tokenizer variant %q", c.Train.Variant)
	}

	if c.Train.VocabSize <= 256 {
		return types.Errorf(types.ErrInvalidVocabSize,
			"vocab_size %d must exceed 256", c.Train.VocabSize)
	}

	if c.Train.Variant == "basic" && len(c.Train.Specials) > 0 {
		return fmt.Errorf("the basic variant does not support special tokens")
	}
	seenLabels := make(map[string]bool, len(c.Train.Specials))
	seenIDs := make(map[int]bool, len(c.Train.Specials))
	for _, s := range c.Train.Specials {
		if s.Label == "" {
			return fmt.Errorf("special token with empty label")
		}
		if s.ID < 0 {
			return fmt.Errorf("special token %q has negative id %d", s.Label, s.ID)
		}
		if seenLabels[s.Label] || seenIDs[s.ID] {
			return types.Errorf(types.ErrSpecialTokenCollision,
				"special token %q id %d repeats an earlier entry", s.Label, s.ID)
		}
		seenLabels[s.Label] = true
		seenIDs[s.ID] = true
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}

	return nil
}
