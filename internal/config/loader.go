package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is the default path to the config file relative to the working directory.
	DefaultConfigPath = ".gantt/config.yaml"

	// EnvPrefix is the prefix for environment variable overrides,
	// e.g. GANTT_DETECT_THRESHOLD=0.5.
	EnvPrefix = "GANTT"
)

// ErrConfigNotFound is wrapped by LoadError when an explicit path does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// Loader handles loading configuration from files and environment.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader. Every known key is
// registered as a default so that environment variables override keys that
// are absent from the file.
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	registerDefaults(v, NewConfig())

	return &Loader{v: v}
}

// registerDefaults walks the mapstructure tags of cfg and sets each leaf as a
// viper default.
func registerDefaults(v *viper.Viper, cfg *Config) {
	var walk func(prefix string, rv reflect.Value)
	walk = func(prefix string, rv reflect.Value) {
		rt := rv.Type()
		for i := 0; i < rt.NumField(); i++ {
			key := rt.Field(i).Tag.Get("mapstructure")
			if key == "" {
				continue
			}
			if prefix != "" {
				key = prefix + "." + key
			}
			fv := rv.Field(i)
			if fv.Kind() == reflect.Struct {
				walk(key, fv)
				continue
			}
			v.SetDefault(key, fv.Interface())
		}
	}
	walk("", reflect.ValueOf(cfg).Elem())
}

// LoadConfig loads configuration from path, merges environment variables,
// applies defaults and validates the result. With an empty path the default
// file is used when present and built-in defaults otherwise; an explicit path
// that does not exist is an error.
func (l *Loader) LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) || explicit {
			return nil, &LoadError{
				Path:    path,
				Message: "config file not found",
				Err:     errors.Join(ErrConfigNotFound, err),
			}
		}
	} else {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, &LoadError{
				Path:    path,
				Message: "failed to read config file",
				Err:     err,
			}
		}
	}

	cfg := NewConfig()
	if err := l.v.Unmarshal(cfg, viperDecodeHook); err != nil {
		return nil, &LoadError{
			Path:    path,
			Message: "failed to parse config file",
			Err:     err,
		}
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{
			Path:    path,
			Message: "configuration validation failed",
			Err:     err,
		}
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .gantt/config.yaml in dir.
func (l *Loader) LoadConfigFromDir(dir string) (*Config, error) {
	return l.LoadConfig(filepath.Join(dir, DefaultConfigPath))
}

// viperDecodeHook composes the standard mapstructure hooks with ours.
func viperDecodeHook(dc *mapstructure.DecoderConfig) {
	dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		stringToCustomTypeHookFunc(),
	)
}

// stringToCustomTypeHookFunc normalizes our custom string types.
func stringToCustomTypeHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}

		switch to {
		case reflect.TypeOf(OutputFormat("")):
			return OutputFormat(strings.ToLower(strings.TrimSpace(data.(string)))), nil
		}

		return data, nil
	}
}

// LoadError represents an error that occurred while loading configuration.
type LoadError struct {
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load is a convenience function that creates a new Loader and loads configuration.
func Load(path string) (*Config, error) {
	return NewLoader().LoadConfig(path)
}

// LoadFromDir is a convenience function that loads configuration from a directory.
func LoadFromDir(dir string) (*Config, error) {
	return NewLoader().LoadConfigFromDir(dir)
}

// Write saves cfg as YAML at path, creating parent directories. An existing
// file is only replaced when overwrite is set.
func Write(cfg *Config, path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
