// Package config loads model-mapper settings from an optional YAML file and
// MODEL_MAPPER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"model-mapper/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. MODEL_MAPPER_LOG_LEVEL.
const EnvPrefix = "MODEL_MAPPER"

// Config is the application configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Transform TransformConfig `mapstructure:"transform"`
	Storage   StorageConfig   `mapstructure:"storage"`
}

// LogConfig configures the slog logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// TransformConfig tunes transform runs.
type TransformConfig struct {
	// Suggestions is the number of "did you mean" contexts attached to
	// unmapped_entity warnings. Zero disables them.
	Suggestions int `mapstructure:"suggestions"`

	// RelationshipContexts resolves relationships the mapping document does
	// not. Keys are relationship names and keep their case.
	RelationshipContexts map[string]string `mapstructure:"relationship_contexts"`
}

// StorageConfig selects where exported runs are saved. An empty driver
// disables storage.
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// Enabled reports whether a storage driver is configured.
func (s StorageConfig) Enabled() bool {
	return s.Driver != ""
}

// LoggingConfig converts the log section for logging.New.
func (c *Config) LoggingConfig() logging.Config {
	return logging.Config{Level: c.Log.Level, Format: c.Log.Format, Output: c.Log.Output}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("transform.suggestions", 3)
	v.SetDefault("transform.relationship_contexts", map[string]string{})
	v.SetDefault("storage.driver", "")
	v.SetDefault("storage.dsn", "")
}

// Load reads configPath, or model-mapper.yaml from the working directory
// when configPath is empty. A missing default file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("model-mapper")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	fileRead := true

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		fileRead = false
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if fileRead {
		contexts, err := relationshipContexts(v.ConfigFileUsed())
		if err != nil {
			return nil, fmt.Errorf("failed to read transform.relationship_contexts: %w", err)
		}

		if contexts != nil {
			cfg.Transform.RelationshipContexts = contexts
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// relationshipContexts re-reads transform.relationship_contexts from a YAML
// or JSON config file. Viper folds map keys to lower case, which would break
// case-sensitive relationship names. It returns nil when the section is
// absent or the file has another format.
func relationshipContexts(path string) (map[string]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
	default:
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Transform struct {
			RelationshipContexts map[string]string `yaml:"relationship_contexts"`
		} `yaml:"transform"`
	}

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	return raw.Transform.RelationshipContexts, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("invalid log format: %s, must be 'json' or 'text'", c.Log.Format)
	}

	if c.Log.Output != "stdout" && c.Log.Output != "stderr" {
		return fmt.Errorf("invalid log output: %s, must be 'stdout' or 'stderr'", c.Log.Output)
	}

	if c.Transform.Suggestions < 0 {
		return fmt.Errorf("transform.suggestions must not be negative: %d", c.Transform.Suggestions)
	}

	switch c.Storage.Driver {
	case "":
	case "sqlite", "postgres", "mssql":
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for driver %s", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("invalid storage driver: %s, must be sqlite, postgres or mssql", c.Storage.Driver)
	}

	return nil
}
