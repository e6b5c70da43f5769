package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DatasetsDir  string `mapstructure:"datasets_dir" yaml:"datasets_dir,omitempty"`
	DatabasePath string `mapstructure:"database_path" yaml:"database_path,omitempty"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format,omitempty"`
	TopDays      int    `mapstructure:"top_days" yaml:"top_days,omitempty"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level,omitempty"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format,omitempty"`
}

// Output formats accepted by report and resolve.
const (
	FormatMarkdown = "markdown"
	FormatTable    = "table"
	FormatJSON     = "json"
)

// ValidFormat reports whether f is a known output format.
func ValidFormat(f string) bool {
	switch f {
	case FormatMarkdown, FormatTable, FormatJSON:
		return true
	}
	return false
}

// baseDir returns ~/.bookstats.
func baseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".bookstats"), nil
}

// Path returns cfgFile, or ~/.bookstats/config.yaml when it is empty.
func Path(cfgFile string) (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	dir, err := baseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Raw returns only the values written in the config file, without defaults,
// env overrides or derived paths. A missing file yields an empty Global.
func Raw(cfgFile string) (*Global, error) {
	path, err := Path(cfgFile)
	if err != nil {
		return nil, err
	}
	var c Global
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &c, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &c, nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.bookstats/config.yaml, creating the directory if necessary.
// Zero-valued fields are omitted so that defaults keep applying to them.
func Save(c *Global, cfgFile string) error {
	path, err := Path(cfgFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("BOOKSTATS")
	v.AutomaticEnv()

	v.SetDefault("datasets_dir", "")
	v.SetDefault("database_path", "books.db")
	v.SetDefault("output_format", FormatMarkdown)
	v.SetDefault("top_days", 5)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := baseDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read; only a config file that exists but cannot be parsed is fatal
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if !ValidFormat(c.OutputFormat) {
		return nil, fmt.Errorf("invalid output_format %q (use markdown, table or json)", c.OutputFormat)
	}
	if c.DatasetsDir == "" {
		dir, err := baseDir()
		if err != nil {
			return nil, err
		}
		c.DatasetsDir = filepath.Join(dir, "datasets")
	}
	return &c, nil
}
