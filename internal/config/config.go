// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/resumind/internal/extraction"
	"github.com/jonathan/resumind/internal/fetch"
	"github.com/jonathan/resumind/internal/types"
)

// Environment keys read by ApplyEnv.
const (
	EnvEmail         = "LINKEDIN_EMAIL"
	EnvPassword      = "LINKEDIN_PASSWORD"
	EnvHeadless      = "HEADLESS"
	EnvChromeBinary  = "CHROME_BINARY"
	EnvOutputJSON    = "OUTPUT_JSON_PATH"
	EnvLogLevel      = "RESUMIND_LOG_LEVEL"
	EnvPort          = "RESUMIND_PORT"
	EnvSelectorsFile = "RESUMIND_SELECTORS_FILE"
)

var validate = validator.New()

// Config is the resumind configuration. It can be loaded from a JSON, YAML or
// TOML file and overlaid with environment variables and CLI flags. All fields
// are optional.
type Config struct {
	// Import
	ProfileURL    string `json:"profile_url,omitempty" yaml:"profile_url,omitempty" toml:"profile_url,omitempty" validate:"omitempty,url"`
	Authenticated bool   `json:"authenticated,omitempty" yaml:"authenticated,omitempty" toml:"authenticated,omitempty"`
	Email         string `json:"email,omitempty" yaml:"email,omitempty" toml:"email,omitempty" validate:"omitempty,email"`
	Password      string `json:"password,omitempty" yaml:"password,omitempty" toml:"password,omitempty"`
	SelectorsFile string `json:"selectors_file,omitempty" yaml:"selectors_file,omitempty" toml:"selectors_file,omitempty"`

	// Browser. Headless is a pointer so an unset value can default to true.
	Headless     *bool  `json:"headless,omitempty" yaml:"headless,omitempty" toml:"headless,omitempty"`
	ChromeBinary string `json:"chrome_binary,omitempty" yaml:"chrome_binary,omitempty" toml:"chrome_binary,omitempty"`

	// Output
	Template       string `json:"template,omitempty" yaml:"template,omitempty" toml:"template,omitempty"`
	Format         string `json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty" validate:"omitempty,oneof=docx pdf chrome-pdf markdown html text json latex"`
	OutputDir      string `json:"output_dir,omitempty" yaml:"output_dir,omitempty" toml:"output_dir,omitempty"`
	OutputJSONPath string `json:"output_json_path,omitempty" yaml:"output_json_path,omitempty" toml:"output_json_path,omitempty"`

	// Behavior
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty" toml:"log_level,omitempty" validate:"omitempty,oneof=trace debug info warn error disabled"`
	Port     int    `json:"port,omitempty" yaml:"port,omitempty" toml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	Verbose  bool   `json:"verbose,omitempty" yaml:"verbose,omitempty" toml:"verbose,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Format:    "docx",
		OutputDir: ".",
		LogLevel:  "info",
		Port:      8080,
	}
}

// LoadConfig loads configuration from a file. The decoder is chosen by
// extension: .json, .yaml/.yml or .toml.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q", ext)
	}

	return &cfg, nil
}

// ApplyEnv overlays set environment variables onto the configuration.
// lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str(EnvEmail, &c.Email)
	str(EnvPassword, &c.Password)
	str(EnvChromeBinary, &c.ChromeBinary)
	str(EnvOutputJSON, &c.OutputJSONPath)
	str(EnvLogLevel, &c.LogLevel)
	str(EnvSelectorsFile, &c.SelectorsFile)

	if v, ok := lookup(EnvHeadless); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config error: %s must be a boolean: %w", EnvHeadless, err)
		}
		c.Headless = &b
	}
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: %s must be an integer: %w", EnvPort, err)
		}
		c.Port = port
	}
	return nil
}

// Validate checks that the configuration has valid values.
// Credentials are not required here; a signed-in import without them fails
// with fetch.ErrMissingCredentials.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.SelectorsFile != "" {
		if _, err := os.Stat(c.SelectorsFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: selectors file not found: %s", c.SelectorsFile)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	orDefault := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	orDefault(&result.ProfileURL, defaults.ProfileURL)
	orDefault(&result.Email, defaults.Email)
	orDefault(&result.Password, defaults.Password)
	orDefault(&result.SelectorsFile, defaults.SelectorsFile)
	orDefault(&result.ChromeBinary, defaults.ChromeBinary)
	orDefault(&result.Template, defaults.Template)
	orDefault(&result.Format, defaults.Format)
	orDefault(&result.OutputDir, defaults.OutputDir)
	orDefault(&result.OutputJSONPath, defaults.OutputJSONPath)
	orDefault(&result.LogLevel, defaults.LogLevel)

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Headless == nil {
		result.Headless = defaults.Headless
	}

	// Plain bools cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// IsHeadless reports whether the browser runs without a window. Unset means true.
func (c *Config) IsHeadless() bool {
	return c.Headless == nil || *c.Headless
}

// Credentials returns the login used by a signed-in import.
func (c *Config) Credentials() types.Credentials {
	return types.Credentials{Email: c.Email, Password: c.Password}
}

// BrowserOptions applies the browser settings to fetch.DefaultBrowserOptions.
func (c *Config) BrowserOptions() *fetch.BrowserOptions {
	o := fetch.DefaultBrowserOptions()
	o.Headless = c.IsHeadless()
	if c.ChromeBinary != "" {
		o.ChromeBinary = c.ChromeBinary
	}
	return o
}

// SessionOptions applies the browser settings to fetch.DefaultSessionOptions.
func (c *Config) SessionOptions() *fetch.SessionOptions {
	o := fetch.DefaultSessionOptions()
	o.Browser.Headless = c.IsHeadless()
	if c.ChromeBinary != "" {
		o.Browser.ChromeBinary = c.ChromeBinary
	}
	return o
}

// Selectors loads the configured selector table, or returns the built-in one.
func (c *Config) Selectors() (*extraction.Selectors, error) {
	if c.SelectorsFile == "" {
		return extraction.DefaultSelectors(), nil
	}
	return extraction.LoadSelectors(c.SelectorsFile)
}
