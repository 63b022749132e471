package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "json",
			file: "config.json",
			content: `{
				"profile_url": "https://www.linkedin.com/in/ada",
				"template": "side_panel",
				"headless": false,
				"port": 9000,
				"verbose": true
			}`,
		},
		{
			name: "yaml",
			file: "config.yaml",
			content: `profile_url: https://www.linkedin.com/in/ada
template: side_panel
headless: false
port: 9000
verbose: true
`,
		},
		{
			name: "toml",
			file: "config.toml",
			content: `profile_url = "https://www.linkedin.com/in/ada"
template = "side_panel"
headless = false
port = 9000
verbose = true
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, tt.file, tt.content))
			require.NoError(t, err)
			require.NotNil(t, cfg)

			assert.Equal(t, "https://www.linkedin.com/in/ada", cfg.ProfileURL)
			assert.Equal(t, "side_panel", cfg.Template)
			require.NotNil(t, cfg.Headless)
			assert.False(t, cfg.IsHeadless())
			assert.Equal(t, 9000, cfg.Port)
			assert.True(t, cfg.Verbose)
		})
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "config.json", `{ invalid json }`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_UnsupportedExtension(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "config.ini", "port=1"))
	assert.ErrorContains(t, err, "unsupported config file extension")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvEmail:        "ada@example.com",
		EnvPassword:     "secret",
		EnvHeadless:     "false",
		EnvChromeBinary: "/opt/chrome",
		EnvOutputJSON:   "out/profile.json",
		EnvLogLevel:     "debug",
		EnvPort:         "9090",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Config{Email: "file@example.com", LogLevel: "info"}
	require.NoError(t, cfg.ApplyEnv(lookup))

	assert.Equal(t, "ada@example.com", cfg.Email)
	assert.Equal(t, "secret", cfg.Password)
	assert.False(t, cfg.IsHeadless())
	assert.Equal(t, "/opt/chrome", cfg.ChromeBinary)
	assert.Equal(t, "out/profile.json", cfg.OutputJSONPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "ada@example.com", cfg.Credentials().Email)
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{EnvHeadless, "maybe"},
		{EnvPort, "eighty"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			var cfg Config
			err := cfg.ApplyEnv(func(k string) (string, bool) {
				if k == tt.key {
					return tt.value, true
				}
				return "", false
			})
			assert.ErrorContains(t, err, tt.key)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{ProfileURL: "https://www.linkedin.com/in/ada", Email: "ada@example.com", Format: "pdf", Port: 8080}, false},
		{"empty", Config{}, false},
		{"bad email", Config{Email: "not-an-email"}, true},
		{"bad url", Config{ProfileURL: "linkedin"}, true},
		{"bad format", Config{Format: "odt"}, true},
		{"bad port", Config{Port: 70000}, true},
		{"bad log level", Config{LogLevel: "loud"}, true},
		{"missing selectors file", Config{SelectorsFile: "/nonexistent/selectors.yaml"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "config error")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{
		Template: "executive",
		Port:     9000,
	}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, "executive", merged.Template)
	assert.Equal(t, 9000, merged.Port)
	assert.Equal(t, "docx", merged.Format)
	assert.Equal(t, ".", merged.OutputDir)
	assert.Equal(t, "info", merged.LogLevel)
	assert.True(t, merged.IsHeadless())
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := &Config{Format: "markdown"}
	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "markdown", merged.Format)
	assert.Empty(t, merged.OutputDir)
	assert.Zero(t, merged.Port)
}

func TestBrowserOptions(t *testing.T) {
	headless := false
	cfg := Config{Headless: &headless, ChromeBinary: "/opt/chrome"}

	b := cfg.BrowserOptions()
	assert.False(t, b.Headless)
	assert.Equal(t, "/opt/chrome", b.ChromeBinary)

	s := cfg.SessionOptions()
	assert.False(t, s.Browser.Headless)
	assert.Equal(t, "/opt/chrome", s.Browser.ChromeBinary)
}

func TestSelectors(t *testing.T) {
	var cfg Config
	s, err := cfg.Selectors()
	require.NoError(t, err)
	assert.NotEmpty(t, s.Name)

	cfg.SelectorsFile = writeConfig(t, "selectors.yaml", "name:\n  - h1.custom-name\n")
	s, err = cfg.Selectors()
	require.NoError(t, err)
	assert.Equal(t, []string{"h1.custom-name"}, s.Name)
	assert.NotEmpty(t, s.Headline)
}
