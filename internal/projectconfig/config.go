// Package projectconfig provides the ProjectConfig struct and loader for
// .kcal.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/spboyer/kcal/internal/locale"
)

// FileName is the configuration file looked up from the working directory.
const FileName = ".kcal.yaml"

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultModel          = "gpt-4o"
	DefaultBaseURL        = "https://api.openai.com/v1"
	DefaultLocale         = "zh-TW"
	DefaultAPIKeyEnv      = "OPENAI_API_KEY"
	DefaultRequestTimeout = 0

	// LegacyAPIKeyEnv is still honoured when the configured variable is unset.
	LegacyAPIKeyEnv = "VITE_OPENAI_API_KEY"
)

// ProjectConfig is the configuration loaded from .kcal.yaml.
type ProjectConfig struct {
	Model     string `yaml:"model,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
	Locale    string `yaml:"locale,omitempty"`
	APIKeyEnv string `yaml:"api_key_env,omitempty"`
	// RequestTimeout bounds each estimate, in seconds. Zero means no limit.
	RequestTimeout int `yaml:"request_timeout,omitempty"`

	// Source is the file the values came from, empty when only defaults apply.
	Source string `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Model:          DefaultModel,
		BaseURL:        DefaultBaseURL,
		Locale:         DefaultLocale,
		APIKeyEnv:      DefaultAPIKeyEnv,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// Load finds .kcal.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	path, data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if fileCfg.RequestTimeout < 0 {
		return nil, fmt.Errorf("parsing %s: request_timeout must not be negative", path)
	}

	mergeConfig(cfg, &fileCfg)
	cfg.Source = path
	return cfg, nil
}

// Timeout returns RequestTimeout as a duration.
func (c *ProjectConfig) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// Language returns the supported language closest to Locale.
func (c *ProjectConfig) Language() language.Tag {
	return locale.Match(c.Locale)
}

// Credential loads dir/.env into the environment (existing variables win)
// and returns the API key from APIKeyEnv, falling back to
// VITE_OPENAI_API_KEY. An empty result is not an error.
func (c *ProjectConfig) Credential(dir string) (string, error) {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("loading .env: %w", err)
	}

	name := c.APIKeyEnv
	if name == "" {
		name = DefaultAPIKeyEnv
	}
	if key := os.Getenv(name); key != "" {
		return key, nil
	}
	return os.Getenv(LegacyAPIKeyEnv), nil
}

// Marshal renders the configuration as YAML.
func (c *ProjectConfig) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// findConfigFile walks up from dir looking for .kcal.yaml (max 10 levels).
// Returns os.ErrNotExist if no config file is found.
func findConfigFile(dir string) (string, []byte, error) {
	// filepath.Dir(".") does not walk, so start from an absolute path.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
	if src.Locale != "" {
		dst.Locale = src.Locale
	}
	if src.APIKeyEnv != "" {
		dst.APIKeyEnv = src.APIKeyEnv
	}
	if src.RequestTimeout != 0 {
		dst.RequestTimeout = src.RequestTimeout
	}
}
