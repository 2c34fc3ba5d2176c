package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/leofalp/quickchat/providers/ai"
	"github.com/leofalp/quickchat/providers/registry"
)

const appName = "quickchat"

// Backend names a key/value persistence backend.
type Backend string

const (
	BackendMemory Backend = "inmemory"
	BackendBolt   Backend = "bolt"
	BackendSQLite Backend = "sqlite"
)

var backends = []Backend{BackendMemory, BackendBolt, BackendSQLite}

// Environment variables read by [Config.ApplyEnvOverrides].
const (
	EnvDataDir  = "QUICKCHAT_DATA_DIR"
	EnvBackend  = "QUICKCHAT_BACKEND"
	EnvLogLevel = "QUICKCHAT_LOG_LEVEL"
)

// baseURLEnv maps each provider to the variable its client already honours.
var baseURLEnv = map[ai.ProviderID]string{
	ai.ProviderGemini:    "GEMINI_API_BASE_URL",
	ai.ProviderGrok:      "GROK_API_BASE_URL",
	ai.ProviderAnthropic: "ANTHROPIC_API_BASE_URL",
	ai.ProviderOpenAI:    "OPENAI_API_BASE_URL",
}

// Config is the CLI configuration, decoded from TOML.
type Config struct {
	DataDir   string                    `toml:"data_dir"`
	Backend   Backend                   `toml:"backend"`
	LogLevel  string                    `toml:"log_level"`
	Providers map[string]ProviderConfig `toml:"providers"`
}

// ProviderConfig overrides a provider client's endpoint.
type ProviderConfig struct {
	BaseURL string `toml:"base_url"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DataDir:   defaultDataDir(),
		Backend:   BackendBolt,
		Providers: map[string]ProviderConfig{},
	}
}

func defaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, ".local", "share", appName)
}

// DefaultPath returns $XDG_CONFIG_HOME/quickchat/config.toml, or the
// platform's user config directory when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			return "", fmt.Errorf("locating config directory: %w", err)
		}
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// Load reads the configuration. Variables from a .env file in the working
// directory are loaded first without overriding the environment. An empty
// path means [DefaultPath], which may be missing; an explicit path must
// exist. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	cfg := Default()
	if err := cfg.decodeFile(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			err = nil
		} else {
			return nil, err
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDotEnv loads files into the environment. Missing files are skipped and
// variables already set are kept.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

func (c *Config) decodeFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if c.Providers == nil {
		c.Providers = map[string]ProviderConfig{}
	}
	return nil
}

// ApplyEnvOverrides lets environment variables win over the file.
func (c *Config) ApplyEnvOverrides() {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		c.DataDir = dir
	}
	if backend := os.Getenv(EnvBackend); backend != "" {
		c.Backend = Backend(strings.ToLower(strings.TrimSpace(backend)))
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.LogLevel = level
	}
	for id, env := range baseURLEnv {
		if url := os.Getenv(env); url != "" {
			c.Providers[string(id)] = ProviderConfig{BaseURL: url}
		}
	}
}

// Validate reports unknown backends and provider sections.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(backends, c.Backend) {
		errs = append(errs, fmt.Errorf("unknown backend %q (want one of %v)", c.Backend, backends))
	}
	if c.Backend != BackendMemory && c.DataDir == "" {
		errs = append(errs, errors.New("data_dir is required for persistent backends"))
	}
	for _, name := range c.providerNames() {
		if !ai.Known(ai.ProviderID(name)) {
			errs = append(errs, fmt.Errorf("unknown provider section %q", name))
		}
	}
	return errors.Join(errs...)
}

func (c *Config) providerNames() []string {
	names := make([]string, 0, len(c.Providers))
	for name := range c.Providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegistryOptions turns the provider sections into registry overrides.
func (c *Config) RegistryOptions() []registry.Option {
	var opts []registry.Option
	for _, name := range c.providerNames() {
		if url := c.Providers[name].BaseURL; url != "" {
			opts = append(opts, registry.WithBaseURL(ai.ProviderID(name), url))
		}
	}
	return opts
}
