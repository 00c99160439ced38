package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "bibref"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"

	// EnvPrefix prefixes every environment variable that overrides a config key.
	EnvPrefix = "BIBREF_"
)

// globalConfigCache caches the loaded config.
var globalConfigCache *Config

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/bibref/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// Load returns the effective configuration: defaults, then the global config
// file if present, then BIBREF_* environment variables (a .env file in the
// working directory is loaded first, without overriding the real environment).
// A missing config file is not an error.
func Load() (*Config, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	_ = godotenv.Load()

	cfg := Default()

	fileCfg, err := readFile(GlobalConfigPath())
	if err != nil {
		return nil, err
	}
	cfg.merge(fileCfg)
	cfg.merge(fromEnv())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	globalConfigCache = cfg
	return cfg, nil
}

// ResetCache clears the cached config.
// Useful for testing.
func ResetCache() {
	globalConfigCache = nil
}

func readFile(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}
	return &cfg, nil
}

func fromEnv() *Config {
	cfg := &Config{
		GrobidURL:      os.Getenv(EnvPrefix + "GROBID_URL"),
		GrobidCommand:  os.Getenv(EnvPrefix + "GROBID_COMMAND"),
		ArXivURL:       os.Getenv(EnvPrefix + "ARXIV_URL"),
		CrossrefURL:    os.Getenv(EnvPrefix + "CROSSREF_URL"),
		CrossrefMailto: os.Getenv(EnvPrefix + "CROSSREF_MAILTO"),
		LogLevel:       strings.ToLower(os.Getenv(EnvPrefix + "LOG_LEVEL")),
	}
	if args := os.Getenv(EnvPrefix + "GROBID_ARGS"); args != "" {
		cfg.GrobidArgs = strings.Fields(args)
	}
	return cfg
}

// HelpfulConfigMessage explains where configuration lives.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`Configure bibref in %s, for example:
  mkdir -p %s
  cat > %s <<EOF
  grobid_url: http://localhost:8070
  grobid_args: ["-jar", "/path/to/grobid-core.jar", "server"]
  crossref_mailto: you@example.com
  EOF

Any key can be overridden with an environment variable, e.g. BIBREF_GROBID_URL.`,
		configPath,
		filepath.Dir(configPath),
		configPath)
}
