/*
Package config manages TOML config for langfilter.

	[filter]
	debounce_ms = 300
	languages_file = ""     # json, txt or toml; empty means the builtin list
	ui_language = "en"      # language the builtin list is named in
	overrides_file = ""     # [autonyms] / [scripts] tables

	[search]
	url = ""                # languagesearch endpoint; empty disables it
	timeout_ms = 5000

	[server]
	max_query = 60
	watch = false

	[cli]
	default_limit = 24
*/
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/langfilter/internal/utils"
)

// Config holds the entire config structure
type Config struct {
	Filter FilterConfig `toml:"filter"`
	Search SearchConfig `toml:"search"`
	Server ServerConfig `toml:"server"`
	CLI    CliConfig    `toml:"cli"`
}

// FilterConfig has options of the filter itself.
type FilterConfig struct {
	DebounceMs    int    `toml:"debounce_ms"`
	LanguagesFile string `toml:"languages_file"`
	UILanguage    string `toml:"ui_language"`
	OverridesFile string `toml:"overrides_file"`
}

// SearchConfig configures the remote search endpoint.
type SearchConfig struct {
	URL       string `toml:"url"`
	TimeoutMs int    `toml:"timeout_ms"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	MaxQuery int  `toml:"max_query"`
	Watch    bool `toml:"watch"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int `toml:"default_limit"`
}

// Delay returns the debounce delay.
func (f FilterConfig) Delay() time.Duration {
	return time.Duration(f.DebounceMs) * time.Millisecond
}

// Timeout returns the per request timeout.
func (s SearchConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutMs) * time.Millisecond
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/langfilter
// 2. ~/Library/Application Support/langfilter (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.ExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "langfilter")
	if utils.WritableDir(primaryPath) {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "langfilter")
	if utils.WritableDir(macOSPath) {
		return macOSPath, nil
	}
	execDir, err := utils.ExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/langfilter/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Filter: FilterConfig{
			DebounceMs: 300,
			UILanguage: "en",
		},
		Search: SearchConfig{
			TimeoutMs: 5000,
		},
		Server: ServerConfig{
			MaxQuery: 60,
		},
		CLI: CliConfig{
			DefaultLimit: 24,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Sections that fail to decode fall back
// to their defaults one key at a time.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.DecodeTOML(configPath, config); err != nil {
		log.Warnf("Config error: %v. Attempting partial recovery...", err)
		return tryPartialParse(configPath)
	}
	config.normalize()
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tables, err := utils.DecodeTOMLTables(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := tables["filter"]; ok {
		extractFilterConfig(section, &config.Filter)
	}
	if section, ok := tables["search"]; ok {
		extractSearchConfig(section, &config.Search)
	}
	if section, ok := tables["server"]; ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := tables["cli"]; ok {
		extractCliConfig(section, &config.CLI)
	}
	config.normalize()
	return config, nil
}

func extractFilterConfig(data map[string]any, filter *FilterConfig) {
	if val, ok := utils.LookupInt(data, "debounce_ms"); ok {
		filter.DebounceMs = val
	}
	if val, ok := utils.Lookup[string](data, "languages_file"); ok {
		filter.LanguagesFile = val
	}
	if val, ok := utils.Lookup[string](data, "ui_language"); ok {
		filter.UILanguage = val
	}
	if val, ok := utils.Lookup[string](data, "overrides_file"); ok {
		filter.OverridesFile = val
	}
}

func extractSearchConfig(data map[string]any, search *SearchConfig) {
	if val, ok := utils.Lookup[string](data, "url"); ok {
		search.URL = val
	}
	if val, ok := utils.LookupInt(data, "timeout_ms"); ok {
		search.TimeoutMs = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.LookupInt(data, "max_query"); ok {
		server.MaxQuery = val
	}
	if val, ok := utils.Lookup[bool](data, "watch"); ok {
		server.Watch = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.LookupInt(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
}

// normalize replaces out of range values with defaults.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Filter.DebounceMs <= 0 {
		c.Filter.DebounceMs = def.Filter.DebounceMs
	}
	if c.Filter.UILanguage == "" {
		c.Filter.UILanguage = def.Filter.UILanguage
	}
	if c.Search.TimeoutMs <= 0 {
		c.Search.TimeoutMs = def.Search.TimeoutMs
	}
	if c.Server.MaxQuery <= 0 {
		c.Server.MaxQuery = def.Server.MaxQuery
	}
	if c.CLI.DefaultLimit <= 0 {
		c.CLI.DefaultLimit = def.CLI.DefaultLimit
	}
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.WriteTOML(configPath, config)
}

// ResolvePaths makes relative file settings relative to the config file.
func (c *Config) ResolvePaths(configPath string) {
	if configPath == "" {
		return
	}
	c.Filter.LanguagesFile = utils.ResolveNear(configPath, c.Filter.LanguagesFile)
	c.Filter.OverridesFile = utils.ResolveNear(configPath, c.Filter.OverridesFile)
}
