/*
Package config manages the TOML (or YAML) config for WordTrie.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Dict    DictConfig    `toml:"dict" yaml:"dict"`
	Suggest SuggestConfig `toml:"suggest" yaml:"suggest"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
	CLI     CliConfig     `toml:"cli" yaml:"cli"`
}

// DictConfig holds dictionary file options.
type DictConfig struct {
	Path       string `toml:"path" yaml:"path"`
	Encoding   string `toml:"encoding" yaml:"encoding"`
	SaveOnExit bool   `toml:"save_on_exit" yaml:"save_on_exit"`
}

// SuggestConfig holds ranking and cache options.
type SuggestConfig struct {
	AutocompleteLimit int `toml:"autocomplete_limit" yaml:"autocomplete_limit"`
	MaxEditDistance   int `toml:"max_edit_distance" yaml:"max_edit_distance"`
	MaxSuggestions    int `toml:"max_suggestions" yaml:"max_suggestions"`
	CacheSize         int `toml:"cache_size" yaml:"cache_size"`
	CacheDepth        int `toml:"cache_depth" yaml:"cache_depth"`
}

// ServerConfig has IPC server related options.
type ServerConfig struct {
	MaxLimit  int `toml:"max_limit" yaml:"max_limit"`
	MinPrefix int `toml:"min_prefix" yaml:"min_prefix"`
	MaxPrefix int `toml:"max_prefix" yaml:"max_prefix"`
}

// CliConfig holds interactive menu options.
type CliConfig struct {
	DefaultLimit int  `toml:"default_limit" yaml:"default_limit"`
	NoFilter     bool `toml:"no_filter" yaml:"no_filter"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "wordtrie")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "wordtrie")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
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
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordtrie/config.toml
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
		Dict: DictConfig{
			Path:       "dictionary.txt",
			Encoding:   "utf-8",
			SaveOnExit: false,
		},
		Suggest: SuggestConfig{
			AutocompleteLimit: 5,
			MaxEditDistance:   2,
			MaxSuggestions:    10,
			CacheSize:         1024,
			CacheDepth:        64,
		},
		Server: ServerConfig{
			MaxLimit:  64,
			MinPrefix: 1,
			MaxPrefix: 60,
		},
		CLI: CliConfig{
			DefaultLimit: 5,
			NoFilter:     false,
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

// LoadConfig loads from a TOML or YAML file, chosen by extension
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if utils.IsYAMLPath(configPath) {
		if err := utils.LoadYAMLFile(configPath, config); err != nil {
			return tryPartialParse(configPath)
		}
		return config, nil
	}
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps whatever sections of a broken file still decode
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	var tempConfig map[string]any
	var err error
	if utils.IsYAMLPath(configPath) {
		tempConfig, err = utils.ParseYAMLWithRecovery(configPath)
	} else {
		tempConfig, err = utils.ParseTOMLWithRecovery(configPath)
	}
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(tempConfig, "suggest"); ok {
		extractSuggestConfig(section, &config.Suggest)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		dict.Path = val
	}
	if val, ok := utils.ExtractString(data, "encoding"); ok {
		dict.Encoding = val
	}
	if val, ok := utils.ExtractBool(data, "save_on_exit"); ok {
		dict.SaveOnExit = val
	}
}

func extractSuggestConfig(data map[string]any, s *SuggestConfig) {
	if val, ok := utils.ExtractInt64(data, "autocomplete_limit"); ok {
		s.AutocompleteLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_edit_distance"); ok {
		s.MaxEditDistance = val
	}
	if val, ok := utils.ExtractInt64(data, "max_suggestions"); ok {
		s.MaxSuggestions = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		s.CacheSize = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_depth"); ok {
		s.CacheDepth = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "min_prefix"); ok {
		server.MinPrefix = val
	}
	if val, ok := utils.ExtractInt64(data, "max_prefix"); ok {
		server.MaxPrefix = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractBool(data, "no_filter"); ok {
		cli.NoFilter = val
	}
}

// SaveConfig saves into a TOML or YAML file, chosen by extension
func SaveConfig(config *Config, configPath string) error {
	if utils.IsYAMLPath(configPath) {
		return utils.SaveYAMLFile(config, configPath)
	}
	return utils.SaveTOMLFile(config, configPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}
