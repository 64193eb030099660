package am

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/teranos/rankd/errors"
)

// ConfigFileName is the project and user configuration file name.
const ConfigFileName = "rankd.toml"

// EnvPrefix prefixes every environment override, e.g. RANKD_COMPLETION_MAX_RESULTS.
const EnvPrefix = "RANKD"

var (
	loadMu        sync.Mutex
	globalConfig  *Config
	viperInstance *viper.Viper
	// ConfigSources records the file each key was last set from during loading.
	ConfigSources = map[string]SourceInfo{}
)

// Load reads the rankd configuration using Viper. The result is cached until Reset.
func Load() (*Config, error) {
	loadMu.Lock()
	defer loadMu.Unlock()

	if globalConfig != nil {
		return globalConfig, nil
	}

	config, err := LoadWithViper(initViper())
	if err != nil {
		return nil, err
	}
	globalConfig = config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	loadMu.Lock()
	defer loadMu.Unlock()
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path on top of the
// defaults. Environment variables are not consulted.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "config file %s", configPath)
	}
	return config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	loadMu.Lock()
	defer loadMu.Unlock()
	globalConfig = nil
	viperInstance = nil
	ConfigSources = map[string]SourceInfo{}
}

// initViper initializes Viper with configuration sources and defaults.
// Callers hold loadMu.
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindEnvVars(v)
	SetDefaults(v)

	mergeConfigFiles(v)

	viperInstance = v
	return v
}

// findProjectConfig walks up from the working directory looking for rankd.toml.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// ConfigPaths lists the files consulted, lowest precedence first.
func ConfigPaths() []configPath {
	homeDir, _ := os.UserHomeDir()
	paths := []configPath{
		{Source: SourceSystem, Path: filepath.Join("/etc/rankd", ConfigFileName)},
		{Source: SourceUser, Path: filepath.Join(homeDir, ".rankd", ConfigFileName)},
	}
	if project := findProjectConfig(); project != "" {
		paths = append(paths, configPath{Source: SourceProject, Path: project})
	}
	return paths
}

type configPath struct {
	Source ConfigSource
	Path   string
}

// mergeConfigFiles merges configuration files in precedence order
// (system < user < project); environment variables win over all of them.
func mergeConfigFiles(v *viper.Viper) {
	for _, cp := range ConfigPaths() {
		if _, err := os.Stat(cp.Path); err != nil {
			continue
		}
		fileViper := viper.New()
		fileViper.SetConfigFile(cp.Path)
		fileViper.SetConfigType("toml")
		if err := fileViper.ReadInConfig(); err != nil {
			continue
		}
		if err := v.MergeConfigMap(fileViper.AllSettings()); err != nil {
			continue
		}
		for _, key := range fileViper.AllKeys() {
			ConfigSources[key] = SourceInfo{Source: cp.Source, Path: cp.Path}
		}
		v.SetConfigFile(cp.Path)
	}
}
