package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/grit/errors"
)

var globalConfig *Config
var viperInstance *viper.Viper
var explicitFile string

// SourceKind names one layer of the configuration cascade
type SourceKind string

const (
	SourceDefault     SourceKind = "DEFAULT"
	SourceSystem      SourceKind = "SYSTEM"
	SourceUser        SourceKind = "USER"
	SourceProject     SourceKind = "PROJECT"
	SourceExplicit    SourceKind = "EXPLICIT"
	SourceEnvironment SourceKind = "ENV"
)

// Source is one config file considered during loading
type Source struct {
	Kind   SourceKind
	Path   string
	Exists bool
}

// SetFile makes Load read only path (plus defaults and environment),
// skipping the system/user/project search.
func SetFile(path string) {
	explicitFile = path
	globalConfig = nil
	viperInstance = nil
}

// Load reads the grit configuration using Viper
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v, err := initViper()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, src := range Sources() {
		if src.Exists {
			paths = append(paths, src.Path)
		}
	}
	restoreDefineCase(cfg, paths...)

	globalConfig = cfg
	return globalConfig, nil
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if cfg.GRD.Defines == nil {
		cfg.GRD.Defines = map[string]string{}
	}
	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	// Set defaults but don't bind environment variables for this specific load
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config from %s", configPath)
	}
	restoreDefineCase(cfg, configPath)
	return cfg, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	explicitFile = ""
}

// initViper initializes Viper with configuration sources and defaults
func initViper() (*viper.Viper, error) {
	if viperInstance != nil {
		return viperInstance, nil
	}

	v := viper.New()

	v.SetEnvPrefix("GRIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	for _, src := range Sources() {
		if !src.Exists {
			if src.Kind == SourceExplicit {
				return nil, errors.WithHint(
					errors.Newf("config file %s not found", src.Path),
					"check the --config path")
			}
			continue
		}
		if err := mergeFile(v, src.Path); err != nil {
			// an explicitly requested file must load, searched ones may be broken
			if src.Kind == SourceExplicit {
				return nil, err
			}
			continue
		}
	}

	viperInstance = v
	return v, nil
}

// mergeFile merges one TOML file into v
func mergeFile(v *viper.Viper, path string) error {
	tempViper := viper.New()
	tempViper.SetConfigFile(path)
	tempViper.SetConfigType("toml")
	if err := tempViper.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}
	if err := v.MergeConfigMap(tempViper.AllSettings()); err != nil {
		return errors.Wrapf(err, "failed to merge config file %s", path)
	}
	return nil
}

// Sources lists the config files consulted, lowest precedence first.
// Environment variables override all of them.
func Sources() []Source {
	if explicitFile != "" {
		return []Source{{Kind: SourceExplicit, Path: explicitFile, Exists: fileExists(explicitFile)}}
	}

	sources := []Source{{Kind: SourceSystem, Path: "/etc/grit/" + FileName}}
	if home, err := os.UserHomeDir(); err == nil {
		sources = append(sources, Source{Kind: SourceUser, Path: filepath.Join(home, ".grit", FileName)})
	}
	if project := findProjectConfig(); project != "" {
		sources = append(sources, Source{Kind: SourceProject, Path: project})
	}
	for i := range sources {
		sources[i].Exists = fileExists(sources[i].Path)
	}
	return sources
}

// findProjectConfig searches for grit.toml by walking up the directory tree
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, FileName)
		if fileExists(path) {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root, stop searching
			break
		}
		dir = parent
	}

	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Get returns a configuration value using dot notation
func Get(key string) (interface{}, bool, error) {
	v, err := initViper()
	if err != nil {
		return nil, false, err
	}
	if !v.IsSet(key) {
		return nil, false, nil
	}
	return v.Get(key), true, nil
}
