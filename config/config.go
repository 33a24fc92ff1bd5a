// Package config loads grit settings from defaults, TOML files and GRIT_*
// environment variables.
package config

// Config represents the grit configuration
type Config struct {
	Build    BuildConfig    `mapstructure:"build" toml:"build" yaml:"build" json:"build"`
	RCHeader RCHeaderConfig `mapstructure:"rc_header" toml:"rc_header" yaml:"rc_header" json:"rc_header"`
	GRD      GRDConfig      `mapstructure:"grd" toml:"grd" yaml:"grd" json:"grd"`
}

// BuildConfig configures output generation
type BuildConfig struct {
	OutputDir string `mapstructure:"output_dir" toml:"output_dir" yaml:"output_dir" json:"output_dir"` // Directory output filenames are relative to
	Jobs      int    `mapstructure:"jobs" toml:"jobs" yaml:"jobs" json:"jobs"`                         // Outputs rendered concurrently (0 = one per CPU)
	JSONLogs  bool   `mapstructure:"json_logs" toml:"json_logs" yaml:"json_logs" json:"json_logs"`     // Structured JSON logs on stderr
}

// RCHeaderConfig configures the rc_header formatter
type RCHeaderConfig struct {
	WhitelistSupport bool   `mapstructure:"whitelist_support" toml:"whitelist_support" yaml:"whitelist_support" json:"whitelist_support"`
	WhitelistHeader  string `mapstructure:"whitelist_header" toml:"whitelist_header" yaml:"whitelist_header" json:"whitelist_header"`
	WhitelistWrapper string `mapstructure:"whitelist_wrapper" toml:"whitelist_wrapper" yaml:"whitelist_wrapper" json:"whitelist_wrapper"`
}

// GRDConfig configures how resource trees are loaded
type GRDConfig struct {
	ResourceIDs string            `mapstructure:"resource_ids" toml:"resource_ids" yaml:"resource_ids" json:"resource_ids"` // YAML file with first ids per group
	Defines     map[string]string `mapstructure:"defines" toml:"defines" yaml:"defines" json:"defines"`                     // Values for <if expr> conditions
	Requires    string            `mapstructure:"requires" toml:"requires" yaml:"requires" json:"requires"`                 // Semver constraint on the grit version
}

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// FileName is the project config file grit looks for.
const FileName = "grit.toml"
