package config

import (
	"github.com/spf13/viper"

	"github.com/teranos/grit/format/rcheader"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("build.output_dir", ".")
	v.SetDefault("build.jobs", 0)
	v.SetDefault("build.json_logs", false)

	v.SetDefault("rc_header.whitelist_support", false)
	v.SetDefault("rc_header.whitelist_header", rcheader.DefaultWhitelistHeader)
	v.SetDefault("rc_header.whitelist_wrapper", rcheader.DefaultWhitelistWrapper)

	v.SetDefault("grd.resource_ids", "")
	v.SetDefault("grd.defines", map[string]string{})
	v.SetDefault("grd.requires", "")
}

// Default returns the configuration built from defaults alone
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// defaults always unmarshal
		panic(err)
	}
	return cfg
}
