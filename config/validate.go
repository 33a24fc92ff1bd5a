package config

import (
	"github.com/teranos/grit/errors"
	"github.com/teranos/grit/version"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Jobs: 0 = one per CPU, negative = invalid
	if c.Build.Jobs < 0 {
		return errors.NewInvalidConfigError("build.jobs must be >= 0, got %d", c.Build.Jobs)
	}

	if c.Build.OutputDir == "" {
		return errors.NewInvalidConfigError("build.output_dir cannot be empty (use \".\" for the working directory)")
	}

	// Whitelist settings only matter when whitelist support is on
	if c.RCHeader.WhitelistSupport {
		if c.RCHeader.WhitelistHeader == "" {
			return errors.NewInvalidConfigError("rc_header.whitelist_header cannot be empty when whitelist_support is enabled")
		}
		if c.RCHeader.WhitelistWrapper == "" {
			return errors.NewInvalidConfigError("rc_header.whitelist_wrapper cannot be empty when whitelist_support is enabled")
		}
	}

	if err := version.Satisfies(version.Version, c.GRD.Requires); err != nil {
		return errors.Wrap(err, "grd.requires")
	}

	return nil
}
