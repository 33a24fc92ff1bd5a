package config

import (
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/teranos/grit/errors"
)

// UnknownKeys returns the keys in a TOML file that map to no Config field,
// which usually means a typo viper would silently ignore.
func UnknownKeys(path string) ([]string, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}

	var keys []string
	for _, key := range md.Undecoded() {
		keys = append(keys, key.String())
	}
	return keys, nil
}

// restoreDefineCase renames grd.defines keys back to the spelling used in
// the TOML files at paths, since viper lowercases map keys and <if>
// identifiers are case-sensitive. Later files win; keys that only came
// from the environment stay lowercase.
func restoreDefineCase(cfg *Config, paths ...string) {
	names := make(map[string]string)
	for _, path := range paths {
		var file struct {
			GRD struct {
				Defines map[string]interface{} `toml:"defines"`
			} `toml:"grd"`
		}
		if _, err := toml.DecodeFile(path, &file); err != nil {
			continue
		}
		for name := range file.GRD.Defines {
			names[strings.ToLower(name)] = name
		}
	}
	if len(names) == 0 {
		return
	}

	defines := make(map[string]string, len(cfg.GRD.Defines))
	for key, value := range cfg.GRD.Defines {
		if name, ok := names[key]; ok {
			key = name
		}
		defines[key] = value
	}
	cfg.GRD.Defines = defines
}
