package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/grit/config"
	"github.com/teranos/grit/display"
	"github.com/teranos/grit/errors"
)

// ConfigCmd represents the config command
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and manage grit configuration",
	Long: `Display and manage grit configuration settings.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (GRIT_* prefix, e.g. GRIT_BUILD_JOBS)
3. Project config (./grit.toml, searched upwards)
4. User config (~/.grit/grit.toml)
5. System config (/etc/grit/grit.toml)
6. Default values

Examples:
  grit config show                    # Show current configuration
  grit config show --format json      # Show configuration in JSON format
  grit config get rc_header.whitelist_support
  grit config validate                # Validate current configuration
  grit config init                    # Write ./grit.toml with defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the effective grit configuration merged from all sources",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., build.output_dir, grd.defines)",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Long: `Validate the merged configuration and report keys in config files
that do not correspond to any setting.`,
	RunE: runConfigValidate,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a config file with default values",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var configWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	Long: `Show the configuration cascade and which files were checked.

Lists all configuration files in order of precedence, showing
which files exist and which are missing.`,
	RunE: runConfigWhere,
}

var (
	configFormat string
	configForce  bool
)

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file (keeps .back1-.back3)")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configGetCmd)
	ConfigCmd.AddCommand(configValidateCmd)
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configWhereCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	out := cmd.OutOrStdout()
	switch configFormat {
	case "json":
		return display.OutputJSON(out, cfg, false)

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(out, "# grit configuration\n%s", data)

	case "toml":
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "# grit configuration\n%s", data)

	default:
		return errors.WithHint(
			errors.Newf("unsupported format: %s", configFormat),
			"supported formats: toml, json, yaml")
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value, ok, err := config.Get(key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.WithHint(
			errors.Newf("configuration key %q not found", key),
			"run 'grit config show' to list available keys")
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	for _, src := range config.Sources() {
		if !src.Exists {
			continue
		}
		unknown, err := config.UnknownKeys(src.Path)
		if err != nil {
			pterm.Warning.Printf("%s: %v\n", src.Path, err)
			continue
		}
		for _, key := range unknown {
			pterm.Warning.Printf("%s: unknown key %q\n", src.Path, key)
		}
	}

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}

	pterm.Success.Println("Configuration is valid")
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.FileName
	if len(args) == 1 {
		path = args[0]
	}
	if err := config.WriteDefault(path, configForce); err != nil {
		return err
	}
	pterm.Success.Printf("Wrote %s\n", path)
	return nil
}

func runConfigWhere(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintf(out, "  [%s]  Built-in defaults\n", config.SourceDefault)

	for _, src := range config.Sources() {
		status := "missing"
		if src.Exists {
			status = "loaded"
		}
		fmt.Fprintf(out, "  [%s]  %s (%s)\n", src.Kind, src.Path, status)
	}
	fmt.Fprintf(out, "  [%s]  GRIT_* environment variables\n", config.SourceEnvironment)
	return nil
}
