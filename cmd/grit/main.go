package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/grit/cmd/grit/commands"
	"github.com/teranos/grit/config"
	"github.com/teranos/grit/errors"
	"github.com/teranos/grit/logger"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "grit",
	Short: "grit - resource definition compiler",
	Long: `grit - Generate native build inputs from GRD resource definitions.

grit reads a GRD file (XML describing messages, included files and
structures), assigns every textual resource id a numeric id and writes the
outputs the file declares.

Available commands:
  build   - Write every declared output whose type grit can format
  check   - Verify generated outputs on disk are up to date
  header  - Print the rc_header for a GRD file to stdout
  config  - Show and manage grit configuration
  version - Show version information

Examples:
  grit build app.grd -o out/gen           # Generate outputs under out/gen
  grit build app.grd -D is_win --watch    # Rebuild on every change
  grit check app.grd -o out/gen           # Fail if out/gen is stale
  grit header app.grd --whitelist-support # Preview the header`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			config.SetFile(configFile)
		}
		cfg, err := config.Load()
		if err != nil {
			return errors.Wrap(err, "failed to load config")
		}

		verbosity, _ := cmd.Flags().GetCount("verbose")
		if err := logger.Initialize(cfg.Build.JSONLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		logger.Logger.Debugw("Logger initialized", "verbosity", logger.LevelName(verbosity))

		if logger.ShouldOutput(verbosity, logger.OutputConfig) {
			for _, src := range config.Sources() {
				logger.Logger.Debugw("Config source",
					"kind", string(src.Kind),
					logger.FieldPath, src.Path,
					"exists", src.Exists)
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: search for grit.toml)")

	rootCmd.AddCommand(commands.BuildCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.HeaderCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
