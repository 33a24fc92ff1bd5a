package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/grit/config"
	"github.com/teranos/grit/errors"
	"github.com/teranos/grit/logger"
)

var (
	checkTree      treeOptions
	checkOutputDir string
)

// CheckCmd verifies that generated outputs are up to date
var CheckCmd = &cobra.Command{
	Use:   "check <file.grd>",
	Short: "Check that generated outputs are up to date",
	Long: `Render every output in memory and compare it with the file on disk,
without writing anything. Differences are printed as changed lines.

Exit codes:
  0 - Outputs are up to date
  1 - Outputs are missing or out of date (diff shown), or an error occurred

Examples:
  grit check app.grd -o out/gen`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkTree.register(CheckCmd)
	CheckCmd.Flags().StringVarP(&checkOutputDir, "output-dir", "o", "", "Directory output filenames are relative to (default: build.output_dir)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}

	root, err := checkTree.load(cmd, cfg, args[0])
	if err != nil {
		return err
	}
	outputDir := cfg.Build.OutputDir
	if checkOutputDir != "" {
		outputDir = checkOutputDir
	}

	result, err := newBuilder(cfg, root, outputDir, cfg.Build.Jobs).Check(cmd.Context())
	if err != nil {
		return err
	}

	verbosity, _ := cmd.Flags().GetCount("verbose")
	if logger.ShouldOutput(verbosity, logger.OutputProgress) {
		stale := make(map[string]bool, len(result.Stale))
		for _, s := range result.Stale {
			stale[s.Output.Path] = true
		}
		for _, out := range result.Outputs {
			if !stale[out.Path] {
				pterm.Info.Printf("%s is up to date\n", out.Path)
			}
		}
	}

	if result.UpToDate() {
		pterm.Success.Printf("%d outputs up to date\n", result.Checked)
		return nil
	}

	out := cmd.OutOrStdout()
	for _, s := range result.Stale {
		if s.Missing {
			pterm.Warning.Printf("%s is missing\n", s.Output.Path)
			continue
		}
		pterm.Warning.Printf("%s is out of date\n", s.Output.Path)
		fmt.Fprint(out, s.Diff)
	}
	return result.Err()
}
