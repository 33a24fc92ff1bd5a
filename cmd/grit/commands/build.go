package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/grit/build"
	"github.com/teranos/grit/config"
	"github.com/teranos/grit/display"
	"github.com/teranos/grit/errors"
	"github.com/teranos/grit/logger"
)

var (
	buildTree      treeOptions
	buildOutputDir string
	buildJobs      int
	buildWatch     bool
)

// BuildCmd writes every output a GRD file declares
var BuildCmd = &cobra.Command{
	Use:   "build <file.grd>",
	Short: "Generate the outputs declared by a GRD file",
	Long: `Generate every <output> declared by a GRD file whose type grit can
format (currently: rc_header). Outputs of other types are skipped.

Files whose contents would not change are left untouched so that
downstream build steps keyed on modification time do not rerun.

Examples:
  grit build app.grd                         # Write outputs relative to build.output_dir
  grit build app.grd -o out/gen -D is_win    # Evaluate <if expr="is_win"> as true
  grit build app.grd --whitelist-support     # Wrap ids in whitelist registration
  grit build app.grd --watch                 # Rebuild whenever the GRD changes`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildTree.register(BuildCmd)
	BuildCmd.Flags().StringVarP(&buildOutputDir, "output-dir", "o", "", "Directory output filenames are relative to (default: build.output_dir)")
	BuildCmd.Flags().IntVarP(&buildJobs, "jobs", "j", 0, "Outputs rendered concurrently (default: build.jobs, 0 = one per CPU)")
	BuildCmd.Flags().BoolVar(&buildWatch, "watch", false, "Keep running and rebuild when inputs change")
	BuildCmd.Flags().Bool("json", false, "Print the build report as one JSON line per build")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	grdPath := args[0]

	rebuild := func(ctx context.Context) error {
		return buildOnce(ctx, cmd, cfg, grdPath)
	}
	if err := rebuild(cmd.Context()); err != nil {
		if !buildWatch {
			return err
		}
		pterm.Error.Printf("%v\n", err)
	}
	if !buildWatch {
		return nil
	}

	w, err := build.NewWatcher(buildTree.inputs(cfg, grdPath)...)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	pterm.Info.Printf("Watching %s (Ctrl-C to stop)\n", grdPath)
	return w.Run(ctx, func(ctx context.Context) error {
		err := rebuild(ctx)
		if err != nil {
			pterm.Error.Printf("%v\n", err)
		}
		return err
	})
}

func buildOnce(ctx context.Context, cmd *cobra.Command, cfg *config.Config, grdPath string) error {
	root, err := buildTree.load(cmd, cfg, grdPath)
	if err != nil {
		return err
	}

	outputDir := cfg.Build.OutputDir
	if buildOutputDir != "" {
		outputDir = buildOutputDir
	}
	jobs := cfg.Build.Jobs
	if cmd.Flags().Changed("jobs") {
		jobs = buildJobs
	}

	report, err := newBuilder(cfg, root, outputDir, jobs).Run(ctx)
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd.OutOrStdout(), report, true)
	}

	verbosity, _ := cmd.Flags().GetCount("verbose")
	if logger.ShouldOutput(verbosity, logger.OutputSummary) {
		printReport(report)
	}
	if logger.ShouldOutput(verbosity, logger.OutputSkipped) {
		for _, name := range report.Skipped {
			pterm.Info.Printf("Skipped %s (no formatter for its type)\n", name)
		}
	}
	if logger.ShouldOutput(verbosity, logger.OutputTiming) {
		pterm.Info.Printf("Build took %s\n", report.Duration)
	}
	pterm.Success.Printf("%d written, %d unchanged, %d skipped\n",
		report.Count(build.StatusWritten), report.Count(build.StatusUnchanged), len(report.Skipped))
	return nil
}

func printReport(report *build.Report) {
	data := pterm.TableData{{"Output", "Type", "Status", "Bytes"}}
	for _, res := range report.Results {
		data = append(data, []string{res.Output.Path, res.Output.Type, string(res.Status), fmt.Sprint(res.Size)})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
