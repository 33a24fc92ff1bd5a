package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/grit/config"
	"github.com/teranos/grit/errors"
	"github.com/teranos/grit/format/rcheader"
)

var (
	headerTree treeOptions
	headerLang string
)

// HeaderCmd prints the rc_header for a GRD file
var HeaderCmd = &cobra.Command{
	Use:   "header <file.grd>",
	Short: "Print the rc_header for a GRD file",
	Long: `Print the C header mapping every active textual resource id to its
numeric id, exactly as 'grit build' would write it for rc_header outputs.

Examples:
  grit header app.grd
  grit header app.grd -D is_win --whitelist-support > resources.h`,
	Args: cobra.ExactArgs(1),
	RunE: runHeader,
}

func init() {
	headerTree.register(HeaderCmd)
	HeaderCmd.Flags().StringVar(&headerLang, "lang", "en", "Output language passed to the formatter")
}

func runHeader(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}

	root, err := headerTree.load(cmd, cfg, args[0])
	if err != nil {
		return err
	}

	f := headerFormatter(cfg)
	_, err = rcheader.WriteTo(cmd.OutOrStdout(), f.Format(root, headerLang, cfg.Build.OutputDir))
	return err
}
