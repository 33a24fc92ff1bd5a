package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/grit/build"
	"github.com/teranos/grit/config"
	"github.com/teranos/grit/format/rcheader"
	"github.com/teranos/grit/grd"
	"github.com/teranos/grit/logger"
)

// treeOptions are the flags shared by every command that loads a GRD file
type treeOptions struct {
	defines     []string
	whitelist   bool
	resourceIDs string
}

func (o *treeOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&o.defines, "define", "D", nil, "Set a condition variable: name or name=value (repeatable)")
	cmd.Flags().BoolVar(&o.whitelist, "whitelist-support", false, "Wrap resource ids in whitelist registration calls")
	cmd.Flags().StringVar(&o.resourceIDs, "resource-ids", "", "YAML file with first ids per group (default: grd.resource_ids)")
}

// definesFor merges -D flags over grd.defines; a bare name means "1"
func (o *treeOptions) definesFor(cfg *config.Config) map[string]string {
	defines := make(map[string]string, len(cfg.GRD.Defines)+len(o.defines))
	for k, v := range cfg.GRD.Defines {
		defines[k] = v
	}
	for _, d := range o.defines {
		name, value, found := strings.Cut(d, "=")
		if !found {
			value = "1"
		}
		defines[strings.TrimSpace(name)] = value
	}
	return defines
}

func (o *treeOptions) whitelistFor(cmd *cobra.Command, cfg *config.Config) bool {
	if cmd.Flags().Changed("whitelist-support") {
		return o.whitelist
	}
	return cfg.RCHeader.WhitelistSupport
}

func (o *treeOptions) resourceIDsFor(cfg *config.Config) string {
	if o.resourceIDs != "" {
		return o.resourceIDs
	}
	return cfg.GRD.ResourceIDs
}

// load reads the GRD file with flags applied over config
func (o *treeOptions) load(cmd *cobra.Command, cfg *config.Config, path string) (*grd.Root, error) {
	opts := []grd.Option{
		grd.WithDefines(o.definesFor(cfg)),
		grd.WithWhitelistSupport(o.whitelistFor(cmd, cfg)),
	}
	if idsPath := o.resourceIDsFor(cfg); idsPath != "" {
		ids, err := grd.LoadResourceIDs(idsPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, grd.WithResourceIDs(ids))
	}

	root, err := grd.LoadFile(path, opts...)
	if err != nil {
		return nil, err
	}

	log := logger.ComponentLogger("grd").With(logger.FieldGRD, root.Source())
	log.Infow("Loaded resource tree", logger.FieldCount, len(root.OutputFiles()))

	verbosity, _ := cmd.Flags().GetCount("verbose")
	if logger.ShouldOutput(verbosity, logger.OutputDataDump) {
		for n, ok := range root.Conditions() {
			log.Debugw("Condition evaluated", logger.FieldExpr, n.Attr("expr"), "value", ok)
		}
	}
	if logger.ShouldOutput(verbosity, logger.OutputIDMap) {
		for tid, id := range root.IDMap() {
			log.Debugw("Assigned id", logger.FieldTextualID, tid, logger.FieldNumericID, id)
		}
	}
	return root, nil
}

// inputs lists the files a build depends on, for watching
func (o *treeOptions) inputs(cfg *config.Config, path string) []string {
	inputs := []string{path}
	if idsPath := o.resourceIDsFor(cfg); idsPath != "" {
		inputs = append(inputs, idsPath)
	}
	return inputs
}

// headerFormatter configures the rc_header formatter from config
func headerFormatter(cfg *config.Config) rcheader.Formatter {
	return rcheader.Formatter{
		WhitelistHeader:  cfg.RCHeader.WhitelistHeader,
		WhitelistWrapper: cfg.RCHeader.WhitelistWrapper,
	}
}

// newBuilder wires a loaded tree to the formatters and output directory
func newBuilder(cfg *config.Config, root *grd.Root, outputDir string, jobs int) *build.Builder {
	return &build.Builder{
		Tree:      root,
		Registry:  build.NewRegistry(headerFormatter(cfg)),
		OutputDir: outputDir,
		Jobs:      jobs,
		Logger:    logger.ComponentLogger("build"),
	}
}
