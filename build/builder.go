// Package build renders every output a resource tree declares and keeps
// the files on disk in step with it.
package build

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/grit/errors"
	"github.com/teranos/grit/format"
	"github.com/teranos/grit/grd"
	"github.com/teranos/grit/logger"
)

// Builder renders the outputs of one resource tree.
type Builder struct {
	Tree      grd.Tree
	Registry  *format.Registry
	OutputDir string
	// Jobs bounds concurrent renders; <= 0 means one per CPU.
	Jobs   int
	Logger *zap.SugaredLogger
}

// Output is one <output> declaration with a registered formatter.
type Output struct {
	Type     string `json:"type"`
	Filename string `json:"filename"`
	Lang     string `json:"lang,omitempty"`
	// Path is Filename resolved against the builder's OutputDir.
	Path string `json:"path"`

	format format.Func
}

// Status says what Run did with one output.
type Status string

const (
	StatusWritten   Status = "written"
	StatusUnchanged Status = "unchanged"
)

// Result is the outcome for one output.
type Result struct {
	Output Output `json:"output"`
	Status Status `json:"status"`
	Size   int    `json:"size"`
}

// Report summarises a Run.
type Report struct {
	Results []Result `json:"results"`
	// Skipped lists filenames whose output type has no formatter.
	Skipped  []string      `json:"skipped"`
	Duration time.Duration `json:"duration_ns"`
}

// Count returns how many outputs ended with the given status.
func (r *Report) Count(status Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

func (b *Builder) log() *zap.SugaredLogger {
	if b.Logger != nil {
		return b.Logger
	}
	return logger.ComponentLogger("build")
}

func (b *Builder) jobs() int {
	if b.Jobs > 0 {
		return b.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

// Plan lists the outputs that have a registered formatter, in document
// order, and the filenames of those that do not. An output with no
// filename is an invalid tree.
func (b *Builder) Plan() (outputs []Output, skipped []string, err error) {
	for i, node := range b.Tree.OutputFiles() {
		filename := node.Attr("filename")
		if strings.TrimSpace(filename) == "" {
			return nil, nil, errors.WithHint(
				errors.NewInvalidGRDError("output #%d (type %q) has no filename", i+1, node.Type()),
				"add a filename attribute to every <output> element")
		}
		fn, ok := b.Registry.Lookup(node.Type())
		if !ok {
			b.log().Debugw("No formatter for output, skipping",
				logger.FieldOutput, filename,
				logger.FieldOutputType, node.Type())
			skipped = append(skipped, filename)
			continue
		}
		outputs = append(outputs, Output{
			Type:     node.Type(),
			Filename: filename,
			Lang:     node.Attr("lang"),
			Path:     filepath.Join(b.OutputDir, filepath.FromSlash(filename)),
			format:   fn,
		})
	}
	return outputs, skipped, nil
}

// Render drains the output's formatter into memory.
func (b *Builder) Render(ctx context.Context, out Output) ([]byte, error) {
	if out.format == nil {
		return nil, errors.Wrapf(errors.ErrUnknownOutputType, "%s (type %q)", out.Filename, out.Type)
	}
	logger.LoggerFromContext(ctx, b.log()).Debugw("Rendering output",
		logger.FieldOutputType, out.Type,
		logger.FieldLang, out.Lang)

	var buf bytes.Buffer
	for line, err := range out.format(b.Tree, out.Lang, filepath.Dir(out.Path)) {
		if err != nil {
			return nil, errors.Wrapf(err, "failed to format %s", out.Filename)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		buf.WriteString(line)
	}
	return buf.Bytes(), nil
}

// Run renders every planned output concurrently and writes those whose
// contents changed.
func (b *Builder) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	outputs, skipped, err := b.Plan()
	if err != nil {
		return nil, err
	}
	results := make([]Result, len(outputs))

	ctx = logger.WithOperation(ctx, "build")
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.jobs())
	for i, out := range outputs {
		g.Go(func() error {
			ctx := logger.WithOutput(ctx, out.Filename)
			data, err := b.Render(ctx, out)
			if err != nil {
				return err
			}
			status, err := writeIfChanged(out.Path, data)
			if err != nil {
				return err
			}
			logger.LoggerFromContext(ctx, b.log()).Infow("Output generated",
				logger.FieldPath, out.Path,
				logger.FieldSize, len(data),
				"status", string(status))
			results[i] = Result{Output: out, Status: status, Size: len(data)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Results: results, Skipped: skipped, Duration: time.Since(start)}
	logger.LoggerFromContext(ctx, b.log()).Debugw("Build complete",
		logger.FieldOutputDir, b.OutputDir,
		logger.FieldCount, len(results),
		logger.FieldJobs, b.jobs(),
		logger.FieldDurationMS, report.Duration.Milliseconds())
	return report, nil
}

// writeIfChanged leaves an identical file untouched so downstream build
// steps keyed on mtime do not rerun.
func writeIfChanged(path string, data []byte) (Status, error) {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, data) {
		return StatusUnchanged, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return "", errors.Wrapf(err, "failed to read %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", errors.Wrapf(err, "failed to create directory for %s", path)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", path)
	}
	return StatusWritten, nil
}
