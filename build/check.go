package build

import (
	"bytes"
	"context"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/grit/errors"
	"github.com/teranos/grit/logger"
)

// Stale describes one output whose file on disk differs from what would
// be generated.
type Stale struct {
	Output  Output
	Missing bool
	// Diff holds the changed lines, "-" for disk and "+" for generated.
	Diff string
}

// CheckResult holds the outcome of comparing outputs with disk.
type CheckResult struct {
	Checked int
	// Outputs lists every compared output in document order.
	Outputs []Output
	Stale   []Stale
}

// UpToDate reports whether every output matched.
func (r *CheckResult) UpToDate() bool {
	return len(r.Stale) == 0
}

// Err returns ErrStaleOutput naming the stale files, or nil.
func (r *CheckResult) Err() error {
	if r.UpToDate() {
		return nil
	}
	names := make([]string, len(r.Stale))
	for i, s := range r.Stale {
		names[i] = s.Output.Filename
	}
	return errors.WithHint(
		errors.Wrap(errors.ErrStaleOutput, strings.Join(names, ", ")),
		"run 'grit build' to regenerate")
}

// Check renders every output in memory and compares it with disk without
// writing anything.
func (b *Builder) Check(ctx context.Context) (*CheckResult, error) {
	outputs, _, err := b.Plan()
	if err != nil {
		return nil, err
	}
	stale := make([]*Stale, len(outputs))

	ctx = logger.WithOperation(ctx, "check")
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.jobs())
	for i, out := range outputs {
		g.Go(func() error {
			ctx := logger.WithOutput(ctx, out.Filename)
			log := logger.LoggerFromContext(ctx, b.log())
			want, err := b.Render(ctx, out)
			if err != nil {
				return err
			}
			have, err := os.ReadFile(out.Path)
			if os.IsNotExist(err) {
				log.Infow("Output missing", logger.FieldPath, out.Path)
				stale[i] = &Stale{Output: out, Missing: true, Diff: lineDiff("", string(want))}
				return nil
			}
			if err != nil {
				return errors.Wrapf(err, "failed to read %s", out.Path)
			}
			if !bytes.Equal(have, want) {
				log.Infow("Output out of date", logger.FieldPath, out.Path)
				stale[i] = &Stale{Output: out, Diff: lineDiff(string(have), string(want))}
				return nil
			}
			log.Debugw("Output up to date", logger.FieldPath, out.Path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &CheckResult{Checked: len(outputs), Outputs: outputs}
	for _, s := range stale {
		if s != nil {
			result.Stale = append(result.Stale, *s)
		}
	}
	return result, nil
}

// lineDiff renders the lines that differ between have and want.
func lineDiff(have, want string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(have, want)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}
