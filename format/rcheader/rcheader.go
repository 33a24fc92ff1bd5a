// Package rcheader formats the C header that maps textual resource ids to
// the numeric ids consumed by a native resource compiler.
package rcheader

import (
	"fmt"
	"io"
	"iter"

	"github.com/teranos/grit/errors"
	"github.com/teranos/grit/grd"
)

// OutputType is the <output type="..."> this formatter serves.
const OutputType = "rc_header"

const (
	DefaultWhitelistHeader  = "ui/base/resource/whitelist.h"
	DefaultWhitelistWrapper = "::ui::WhitelistedResource"
)

var banner = []string{
	"// This file is automatically generated by GRIT. Do not edit.\n",
	"\n",
	"#pragma once\n",
	"\n",
}

// emitted when no rc_header output carries a prepend emit node
var defaultIncludes = []string{"#include <atlres.h>", ""}

// Formatter renders rc headers. The zero value is not usable; start from Default.
type Formatter struct {
	// WhitelistHeader is included when whitelist support is enabled.
	WhitelistHeader string
	// WhitelistWrapper is the template called with each id when whitelist
	// support is enabled.
	WhitelistWrapper string
}

// Default uses the stock whitelist header and wrapper.
var Default = Formatter{
	WhitelistHeader:  DefaultWhitelistHeader,
	WhitelistWrapper: DefaultWhitelistWrapper,
}

// Format yields the whole header using Default.
func Format(tree grd.Tree, lang, outputDir string) iter.Seq2[string, error] {
	return Default.Format(tree, lang, outputDir)
}

// FormatDefines yields the #define lines using Default.
func FormatDefines(tree grd.Tree) iter.Seq2[string, error] {
	return Default.FormatDefines(tree)
}

// Format yields the banner, the prepend lines or default includes, the
// optional whitelist include and then every #define. lang and outputDir
// are unused.
func (f Formatter) Format(tree grd.Tree, lang, outputDir string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, line := range banner {
			if !yield(line, nil) {
				return
			}
		}

		prepend := prependLines(tree)
		if len(prepend) == 0 {
			prepend = defaultIncludes
		}
		for _, line := range prepend {
			if !yield(line+"\n", nil) {
				return
			}
		}

		if tree.WhitelistSupportEnabled() {
			if !yield(fmt.Sprintf("#include \"%s\"\n", f.WhitelistHeader), nil) {
				return
			}
		}

		for line, err := range f.FormatDefines(tree) {
			if !yield(line, err) || err != nil {
				return
			}
		}
	}
}

// prependLines collects the cdata of every <emit emit_type="prepend">
// child of every rc_header output, in document order.
func prependLines(tree grd.Tree) []string {
	var lines []string
	for _, output := range tree.OutputFiles() {
		if output.Type() != OutputType {
			continue
		}
		for _, child := range output.Children {
			if child.Name == "emit" && child.Attrs["emit_type"] == "prepend" {
				lines = append(lines, child.GetCdata())
			}
		}
	}
	return lines
}

// FormatDefines yields one "#define SYMBOL ID" line per textual id of
// every active descendant. Each item is entered before its ids are read
// and released afterwards, whatever happens.
func (f Formatter) FormatDefines(tree grd.Tree) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		ids := tree.IDMap()
		define := func(tid string, id int) string {
			return fmt.Sprintf("#define %s %d\n", tid, id)
		}
		if tree.WhitelistSupportEnabled() {
			define = func(tid string, id int) string {
				return fmt.Sprintf("#define %s (%s<%d>(), %d)\n", tid, f.WhitelistWrapper, id, id)
			}
		}

		for item := range tree.ActiveDescendants() {
			if !defineItem(item, ids, define, yield) {
				return
			}
		}
	}
}

// defineItem yields the lines of one item inside its scope. It returns
// false when the sequence must stop.
func defineItem(item grd.Item, ids map[string]int, define func(string, int) string, yield func(string, error) bool) bool {
	release := item.Enter()
	defer release()

	for _, tid := range item.TextualIDs() {
		id, ok := ids[tid]
		if !ok {
			yield("", errors.NewUnknownTextualID(tid))
			return false
		}
		if !yield(define(tid, id), nil) {
			return false
		}
	}
	return true
}

// Collect drains seq into a slice, stopping at the first error.
func Collect(seq iter.Seq2[string, error]) ([]string, error) {
	var lines []string
	for line, err := range seq {
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// WriteTo writes every line of seq to w and returns the bytes written.
func WriteTo(w io.Writer, seq iter.Seq2[string, error]) (int64, error) {
	var total int64
	for line, err := range seq {
		if err != nil {
			return total, err
		}
		n, err := io.WriteString(w, line)
		total += int64(n)
		if err != nil {
			return total, errors.Wrap(err, "failed to write header")
		}
	}
	return total, nil
}
