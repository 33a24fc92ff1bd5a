package grd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/grit/errors"
)

const sampleGRD = `<?xml version="1.0" encoding="UTF-8"?>
<grit latest_public_release="0" current_release="1">
  <outputs>
    <output filename="grit/sample_resources.h" type="rc_header">
      <emit emit_type="prepend">#include "base/sample.h"</emit>
    </output>
    <output filename="sample_en.pak" type="data_package" lang="en" />
  </outputs>
  <release seq="1">
    <includes first_id="1000">
      <include name="IDR_MAIN_HTML" file="main.html" type="BINDATA" />
      <if expr="is_win">
        <include name="IDR_WIN_ICON" file="win.ico" type="BINDATA" />
      </if>
    </includes>
    <messages>
      <message name="IDS_HELLO" desc="Greeting">Hello</message>
      <if expr="is_win and not is_arm">
        <then>
          <message name="IDS_PLATFORM" desc="Platform">Windows</message>
        </then>
        <else>
          <message name="IDS_PLATFORM" desc="Platform">Other</message>
        </else>
      </if>
    </messages>
  </release>
</grit>
`

func loadSample(t *testing.T, opts ...Option) *Root {
	t.Helper()
	root, err := Load(strings.NewReader(sampleGRD), opts...)
	require.NoError(t, err)
	return root
}

func activeIDs(root *Root) []string {
	var ids []string
	for item := range root.ActiveDescendants() {
		ids = append(ids, item.TextualIDs()...)
	}
	return ids
}

func TestLoad_OutputFiles(t *testing.T) {
	root := loadSample(t)

	outputs := root.OutputFiles()
	require.Len(t, outputs, 2)
	assert.Equal(t, "rc_header", outputs[0].Type())
	assert.Equal(t, "grit/sample_resources.h", outputs[0].Attr("filename"))
	assert.Equal(t, "en", outputs[1].Attr("lang"))

	emit := outputs[0].Child("emit")
	require.NotNil(t, emit)
	assert.Equal(t, "prepend", emit.Attrs["emit_type"])
	assert.Equal(t, `#include "base/sample.h"`, emit.GetCdata())
}

func TestLoad_IDAssignment(t *testing.T) {
	root := loadSample(t)
	ids := root.IDMap()

	// includes start at first_id, inactive nodes still numbered
	assert.Equal(t, 1000, ids["IDR_MAIN_HTML"])
	assert.Equal(t, 1001, ids["IDR_WIN_ICON"])
	// messages continue from the previous group
	assert.Equal(t, 1002, ids["IDS_HELLO"])
	// both branches share one id
	assert.Equal(t, 1003, ids["IDS_PLATFORM"])
	assert.Len(t, ids, 4)
}

func TestLoad_IDMapIsACopy(t *testing.T) {
	root := loadSample(t)
	ids := root.IDMap()
	ids["IDS_HELLO"] = 1
	assert.Equal(t, 1002, root.IDMap()["IDS_HELLO"])
}

func TestLoad_ResourceIDs(t *testing.T) {
	ids := ResourceIDs{"sample.grd": {"messages": 5000, "includes": 1}}
	root := loadSample(t, WithSource("sample.grd"), WithResourceIDs(ids))
	m := root.IDMap()

	// first_id attribute wins over the resource ids file
	assert.Equal(t, 1000, m["IDR_MAIN_HTML"])
	assert.Equal(t, 5000, m["IDS_HELLO"])
	assert.Equal(t, 5001, m["IDS_PLATFORM"])
}

func TestLoadResourceIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resource_ids.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sample.grd:\n  includes: 100\n  messages: 200\n"), 0644))

	ids, err := LoadResourceIDs(path)
	require.NoError(t, err)
	first, ok := ids.Lookup("sample.grd", "messages")
	assert.True(t, ok)
	assert.Equal(t, 200, first)
	_, ok = ids.Lookup("other.grd", "messages")
	assert.False(t, ok)

	_, err = LoadResourceIDs(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestActiveDescendants_Conditions(t *testing.T) {
	tests := []struct {
		name    string
		defines map[string]string
		want    []string
	}{
		{
			name: "no defines",
			want: []string{"IDR_MAIN_HTML", "IDS_HELLO", "IDS_PLATFORM"},
		},
		{
			name:    "windows",
			defines: map[string]string{"is_win": "1"},
			want:    []string{"IDR_MAIN_HTML", "IDR_WIN_ICON", "IDS_HELLO", "IDS_PLATFORM"},
		},
		{
			name:    "false value",
			defines: map[string]string{"is_win": "false"},
			want:    []string{"IDR_MAIN_HTML", "IDS_HELLO", "IDS_PLATFORM"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := loadSample(t, WithDefines(tt.defines))
			assert.Equal(t, tt.want, activeIDs(root))
		})
	}
}

func TestActiveDescendants_ThenElse(t *testing.T) {
	cdataOf := func(root *Root) string {
		for item := range root.ActiveDescendants() {
			n := item.(*Node)
			if n.Attr("name") == "IDS_PLATFORM" {
				return n.Cdata
			}
		}
		return ""
	}

	assert.Equal(t, "Windows", cdataOf(loadSample(t, WithDefines(map[string]string{"is_win": "1"}))))
	assert.Equal(t, "Other", cdataOf(loadSample(t, WithDefines(map[string]string{"is_win": "1", "is_arm": "1"}))))
	assert.Equal(t, "Other", cdataOf(loadSample(t)))
}

func TestActiveDescendants_EarlyStop(t *testing.T) {
	root := loadSample(t)
	count := 0
	for range root.ActiveDescendants() {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestConditions(t *testing.T) {
	collect := func(root *Root) map[string]bool {
		got := map[string]bool{}
		for n, ok := range root.Conditions() {
			got[n.Attr("expr")] = ok
		}
		return got
	}

	assert.Equal(t, map[string]bool{
		"is_win":                false,
		"is_win and not is_arm": false,
	}, collect(loadSample(t)))

	assert.Equal(t, map[string]bool{
		"is_win":                true,
		"is_win and not is_arm": true,
	}, collect(loadSample(t, WithDefines(map[string]string{"is_win": "yes"}))))

	assert.Equal(t, map[string]bool{
		"is_win":                true,
		"is_win and not is_arm": false,
	}, collect(loadSample(t, WithDefines(map[string]string{"is_win": "1", "is_arm": "1"}))))
}

func TestConditions_NestedInInactiveIfSkipped(t *testing.T) {
	root, err := Load(strings.NewReader(`<grit>
  <if expr="outer"><if expr="inner"><message name="IDS_X">x</message></if></if>
</grit>`))
	require.NoError(t, err)

	var exprs []string
	for n := range root.Conditions() {
		exprs = append(exprs, n.Attr("expr"))
	}
	assert.Equal(t, []string{"outer"}, exprs)
}

func TestEnter_Bracket(t *testing.T) {
	root := loadSample(t)
	var releases []func()
	for item := range root.ActiveDescendants() {
		releases = append(releases, item.Enter())
	}
	assert.Equal(t, len(releases), root.InUse())
	assert.Equal(t, len(releases), root.Touched())

	for _, release := range releases {
		release()
		release()
	}
	assert.Equal(t, 0, root.InUse())
	assert.Equal(t, len(releases), root.Touched())

	detached := &Node{Name: "message"}
	detached.Enter()()
}

func TestWhitelistSupport(t *testing.T) {
	assert.False(t, loadSample(t).WhitelistSupportEnabled())
	assert.True(t, loadSample(t, WithWhitelistSupport(true)).WhitelistSupportEnabled())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "wrong root", doc: `<resources/>`},
		{name: "empty document", doc: ``},
		{name: "malformed xml", doc: `<grit><outputs></grit>`},
		{name: "bad condition", doc: `<grit><if expr="a and"></if></grit>`},
		{name: "bad first_id", doc: `<grit><messages first_id="x"/></grit>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.IsInvalidGRD(err), "got %v", err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.grd")
	require.NoError(t, os.WriteFile(path, []byte(sampleGRD), 0644))

	root, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sample.grd", root.Source())

	_, err = LoadFile(filepath.Join(t.TempDir(), "nope.grd"))
	assert.Error(t, err)
}
