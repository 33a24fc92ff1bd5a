package format

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teranos/grit/grd"
)

func noop(grd.Tree, string, string) iter.Seq2[string, error] {
	return func(func(string, error) bool) {}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Lookup("rc_header")
	assert.False(t, ok)

	r.Register("rc_header", noop)
	r.Register("data_package", noop)

	fn, ok := r.Lookup("rc_header")
	assert.True(t, ok)
	assert.NotNil(t, fn)
	assert.Equal(t, []string{"data_package", "rc_header"}, r.Types())

	assert.Panics(t, func() { r.Register("rc_header", noop) })
}
