package build

import (
	"github.com/teranos/grit/format"
	"github.com/teranos/grit/format/rcheader"
)

// NewRegistry returns the formatters grit ships, with the rc_header
// formatter configured as given.
func NewRegistry(header rcheader.Formatter) *format.Registry {
	r := format.NewRegistry()
	r.Register(rcheader.OutputType, header.Format)
	return r
}
