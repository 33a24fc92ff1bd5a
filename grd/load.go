// Package grd loads GRD resource definition files into an in-memory tree
// and assigns numeric ids to their textual ids.
package grd

import (
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/teranos/grit/errors"
)

// Option configures a Root at load time.
type Option func(*Root)

// WithDefines sets the values <if> conditions are evaluated against.
func WithDefines(defines map[string]string) Option {
	return func(r *Root) {
		for k, v := range defines {
			r.defines[k] = v
		}
	}
}

// WithWhitelistSupport turns whitelist wrapping of resource ids on or off.
func WithWhitelistSupport(enabled bool) Option {
	return func(r *Root) { r.whitelist = enabled }
}

// WithResourceIDs supplies first ids for groups without a first_id attribute.
func WithResourceIDs(ids ResourceIDs) Option {
	return func(r *Root) { r.resourceIDs = ids }
}

// WithSource names the tree; resource ids are looked up under this name.
func WithSource(name string) Option {
	return func(r *Root) { r.source = name }
}

// LoadFile parses the GRD file at path.
func LoadFile(path string, opts ...Option) (*Root, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	opts = append([]Option{WithSource(filepath.Base(path))}, opts...)
	root, err := Load(f, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	return root, nil
}

// Load parses GRD XML from r.
func Load(r io.Reader, opts ...Option) (*Root, error) {
	root := &Root{
		defines: make(map[string]string),
		touched: make(map[*Node]struct{}),
	}
	for _, opt := range opts {
		opt(root)
	}

	top, err := parse(r, root)
	if err != nil {
		return nil, err
	}
	if top.Name != "grit" {
		return nil, errors.WithHint(
			errors.NewInvalidGRDError("root element is <%s>", top.Name),
			"a resource definition file starts with <grit>")
	}
	root.Top = top

	if err := root.assignIDs(); err != nil {
		return nil, err
	}
	return root, nil
}

func parse(r io.Reader, root *Root) (*Node, error) {
	dec := xml.NewDecoder(r)
	var stack []*Node
	var text []*strings.Builder
	var top *Node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrInvalidGRD, err.Error())
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{
				Name:  t.Name.Local,
				Attrs: make(map[string]string, len(t.Attr)),
				root:  root,
			}
			for _, a := range t.Attr {
				n.Attrs[a.Name.Local] = a.Value
			}
			if n.Name == "if" {
				c, err := parseCondition(n.Attr("expr"))
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", lineOf(dec))
				}
				n.cond = c
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				n.Parent = parent
				parent.Children = append(parent.Children, n)
			} else if top == nil {
				top = n
			}
			stack = append(stack, n)
			text = append(text, &strings.Builder{})

		case xml.EndElement:
			n := stack[len(stack)-1]
			n.Cdata = strings.TrimSpace(text[len(text)-1].String())
			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]

		case xml.CharData:
			if len(text) > 0 {
				text[len(text)-1].Write(t)
			}
		}
	}

	if top == nil {
		return nil, errors.NewInvalidGRDError("document has no root element")
	}
	return top, nil
}

func lineOf(dec *xml.Decoder) int {
	line, _ := dec.InputPos()
	return line
}
