package grd

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/teranos/grit/errors"
)

// DefaultFirstID is where numbering starts when neither a first_id
// attribute nor a resource ids file says otherwise.
const DefaultFirstID = 101

// ResourceIDs maps a GRD file's base name to the first id of each of its
// groups (includes, messages, structures).
//
//	resources.grd:
//	  includes: 1000
//	  messages: 2000
type ResourceIDs map[string]map[string]int

// Lookup returns the first id configured for a group of the named GRD file.
func (ids ResourceIDs) Lookup(grd, group string) (int, bool) {
	groups, ok := ids[grd]
	if !ok {
		return 0, false
	}
	first, ok := groups[group]
	return first, ok
}

// LoadResourceIDs reads a YAML resource ids file.
func LoadResourceIDs(path string) (ResourceIDs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read resource ids %s", path)
	}
	var ids ResourceIDs
	if err := yaml.Unmarshal(data, &ids); err != nil {
		return nil, errors.Wrapf(err, "failed to parse resource ids %s", path)
	}
	return ids, nil
}

// assignIDs numbers every textual id in document order, inactive nodes
// included, so an id does not shift when a condition flips.
func (r *Root) assignIDs() error {
	r.idMap = make(map[string]int)
	next := DefaultFirstID
	var visit func(n *Node) error
	visit = func(n *Node) error {
		if groupNodeNames[n.Name] {
			start, err := r.groupStart(n, next)
			if err != nil {
				return err
			}
			next = start
		}
		for _, tid := range n.TextualIDs() {
			if _, seen := r.idMap[tid]; seen {
				continue
			}
			r.idMap[tid] = next
			next++
		}
		for _, c := range n.Children {
			if err := visit(c); err != nil {
				return err
			}
		}
		return nil
	}
	return visit(r.Top)
}

func (r *Root) groupStart(n *Node, next int) (int, error) {
	if v := n.Attr("first_id"); v != "" {
		first, err := strconv.Atoi(v)
		if err != nil {
			return 0, errors.NewInvalidGRDError("<%s> first_id %q is not an integer", n.Name, v)
		}
		return first, nil
	}
	if first, ok := r.resourceIDs.Lookup(r.source, n.Name); ok {
		return first, nil
	}
	return next, nil
}
