package grd

// Node is one element of a resource definition tree.
type Node struct {
	Name     string
	Attrs    map[string]string
	Children []*Node
	// Cdata is the element's own character data with surrounding
	// whitespace removed.
	Cdata  string
	Parent *Node

	root *Root
	cond condition // set on <if> nodes only
}

// nodes whose name attribute contributes a textual id
var idNodeNames = map[string]bool{
	"include":   true,
	"message":   true,
	"structure": true,
}

// group nodes that open a new id range
var groupNodeNames = map[string]bool{
	"includes":   true,
	"messages":   true,
	"structures": true,
}

// Attr returns the named attribute, or "" when absent.
func (n *Node) Attr(key string) string {
	return n.Attrs[key]
}

// Type returns the node's type attribute.
func (n *Node) Type() string {
	return n.Attr("type")
}

// GetCdata returns the node's literal text content.
func (n *Node) GetCdata() string {
	return n.Cdata
}

// TextualIDs returns the symbolic names this node contributes to generated headers.
func (n *Node) TextualIDs() []string {
	if !idNodeNames[n.Name] {
		return nil
	}
	if name := n.Attr("name"); name != "" {
		return []string{name}
	}
	return nil
}

// Enter opens the node's scope and returns the function that closes it.
// The returned function is safe to call more than once.
func (n *Node) Enter() (release func()) {
	if n.root == nil {
		return func() {}
	}
	return n.root.enter(n)
}

// Child returns the first direct child with the given element name.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}
