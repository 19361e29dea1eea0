package vdom

import "sort"

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // <div>, <button>, etc.
	KindText                  // Plain text node
	KindFragment              // Grouping without wrapper
	KindRaw                   // Raw HTML (dangerous)
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// VNode is a node of the page tree.
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element tag name (e.g., "div")
	Props    Props    // Attributes
	Children []*VNode // Child nodes
	Key      string   // Identity among siblings
	Text     string   // For KindText and KindRaw
}

// Props holds element attributes.
type Props map[string]any

// Keys returns the attribute names in sorted order.
func (p Props) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Attr returns the value of the named attribute.
func (v *VNode) Attr(name string) (any, bool) {
	if v == nil || v.Props == nil {
		return nil, false
	}
	val, ok := v.Props[name]
	return val, ok
}

// Find returns the first node in the subtree, in document order, for
// which match returns true.
func (v *VNode) Find(match func(*VNode) bool) *VNode {
	if v == nil {
		return nil
	}
	if match(v) {
		return v
	}
	for _, c := range v.Children {
		if found := c.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every node in the subtree for which match returns true.
func (v *VNode) FindAll(match func(*VNode) bool) []*VNode {
	var out []*VNode
	v.Walk(func(n *VNode) {
		if match(n) {
			out = append(out, n)
		}
	})
	return out
}

// Walk calls fn for every node in the subtree in document order.
func (v *VNode) Walk(fn func(*VNode)) {
	if v == nil {
		return
	}
	fn(v)
	for _, c := range v.Children {
		c.Walk(fn)
	}
}

// TextContent returns the concatenated text of the subtree.
func (v *VNode) TextContent() string {
	if v == nil {
		return ""
	}
	if v.Kind == KindText {
		return v.Text
	}
	var out string
	for _, c := range v.Children {
		out += c.TextContent()
	}
	return out
}

// ByTestID matches element nodes whose data-testid equals id.
func ByTestID(id string) func(*VNode) bool {
	return func(v *VNode) bool {
		if v.Kind != KindElement {
			return false
		}
		got, ok := v.Props["data-testid"].(string)
		return ok && got == id
	}
}
