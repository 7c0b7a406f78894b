// SPDX-License-Identifier: MPL-2.0

package instance

import (
	"slices"

	"github.com/google/uuid"
	"github.com/tidwall/btree"
	"github.com/zclconf/go-cty/cty"
)

// Node is one element of the synchronized tree. A node is owned by whoever
// created it until it is parented; from then on its parent owns it.
// Nodes are not safe for concurrent mutation.
type Node struct {
	id       uuid.UUID
	kind     *kindEntry
	name     string
	source   string
	props    *btree.Map[string, cty.Value]
	texts    map[string]string
	parent   *Node
	children []*Node
}

func newNode(kind *kindEntry) *Node {
	n := &Node{
		id:    uuid.Must(uuid.NewV7()),
		kind:  kind,
		props: btree.NewMap[string, cty.Value](0),
	}
	for _, name := range kind.order {
		n.props.Set(name, kind.props[name].Default)
	}
	return n
}

// ID returns the node identity. Two reconciliations of the same tree produce
// nodes with different IDs.
func (n *Node) ID() uuid.UUID { return n.id }

// Kind returns the node kind.
func (n *Node) Kind() Kind { return n.kind.spec.Name }

// IsA reports whether the node's kind is base or derives from it.
func (n *Node) IsA(base Kind) bool { return slices.Contains(n.kind.ancestors, base) }

// Name returns the node name.
func (n *Node) Name() string { return n.name }

// Source returns the path of the file the node was produced from, if any.
func (n *Node) Source() string { return n.source }

// SetSource records the path of the file the node was produced from.
func (n *Node) SetSource(path string) { n.source = path }

// Parent returns the parent node, nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list in attachment order.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// FindChild returns the first child named name.
func (n *Node) FindChild(name string) (*Node, bool) {
	for _, c := range n.children {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

// Set type-checks value against the kind's property table and runs the setter.
// There is no coercion: a number is never accepted for a string property.
func (n *Node) Set(name string, value cty.Value) error {
	spec, ok := n.kind.props[name]
	if !ok {
		return &PropertyAssignmentError{Kind: n.Kind(), Property: name, Value: value, Reason: "unknown property"}
	}
	if value.IsNull() || !value.IsKnown() {
		return &PropertyAssignmentError{Kind: n.Kind(), Property: name, Value: value, Reason: "value must not be null"}
	}
	if !value.Type().Equals(spec.Type) {
		return &PropertyAssignmentError{
			Kind:     n.Kind(),
			Property: name,
			Value:    value,
			Reason:   "expected " + spec.Type.FriendlyName() + ", got " + value.Type().FriendlyName(),
		}
	}
	return spec.Set(n, value)
}

// SetProperty is Set for p. When p carries exact text and the setter stored
// the value unchanged, the text is kept and Name takes it verbatim.
func (n *Node) SetProperty(p Property) error {
	if err := n.Set(p.Name, p.Value); err != nil {
		return err
	}
	if !p.exact {
		return nil
	}
	if stored, ok := n.props.Get(p.Name); !ok || !stored.RawEquals(p.Value) {
		return nil
	}
	if n.texts == nil {
		n.texts = make(map[string]string)
	}
	n.texts[p.Name] = p.text
	if p.Name == PropName {
		n.name = p.text
	}
	return nil
}

// Assign stores value without type checks or setters. It exists for setters
// that keep dependent properties in step; everything else should call Set.
func (n *Node) Assign(name string, value cty.Value) {
	n.props.Set(name, value)
	delete(n.texts, name)
	if name == PropName {
		n.name = value.AsString()
	}
}

// Property returns the current value of a property.
func (n *Node) Property(name string) (cty.Value, bool) {
	return n.props.Get(name)
}

// Text returns a string property exactly as it was given. Values that only
// went through cty come back NFC-normalized.
func (n *Node) Text(name string) (string, bool) {
	if t, ok := n.texts[name]; ok {
		return t, true
	}
	v, ok := n.props.Get(name)
	if !ok || v.IsNull() || !v.Type().Equals(cty.String) {
		return "", false
	}
	return v.AsString(), true
}

// Properties returns a snapshot of all properties sorted by name.
func (n *Node) Properties() []Property {
	props := make([]Property, 0, n.props.Len())
	n.props.Scan(func(name string, value cty.Value) bool {
		p := Property{Name: name, Value: value}
		if t, ok := n.texts[name]; ok {
			p.text, p.exact = t, true
		}
		props = append(props, p)
		return true
	})
	return props
}

// SetParent detaches the node from its current parent and appends it to
// parent's children. A nil parent only detaches.
func (n *Node) SetParent(parent *Node) error {
	for p := parent; p != nil; p = p.parent {
		if p == n {
			return ErrParentCycle
		}
	}
	if n.parent == parent && parent != nil {
		return nil
	}

	if n.parent != nil {
		siblings := n.parent.children
		if i := slices.Index(siblings, n); i >= 0 {
			n.parent.children = slices.Delete(siblings, i, i+1)
		}
	}
	n.parent = parent
	if parent != nil {
		parent.children = append(parent.children, n)
	}
	return nil
}
