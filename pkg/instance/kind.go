// SPDX-License-Identifier: MPL-2.0

package instance

import (
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/zclconf/go-cty/cty"
)

type (
	// Kind is a node type tag such as "Folder" or "ModuleScript".
	Kind string

	// Setter applies an already type-checked value to a node. Setters may
	// validate further and may update other properties through Node.Assign.
	Setter func(n *Node, value cty.Value) error

	// PropertySpec declares one writable property of a kind.
	PropertySpec struct {
		// Name is the property name as it appears in metadata files.
		Name string
		// Type is the primitive cty type values must have (cty.String, cty.Number or cty.Bool).
		Type cty.Type
		// Default is the value a freshly created node starts with.
		Default cty.Value
		// Set applies the value. A nil Set stores the value as is.
		Set Setter
	}

	// KindSpec declares a kind and its own properties. Properties of Base are inherited.
	KindSpec struct {
		Name Kind
		// Base is the parent kind, empty for a root kind.
		Base Kind
		// Abstract kinds only serve as bases and cannot be created.
		Abstract bool
		// Properties are the properties introduced by this kind.
		Properties []PropertySpec
	}

	// Property is a name and value pair applied to a node in order.
	// Properties built with String also carry the exact text, which cty
	// would otherwise store NFC-normalized.
	Property struct {
		Name  string
		Value cty.Value

		text  string
		exact bool
	}

	// Factory creates nodes of a registered kind.
	Factory interface {
		Create(kind Kind, props ...Property) (*Node, error)
	}

	// Registry holds kind specs and their flattened property dispatch tables.
	// It is safe for concurrent use.
	Registry struct {
		mu    sync.RWMutex
		kinds map[Kind]*kindEntry
	}

	kindEntry struct {
		spec      KindSpec
		ancestors []Kind
		props     map[string]*PropertySpec
		order     []string
	}
)

// String returns the kind name.
func (k Kind) String() string { return string(k) }

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[Kind]*kindEntry)}
}

// Register validates spec and adds it to the registry. The spec's base must
// already be registered. Every property needs a name unique across the kind
// and its ancestors, a primitive type and a non-null default of that type.
func (r *Registry) Register(spec KindSpec) error {
	if strings.TrimSpace(string(spec.Name)) == "" {
		return &InvalidKindSpecError{Kind: spec.Name, Reason: "kind name must be non-empty"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.kinds[spec.Name]; exists {
		return &InvalidKindSpecError{Kind: spec.Name, Reason: "kind already registered"}
	}

	entry := &kindEntry{
		spec:      spec,
		ancestors: []Kind{spec.Name},
		props:     make(map[string]*PropertySpec),
	}

	if spec.Base != "" {
		base, ok := r.kinds[spec.Base]
		if !ok {
			return &InvalidKindSpecError{Kind: spec.Name, Reason: "unknown base kind " + string(spec.Base)}
		}
		entry.ancestors = append(entry.ancestors, base.ancestors...)
		for _, name := range base.order {
			entry.props[name] = base.props[name]
			entry.order = append(entry.order, name)
		}
	}

	for i := range spec.Properties {
		prop := spec.Properties[i]
		if strings.TrimSpace(prop.Name) == "" {
			return &InvalidKindSpecError{Kind: spec.Name, Reason: "property name must be non-empty"}
		}
		if _, dup := entry.props[prop.Name]; dup {
			return &InvalidKindSpecError{Kind: spec.Name, Reason: "property " + prop.Name + " is declared twice"}
		}
		if !prop.Type.IsPrimitiveType() {
			return &InvalidKindSpecError{Kind: spec.Name, Reason: "property " + prop.Name + " must have a primitive type"}
		}
		if prop.Default.IsNull() || !prop.Default.IsKnown() {
			return &InvalidKindSpecError{Kind: spec.Name, Reason: "property " + prop.Name + " needs a default value"}
		}
		if !prop.Default.Type().Equals(prop.Type) {
			return &InvalidKindSpecError{
				Kind:   spec.Name,
				Reason: "default of " + prop.Name + " is " + prop.Default.Type().FriendlyName() + ", want " + prop.Type.FriendlyName(),
			}
		}
		if prop.Set == nil {
			prop.Set = storeSetter(prop.Name)
		}
		entry.props[prop.Name] = &prop
		entry.order = append(entry.order, prop.Name)
	}

	r.kinds[spec.Name] = entry
	return nil
}

// MustRegister is like Register but panics on error. It is meant for
// package-level kind tables that are known to be valid.
func (r *Registry) MustRegister(specs ...KindSpec) {
	for _, spec := range specs {
		if err := r.Register(spec); err != nil {
			panic(err)
		}
	}
}

// Create returns a new node of kind with its defaults, then applies props in order.
func (r *Registry) Create(kind Kind, props ...Property) (*Node, error) {
	entry, ok := r.lookup(kind)
	if !ok {
		return nil, &UnsupportedKindError{Kind: kind}
	}
	if entry.spec.Abstract {
		return nil, &UnsupportedKindError{Kind: kind, Abstract: true}
	}

	n := newNode(entry)
	for _, p := range props {
		if err := n.SetProperty(p); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// String returns a string property that keeps s byte for byte.
func String(name, s string) Property {
	return Property{Name: name, Value: cty.StringVal(s), text: s, exact: true}
}

// Text returns the exact string of a string property, or "" for other types.
func (p Property) Text() string {
	if p.exact {
		return p.text
	}
	if !p.Value.IsNull() && p.Value.IsKnown() && p.Value.Type().Equals(cty.String) {
		return p.Value.AsString()
	}
	return ""
}

// GoValue is GoValue(p.Value) with strings taken from Text.
func (p Property) GoValue() any {
	if p.exact {
		return p.text
	}
	return GoValue(p.Value)
}

// Format is FormatValue(p.Value) with strings taken from Text.
func (p Property) Format() string {
	if p.exact {
		return strconv.Quote(p.text)
	}
	return FormatValue(p.Value)
}

// Has reports whether kind is registered, abstract or not.
func (r *Registry) Has(kind Kind) bool {
	_, ok := r.lookup(kind)
	return ok
}

// IsA reports whether kind is base or derives from it.
func (r *Registry) IsA(kind, base Kind) bool {
	entry, ok := r.lookup(kind)
	if !ok {
		return false
	}
	return slices.Contains(entry.ancestors, base)
}

// Kinds returns all registered kind specs sorted by name.
func (r *Registry) Kinds() []KindSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]KindSpec, 0, len(r.kinds))
	for _, entry := range r.kinds {
		specs = append(specs, entry.spec)
	}
	slices.SortFunc(specs, func(a, b KindSpec) int { return strings.Compare(string(a.Name), string(b.Name)) })
	return specs
}

// Properties returns the flattened property table of kind, inherited
// properties first, in declaration order.
func (r *Registry) Properties(kind Kind) []PropertySpec {
	entry, ok := r.lookup(kind)
	if !ok {
		return nil
	}
	return entry.properties()
}

func (r *Registry) lookup(kind Kind) (*kindEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.kinds[kind]
	return entry, ok
}

func (e *kindEntry) properties() []PropertySpec {
	specs := make([]PropertySpec, 0, len(e.order))
	for _, name := range e.order {
		specs = append(specs, *e.props[name])
	}
	return specs
}

func storeSetter(name string) Setter {
	return func(n *Node, value cty.Value) error {
		n.Assign(name, value)
		return nil
	}
}
