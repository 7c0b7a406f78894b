// SPDX-License-Identifier: MPL-2.0

// Package instance defines the synchronized node tree and the node factory.
//
// A Node carries a kind, a name, a set of typed properties and an ordered list
// of children. Kinds are registered in a Registry together with a dispatch
// table of properties: each property has a primitive cty.Type, a default and
// a setter. Assignments are checked against the declared type without any
// coercion, and unknown property names are rejected, so a metadata file can
// never silently set something that does not exist.
//
// File organization:
//   - kind.go: Kind, KindSpec, PropertySpec and Registry (registration and Create)
//   - builtin.go: the built-in kinds returned by DefaultRegistry
//   - node.go: Node and parenting
//   - compare.go: Walk, Equal and value formatting helpers
//   - errors.go: error taxonomy
package instance
