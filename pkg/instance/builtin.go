// SPDX-License-Identifier: MPL-2.0

package instance

import (
	"github.com/zclconf/go-cty/cty"
)

// Built-in kinds.
const (
	KindInstance           Kind = "Instance"
	KindFolder             Kind = "Folder"
	KindConfiguration      Kind = "Configuration"
	KindModel              Kind = "Model"
	KindLuaSourceContainer Kind = "LuaSourceContainer"
	KindBaseScript         Kind = "BaseScript"
	KindScript             Kind = "Script"
	KindLocalScript        Kind = "LocalScript"
	KindModuleScript       Kind = "ModuleScript"
	KindValueBase          Kind = "ValueBase"
	KindStringValue        Kind = "StringValue"
	KindNumberValue        Kind = "NumberValue"
	KindIntValue           Kind = "IntValue"
	KindBoolValue          Kind = "BoolValue"
)

// Built-in property names.
const (
	PropName       = "Name"
	PropArchivable = "Archivable"
	PropSource     = "Source"
	PropDisabled   = "Disabled"
	PropValue      = "Value"
	PropSize       = "Size"
	PropScale      = "Scale"
)

// DefaultRegistry returns a new registry holding the built-in kinds.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(builtinKinds()...)
	return r
}

// IsScript reports whether n carries script source.
func IsScript(n *Node) bool {
	return n.IsA(KindLuaSourceContainer)
}

func builtinKinds() []KindSpec {
	return []KindSpec{
		{
			Name:     KindInstance,
			Abstract: true,
			Properties: []PropertySpec{
				{Name: PropName, Type: cty.String, Default: cty.StringVal("")},
				{Name: PropArchivable, Type: cty.Bool, Default: cty.True},
			},
		},
		{Name: KindFolder, Base: KindInstance},
		{Name: KindConfiguration, Base: KindInstance},
		{
			Name: KindModel,
			Base: KindInstance,
			Properties: []PropertySpec{
				{Name: PropSize, Type: cty.Number, Default: cty.NumberIntVal(1), Set: setNonNegative(PropSize)},
				{Name: PropScale, Type: cty.Number, Default: cty.NumberIntVal(1), Set: setScale},
			},
		},
		{
			Name:     KindLuaSourceContainer,
			Base:     KindInstance,
			Abstract: true,
			Properties: []PropertySpec{
				{Name: PropSource, Type: cty.String, Default: cty.StringVal("")},
			},
		},
		{
			Name:     KindBaseScript,
			Base:     KindLuaSourceContainer,
			Abstract: true,
			Properties: []PropertySpec{
				{Name: PropDisabled, Type: cty.Bool, Default: cty.False},
			},
		},
		{Name: KindScript, Base: KindBaseScript},
		{Name: KindLocalScript, Base: KindBaseScript},
		{Name: KindModuleScript, Base: KindLuaSourceContainer},
		{Name: KindValueBase, Base: KindInstance, Abstract: true},
		{
			Name:       KindStringValue,
			Base:       KindValueBase,
			Properties: []PropertySpec{{Name: PropValue, Type: cty.String, Default: cty.StringVal("")}},
		},
		{
			Name:       KindNumberValue,
			Base:       KindValueBase,
			Properties: []PropertySpec{{Name: PropValue, Type: cty.Number, Default: cty.Zero}},
		},
		{
			Name:       KindIntValue,
			Base:       KindValueBase,
			Properties: []PropertySpec{{Name: PropValue, Type: cty.Number, Default: cty.Zero, Set: setInteger(PropValue)}},
		},
		{
			Name:       KindBoolValue,
			Base:       KindValueBase,
			Properties: []PropertySpec{{Name: PropValue, Type: cty.Bool, Default: cty.False}},
		},
	}
}

func setNonNegative(name string) Setter {
	return func(n *Node, value cty.Value) error {
		if value.LessThan(cty.Zero).True() {
			return &PropertyAssignmentError{Kind: n.Kind(), Property: name, Value: value, Reason: "must not be negative"}
		}
		n.Assign(name, value)
		return nil
	}
}

func setInteger(name string) Setter {
	return func(n *Node, value cty.Value) error {
		if !value.AsBigFloat().IsInt() {
			return &PropertyAssignmentError{Kind: n.Kind(), Property: name, Value: value, Reason: "must be an integer"}
		}
		n.Assign(name, value)
		return nil
	}
}

// setScale rescales Size relative to the current Scale, so the outcome
// depends on whether Size was assigned before or after Scale.
func setScale(n *Node, value cty.Value) error {
	if !value.GreaterThan(cty.Zero).True() {
		return &PropertyAssignmentError{Kind: n.Kind(), Property: PropScale, Value: value, Reason: "must be positive"}
	}
	current, _ := n.Property(PropScale)
	size, _ := n.Property(PropSize)
	n.Assign(PropSize, size.Multiply(value).Divide(current))
	n.Assign(PropScale, value)
	return nil
}
