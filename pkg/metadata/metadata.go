// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	_ "embed"
	"errors"
	"fmt"
	"math/big"

	"cuelang.org/go/cue"
	"github.com/zclconf/go-cty/cty"

	"github.com/treesync/treesync/pkg/cueutil"
	"github.com/treesync/treesync/pkg/instance"
)

// FileName is the reserved name of a directory's metadata init file.
const FileName = "init.meta.json"

const (
	fieldKind       = "kind"
	fieldProperties = "properties"
)

//go:embed metadata_schema.cue
var schema []byte

// InstanceMetadata is the typed content of a metadata file.
type InstanceMetadata struct {
	// Kind is the node kind, empty when the document does not name one.
	Kind instance.Kind
	// Properties are the declared properties in declaration order.
	Properties []instance.Property
}

// Decode parses data as a metadata document. Malformed JSON yields a
// *ParseError; a document of the wrong shape (unknown fields, null or
// structured property values, a non-object) yields a *SchemaError. A file
// over cueutil.DefaultMaxFileSize yields a *cueutil.FileSizeError.
//
// Repeated keys are unified rather than overwritten: repeating a key with
// the same value is accepted, with a different value it is a *ParseError
// ("conflicting values").
func Decode(data []byte, filename string) (*InstanceMetadata, error) {
	res, err := cueutil.Compile(schema, data, "#InstanceMetadata",
		cueutil.WithFilename(filename),
		cueutil.WithJSON(),
	)
	if err != nil {
		var (
			syntaxErr *cueutil.SyntaxError
			valErr    *cueutil.ValidationError
		)
		switch {
		case errors.As(err, &syntaxErr):
			return nil, &ParseError{Path: filename, Cause: err}
		case errors.As(err, &valErr):
			return nil, &SchemaError{Path: filename, Cause: err}
		default:
			return nil, err
		}
	}

	md := &InstanceMetadata{}
	iter, err := res.Unified.Fields()
	if err != nil {
		return nil, &SchemaError{Path: filename, Cause: err}
	}
	for iter.Next() {
		switch iter.Selector().Unquoted() {
		case fieldKind:
			kind, err := iter.Value().String()
			if err != nil {
				return nil, &SchemaError{Path: filename, Cause: err}
			}
			md.Kind = instance.Kind(kind)
		case fieldProperties:
			props, err := decodeProperties(iter.Value())
			if err != nil {
				return nil, &SchemaError{Path: filename, Cause: err}
			}
			md.Properties = props
		}
	}
	return md, nil
}

func decodeProperties(v cue.Value) ([]instance.Property, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, err
	}

	var props []instance.Property
	for iter.Next() {
		name := iter.Selector().Unquoted()
		if iter.Value().Kind() == cue.StringKind {
			s, err := iter.Value().String()
			if err != nil {
				return nil, fmt.Errorf("properties.%s: %w", name, err)
			}
			props = append(props, instance.String(name, s))
			continue
		}
		value, err := primitive(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("properties.%s: %w", name, err)
		}
		props = append(props, instance.Property{Name: name, Value: value})
	}
	return props, nil
}

func primitive(v cue.Value) (cty.Value, error) {
	switch v.Kind() {
	case cue.BoolKind:
		b, err := v.Bool()
		return cty.BoolVal(b), err
	case cue.IntKind:
		i, err := v.Int(nil)
		if err != nil {
			return cty.NilVal, err
		}
		return cty.NumberVal(new(big.Float).SetInt(i)), nil
	case cue.FloatKind:
		f, err := v.Float64()
		return cty.NumberFloatVal(f), err
	case cue.StringKind:
		s, err := v.String()
		return cty.StringVal(s), err
	default:
		return cty.NilVal, fmt.Errorf("unsupported value kind %s", v.Kind())
	}
}

// Instantiate builds the node described by md, named name.
//
// The node is created first, with md.Kind or a Folder, so the kind is settled
// and the name is applied even when there are no properties. Properties are
// then applied one by one in declaration order; the first failure is returned
// unchanged and no node is produced.
func Instantiate(factory instance.Factory, md *InstanceMetadata, name string) (*instance.Node, error) {
	kind := md.Kind
	if kind == "" {
		kind = instance.KindFolder
	}

	n, err := factory.Create(kind, instance.String(instance.PropName, name))
	if err != nil {
		return nil, err
	}

	for _, p := range md.Properties {
		if err := n.SetProperty(p); err != nil {
			return nil, err
		}
	}
	return n, nil
}
