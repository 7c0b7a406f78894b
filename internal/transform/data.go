// SPDX-License-Identifier: MPL-2.0

package transform

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Data file formats.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// decodeData parses data in the given format into plain Go values: maps,
// slices, strings, bools, numbers and nil.
func decodeData(format, path string, data []byte) (any, error) {
	switch format {
	case FormatJSON:
		expr, err := cuejson.Extract(path, data)
		if err != nil {
			return nil, err
		}
		v := cuecontext.New().BuildExpr(expr)
		if v.Err() != nil {
			return nil, v.Err()
		}
		return cueToGo(v)
	case FormatTOML:
		var out map[string]any
		if err := toml.Unmarshal(data, &out); err != nil {
			return nil, err
		}
		return out, nil
	case FormatYAML:
		var out any
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown data format %q", format)
	}
}

func cueToGo(v cue.Value) (any, error) {
	switch v.Kind() {
	case cue.NullKind:
		return nil, nil
	case cue.BoolKind:
		return v.Bool()
	case cue.IntKind:
		return v.Int64()
	case cue.FloatKind:
		return v.Float64()
	case cue.StringKind:
		return v.String()
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, err
		}
		var out []any
		for iter.Next() {
			item, err := cueToGo(iter.Value())
			if err != nil {
				return nil, err
			}
			out = append(out, item)
		}
		return out, nil
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, err
		}
		out := map[string]any{}
		for iter.Next() {
			item, err := cueToGo(iter.Value())
			if err != nil {
				return nil, err
			}
			out[iter.Selector().Unquoted()] = item
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value of kind %s", v.Kind())
	}
}
