// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
)

// Result is the outcome of a successful Compile.
type Result struct {
	// Unified is the user value unified with the schema definition. Struct
	// fields iterate in the order they were declared in the input.
	Unified cue.Value
	// Filename is the name used in error messages.
	Filename string
}

// Compile performs the 3-step flow: compile the schema, compile the user data
// and unify it with the definition at schemaPath (e.g. "#Config"), then validate.
//
// Input over the size limit yields a *FileSizeError, input that cannot be
// parsed a *SyntaxError, and input that parses but violates the schema a
// *ValidationError.
func Compile(schema, data []byte, schemaPath string, opts ...Option) (*Result, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	filename := options.filename
	if filename == "" {
		filename = "<input>"
	}

	// Early file size check to prevent OOM from huge files
	if err := CheckFileSize(data, options.maxFileSize, filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}
	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, schemaRoot.Err())
	}

	var userValue cue.Value
	if options.json {
		expr, err := cuejson.Extract(filename, data)
		if err != nil {
			return nil, &SyntaxError{FilePath: filename, Cause: err}
		}
		userValue = ctx.BuildExpr(expr)
	} else {
		userValue = ctx.CompileBytes(data, cue.Filename(filename))
	}
	if userValue.Err() != nil {
		return nil, &SyntaxError{FilePath: filename, Cause: userValue.Err()}
	}

	unified := schemaRoot.Unify(userValue)
	if err := unified.Validate(cue.Concrete(options.concrete)); err != nil {
		return nil, FormatError(err, filename)
	}

	return &Result{Unified: unified, Filename: filename}, nil
}

// Decode runs Compile and decodes the unified value into T.
func Decode[T any](schema, data []byte, schemaPath string, opts ...Option) (*T, error) {
	res, err := Compile(schema, data, schemaPath, opts...)
	if err != nil {
		return nil, err
	}

	var out T
	if err := res.Unified.Decode(&out); err != nil {
		return nil, FormatError(err, res.Filename)
	}
	return &out, nil
}
