// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE compile-and-validate helpers.
//
// The package consolidates the 3-step flow used for metadata files and the
// configuration file:
//
//  1. Compile the embedded schema
//  2. Compile (or, for JSON input, strictly extract) user data and unify with the schema
//  3. Validate, then hand back the unified value for ordered traversal or decoding
//
// # Usage
//
//	//go:embed metadata_schema.cue
//	var schema []byte
//
//	res, err := cueutil.Compile(schema, data, "#InstanceMetadata",
//	    cueutil.WithFilename("init.meta.json"),
//	    cueutil.WithJSON(),
//	)
//	if err != nil {
//	    return nil, err // *SyntaxError or *ValidationError
//	}
//	iter, _ := res.Unified.Fields()
package cueutil
