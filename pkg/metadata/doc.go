// SPDX-License-Identifier: MPL-2.0

// Package metadata reads init.meta.json files and turns them into nodes.
//
// A metadata file is a JSON object with an optional "kind" and an optional
// "properties" object of primitive values:
//
//	{"kind": "Model", "properties": {"Size": 3, "Scale": 2}}
//
// Decoding validates the document against an embedded CUE schema before any
// node is built, and keeps properties in the order they were declared so
// Instantiate can apply them in that same order.
package metadata
