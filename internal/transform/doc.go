// SPDX-License-Identifier: MPL-2.0

// Package transform turns a single file into a node.
//
// The file's base name decides the rule: Lua scripts become Script,
// LocalScript or ModuleScript nodes holding the file text, plain text becomes
// a StringValue, and JSON, TOML and YAML data files become ModuleScripts that
// return the data as a Lua table. Files matching no rule produce no node.
package transform
