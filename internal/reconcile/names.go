// SPDX-License-Identifier: MPL-2.0

package reconcile

import (
	"slices"

	"github.com/treesync/treesync/pkg/metadata"
)

// MetadataInitName is the reserved name of a directory's metadata init file.
const MetadataInitName = metadata.FileName

// ScriptInitNames are the reserved script init names in priority order.
var ScriptInitNames = []string{"init.lua", "init.server.lua", "init.client.lua"}

// InitCandidates returns every reserved init name in priority order: script
// inits first, then the metadata init.
func InitCandidates() []string {
	return append(slices.Clone(ScriptInitNames), MetadataInitName)
}

// IsReserved reports whether name is a reserved init name. Matching is exact
// and case-sensitive.
func IsReserved(name string) bool {
	return name == MetadataInitName || slices.Contains(ScriptInitNames, name)
}

// IsScriptInit reports whether name is one of the script init names.
func IsScriptInit(name string) bool {
	return slices.Contains(ScriptInitNames, name)
}
