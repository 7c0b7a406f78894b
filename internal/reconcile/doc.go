// SPDX-License-Identifier: MPL-2.0

// Package reconcile mirrors a directory tree into a node tree.
//
// Each directory becomes one node. Its identity comes from the first reserved
// init file it contains, checked in priority order: init.lua,
// init.server.lua, init.client.lua, then init.meta.json. A script init turns
// the directory into that script's node, a metadata init into the node the
// metadata describes, and a directory with neither becomes a Folder. Every
// other entry becomes a child: files through the FileTransformer, directories
// recursively. Reserved names never become children.
//
// Reconciliation is all or nothing: the first error aborts the whole walk and
// no tree is returned.
package reconcile
