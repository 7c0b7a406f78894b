// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the treesync command line interface.
package cmd
