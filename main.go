// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/treesync/treesync/cmd/treesync"

func main() {
	cmd.Execute()
}
