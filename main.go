// SPDX-License-Identifier: MPL-2.0

// fops is a developer-workstation toolkit for sweeping build/test cache
// artifacts, building deterministic archives, and pruning git branches.
package main

import cmd "fops-cli/cmd/fops"

func main() {
	cmd.Execute()
}
