// SPDX-License-Identifier: MPL-2.0

package main

import cmd "fbbench/cmd/fbbench"

func main() {
	cmd.Execute()
}
