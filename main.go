// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/boson-compat/boson/cmd/boson"

func main() {
	cmd.Execute()
}
