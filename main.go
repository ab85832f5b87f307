// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/hookwire/hookwire/cmd/hookwire"

func main() {
	cmd.Execute()
}
