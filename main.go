// SPDX-License-Identifier: MPL-2.0

package main

import cmd "guidekit-cli/cmd/guidekit"

func main() {
	cmd.Execute()
}
