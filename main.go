// SPDX-License-Identifier: MPL-2.0

package main

import (
	cmd "github.com/noxdafox/delocate/cmd/delocate"
)

func main() {
	cmd.Execute()
}
