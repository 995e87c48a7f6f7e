// Command loadpatch builds a patch mod that restores quest alias
// conditions dropped by later overrides in a load order.
package main

import "github.com/mesh-intelligence/loadpatch/internal/cli"

func main() {
	cli.Execute()
}
