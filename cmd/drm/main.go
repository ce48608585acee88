// Command drm is the content-licensing ledger CLI.
package main

import "github.com/mesh-intelligence/drm/internal/cli"

func main() {
	cli.Execute()
}
