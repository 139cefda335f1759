// Package main provides the swprops CLI.
package main

import "github.com/mesh-intelligence/swprops/internal/cli"

func main() {
	cli.Execute()
}
