// Package main is the entry point for the spruce CLI.
package main

import "spruce.dev/pkg/spruce/cmd"

func main() {
	cmd.Execute()
}
