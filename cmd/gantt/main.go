// Package main is the entry point for the gantt CLI.
package main

import "github.com/wexinc/gantt/cmd/gantt/cmd"

func main() {
	cmd.Execute()
}
