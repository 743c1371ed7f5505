// Package main is the entry point for the testjson application
package main

import "github.com/ethpandaops/testjson/cmd"

func main() {
	cmd.Execute()
}
