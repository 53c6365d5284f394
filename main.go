// Package main provides a pointer to apexsim's real entry point.
// apexsim is a cycle-accurate simulator for the APEX out-of-order
// superscalar processor.
//
// For the full CLI, use: go run ./cmd/apexsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("apexsim - APEX out-of-order superscalar simulator")
	fmt.Println("")
	fmt.Println("Usage: apexsim [options] <program.asm>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config    Path to timing configuration JSON file")
	fmt.Println("  -cycles    Stop after at most this many cycles (0 = run to HALT)")
	fmt.Println("  -trace     Record a per-cycle retirement trace")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/apexsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/apexsim' instead.")
	}
}
