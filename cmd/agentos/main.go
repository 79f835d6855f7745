// Package main provides the agentos CLI for compiling agent profiles.
package main

func main() {
	Execute()
}
