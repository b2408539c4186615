// Package main provides the entry point for the hadithsearch CLI.
package main

import (
	"os"

	"github.com/kailas-cloud/hadithsearch/cmd/hadithsearch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
