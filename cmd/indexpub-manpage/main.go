package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/indexpub/cmd/indexpub"
	"github.com/arthur-debert/indexpub/internal/version"
)

func main() {
	rootCmd := indexpub.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "INDEXPUB",
		Section: "1",
		Source:  "indexpub " + version.Version,
		Manual:  "indexpub manual",
	}

	err := doc.GenMan(rootCmd, header, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
