package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/texmerge/cmd/texmerge"
	"github.com/arthur-debert/texmerge/internal/version"
)

func main() {
	rootCmd := texmerge.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "TEXMERGE",
		Section: "1",
		Source:  "texmerge " + version.Version,
		Manual:  "texmerge manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
