package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "doclingctl",
		Short: "Convert document images to DocTags, Markdown, HTML and plain text",
	}

	root.AddCommand(convertCmd())
	root.AddCommand(snapCmd())
	root.AddCommand(pasteCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
