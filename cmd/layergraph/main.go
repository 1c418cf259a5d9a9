// Command layergraph builds layered knowledge graphs from document text spans.
package main

import (
	"fmt"
	"os"

	"github.com/ppiankov/layergraph/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}
