// Command archdraw edits AWS architecture diagrams in the terminal and
// converts them between file formats.
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
