// Command coiz runs Coiz programs: scripts on disk, or an interactive
// read-eval-print loop when given none.
package main

import (
	"fmt"
	"os"

	"github.com/coizioc/coiz/cmd/coiz/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
