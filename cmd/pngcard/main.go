// Command pngcard exports and imports cards embedded in PNG images.
package main

import (
	"os"

	"github.com/roach88/pngcard/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
