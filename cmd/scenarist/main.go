// Command scenarist runs tests grouped by scenario.
package main

import (
	"os"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
