// kanata - Kanata pipeline trace tool
//
// kanata decodes the Kanata pipeline trace format, reports malformed
// records, and summarises what the traced pipeline did.
package main

import (
	"os"

	"github.com/ccollicutt/kanata/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
