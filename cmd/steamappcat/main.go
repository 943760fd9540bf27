// Command steamappcat maintains and queries a local Steam app catalog.
package main

import (
	"fmt"
	"os"

	"github.com/SteamAutoCracks/Steam-auto-crack/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
