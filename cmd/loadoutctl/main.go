// Command loadoutctl manages the loadouts stored by the engine.
package main

import (
	"fmt"
	"os"

	"github.com/telephono/persistent-loadout/internal/ctl"
)

func main() {
	app := ctl.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
