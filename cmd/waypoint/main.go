// Command waypoint checks tree definitions and traces how requests move
// through them without a UI.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
