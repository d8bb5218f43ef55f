// Command xsr1-gtk shows the XSR1 game in a WebKitGTK window.
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr, launchShell))
}
