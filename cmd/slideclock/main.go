// Command slideclock shows the time and slides it off and back on the
// display whenever the minute changes.
package main

import (
	"os"

	"github.com/go-drift/slideclock/cmd/slideclock/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
