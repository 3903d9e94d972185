// Command inklyctl is the operator tool for an Inkly deployment: it applies
// migrations, mints development tokens and runs the moderation and
// classification rules against arbitrary text.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
