// chatsieve filters chat archives and previews extraction blocks.
package main

import (
	"os"

	"github.com/chatsieve/chatsieve/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
