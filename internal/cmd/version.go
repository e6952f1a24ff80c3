package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chatsieve/chatsieve/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if outputJSON {
			return json.NewEncoder(os.Stdout).Encode(version.GetInfo("chatsieve"))
		}
		fmt.Println(version.String("chatsieve"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
