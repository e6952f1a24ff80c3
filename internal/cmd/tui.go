package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chatsieve/chatsieve/internal/filter"
	"github.com/chatsieve/chatsieve/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive archive browser",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	return tui.Run(store, filter.NewLocal(store), cfg.ContextSize)
}
