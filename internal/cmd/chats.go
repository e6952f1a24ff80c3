package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var chatsCmd = &cobra.Command{
	Use:   "chats",
	Short: "List imported chats",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		chats, err := store.Chats(cmd.Context())
		if err != nil {
			return err
		}

		if outputJSON {
			return json.NewEncoder(os.Stdout).Encode(chats)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tMESSAGES\tFROM\tTO")
		for _, c := range chats {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
				c.ID, c.Name, c.MessageCount,
				c.StartTs.Local().Format("2006-01-02"),
				c.EndTs.Local().Format("2006-01-02"))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(chatsCmd)
}
