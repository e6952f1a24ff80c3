package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions <chat-id>",
	Short: "List a chat's conversation segments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		sessions, err := store.Sessions(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if outputJSON {
			return json.NewEncoder(os.Stdout).Encode(sessions)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTART\tEND\tMESSAGES")
		for _, s := range sessions {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\n",
				s.ID,
				s.StartTs.Local().Format("2006-01-02 15:04"),
				s.EndTs.Local().Format("15:04"),
				s.MessageCount)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}
