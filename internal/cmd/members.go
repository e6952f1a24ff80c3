package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var membersCmd = &cobra.Command{
	Use:   "members <chat-id>",
	Short: "List a chat's members with activity stats",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		members, err := store.Members(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if outputJSON {
			return json.NewEncoder(os.Stdout).Encode(members)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tMESSAGES\tFIRST\tLAST")
		for _, m := range members {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
				m.ID, m.Name, m.MessageCount,
				m.FirstTs.Local().Format("2006-01-02"),
				m.LastTs.Local().Format("2006-01-02"))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(membersCmd)
}
