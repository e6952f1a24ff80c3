package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/chatsieve/chatsieve/internal/filter"
	"github.com/chatsieve/chatsieve/internal/preset"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Manage saved filter conditions",
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := presetStore()
		if err != nil {
			return err
		}
		presets, err := store.List()
		if err != nil {
			return err
		}

		if outputJSON {
			return json.NewEncoder(os.Stdout).Encode(presets)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tKEYWORDS\tSENDERS\tCONTEXT")
		for _, p := range presets {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
				p.Name,
				strings.Join(p.Keywords, ","),
				strings.Join(p.SenderIDs, ","),
				p.ContextSize)
		}
		return w.Flush()
	},
}

var presetsSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save a filter condition under a name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := presetStore()
		if err != nil {
			return err
		}

		cond := filter.Condition{
			Keywords:    presetKeywords,
			SenderIDs:   presetSenders,
			ContextSize: presetContext,
		}
		if presetAfter != "" {
			t, err := time.Parse("2006-01-02", presetAfter)
			if err != nil {
				return fmt.Errorf("--after: expected YYYY-MM-DD")
			}
			cond.After = &t
		}
		if len(cond.Keywords) == 0 && len(cond.SenderIDs) == 0 && cond.After == nil {
			return fmt.Errorf("preset needs at least one of --keyword, --sender, --after")
		}
		return store.Put(preset.FromCondition(args[0], cond))
	},
}

var presetsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := presetStore()
		if err != nil {
			return err
		}
		return store.Delete(args[0])
	},
}

func presetStore() (*preset.Store, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	return preset.NewStore(dir), nil
}

// presets save flags
var (
	presetKeywords []string
	presetSenders  []string
	presetAfter    string
	presetContext  int
)

func init() {
	presetsSaveCmd.Flags().StringSliceVarP(&presetKeywords, "keyword", "k", nil, "keyword to match (repeatable)")
	presetsSaveCmd.Flags().StringSliceVarP(&presetSenders, "sender", "s", nil, "sender id to match (repeatable)")
	presetsSaveCmd.Flags().StringVar(&presetAfter, "after", "", "only messages on or after this date (YYYY-MM-DD)")
	presetsSaveCmd.Flags().IntVarP(&presetContext, "context", "c", 0, "messages of context around each hit")

	presetsCmd.AddCommand(presetsListCmd, presetsSaveCmd, presetsDeleteCmd)
	rootCmd.AddCommand(presetsCmd)
}
