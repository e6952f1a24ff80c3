package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/chatsieve/chatsieve/internal/export"
	"github.com/chatsieve/chatsieve/internal/filter"
	"github.com/chatsieve/chatsieve/internal/preset"
	"github.com/chatsieve/chatsieve/internal/preview"
)

// export command flags
var (
	exportKeywords []string
	exportSenders  []string
	exportAfter    string
	exportBefore   string
	exportContext  int
	exportOut      string
	exportPreset   string
)

var exportCmd = &cobra.Command{
	Use:   "export <chat-id>",
	Short: "Export a filtered transcript",
	Long: `Export runs a filter condition against a chat and writes the matching
blocks as a plain-text transcript. Use --preset to reuse a saved
condition instead of flags.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chatID := args[0]

		cond, err := exportCondition(chatID)
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		svc := filter.NewLocal(store)
		res, err := svc.FilterByCondition(cmd.Context(), cond)
		if err != nil {
			return err
		}
		if len(res.Blocks) == 0 {
			return fmt.Errorf("no messages matched")
		}

		out := os.Stdout
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		proj := preview.Project(res, 0)
		if err := export.WriteTranscript(out, res, chatID, proj.ShouldShowYear); err != nil {
			return err
		}
		if exportOut != "" {
			fmt.Fprintf(os.Stderr, "wrote %d messages (~%d tokens, %s) to %s\n",
				res.Stats.TotalMessages, proj.EstimatedTokens, proj.TokenStatus, exportOut)
		}
		return nil
	},
}

func exportCondition(chatID string) (filter.Condition, error) {
	if exportPreset != "" {
		dir, err := configDir()
		if err != nil {
			return filter.Condition{}, err
		}
		p, err := preset.NewStore(dir).Get(exportPreset)
		if err != nil {
			return filter.Condition{}, err
		}
		cond := p.Condition()
		cond.ChatID = chatID
		return cond, nil
	}

	cond := filter.Condition{
		ChatID:      chatID,
		Keywords:    exportKeywords,
		SenderIDs:   exportSenders,
		ContextSize: exportContext,
	}
	if exportContext == 0 {
		cond.ContextSize = cfg.ContextSize
	}
	if exportAfter != "" {
		t, err := time.Parse("2006-01-02", exportAfter)
		if err != nil {
			return cond, fmt.Errorf("--after: expected YYYY-MM-DD")
		}
		cond.After = &t
	}
	if exportBefore != "" {
		t, err := time.Parse("2006-01-02", exportBefore)
		if err != nil {
			return cond, fmt.Errorf("--before: expected YYYY-MM-DD")
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		cond.Before = &end
	}
	return cond, nil
}

func init() {
	exportCmd.Flags().StringSliceVarP(&exportKeywords, "keyword", "k", nil, "keyword to match (repeatable, matches any)")
	exportCmd.Flags().StringSliceVarP(&exportSenders, "sender", "s", nil, "sender id to match (repeatable)")
	exportCmd.Flags().StringVar(&exportAfter, "after", "", "only messages on or after this date (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportBefore, "before", "", "only messages on or before this date (YYYY-MM-DD)")
	exportCmd.Flags().IntVarP(&exportContext, "context", "c", 0, "messages of context around each hit (default from config)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "write to a file instead of stdout")
	exportCmd.Flags().StringVar(&exportPreset, "preset", "", "use a saved preset instead of flags")
	rootCmd.AddCommand(exportCmd)
}
