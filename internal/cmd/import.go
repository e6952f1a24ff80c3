package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chatsieve/chatsieve/internal/chatlog"
)

var importChatName string

var importCmd = &cobra.Command{
	Use:   "import <chat-id> <export.jsonl>",
	Short: "Import a JSONL chat export into the archive",
	Long: `Import reads a JSONL chat export (one message object per line),
sorts it by timestamp, segments it into conversation sessions, and
replaces any previous import of the same chat.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		chatID, path := args[0], args[1]

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		msgs, err := chatlog.ReadMessages(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		name := importChatName
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		chat := chatlog.Chat{ID: chatID, Name: name}
		if err := store.ImportMessages(cmd.Context(), chat, msgs); err != nil {
			return err
		}
		fmt.Printf("imported %d messages into %s\n", len(msgs), chatID)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVarP(&importChatName, "name", "n", "", "display name for the chat (default: file name)")
	rootCmd.AddCommand(importCmd)
}
