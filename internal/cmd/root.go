// Package cmd provides the CLI commands for chatsieve.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chatsieve/chatsieve/internal/chatlog"
	"github.com/chatsieve/chatsieve/internal/config"
	"github.com/chatsieve/chatsieve/internal/tuilog"
)

// global flags
var (
	cfgPath    string
	dbPath     string
	logPath    string
	outputJSON bool
)

// cfg is loaded once before any command runs.
var cfg *config.Config

// rootCmd is the root command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "chatsieve",
	Short: "Filter chat archives and preview extraction blocks",
	Long: `chatsieve imports chat exports into a local archive and extracts
context blocks around the messages that match a filter condition.

Running without a subcommand launches the interactive TUI.

Examples:
  chatsieve                               # Launch TUI
  chatsieve import family export.jsonl    # Import a JSONL chat export
  chatsieve chats                         # List imported chats
  chatsieve export family -k vacation     # Export a filtered transcript`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgPath != "" {
			cfg, err = config.LoadFrom(cfgPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.DBPath = dbPath
		}
		if logPath == "" {
			logPath = cfg.LogFile
		}
		return tuilog.Init(logPath)
	},
	RunE: runTUI,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.chatsieve/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "archive database path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "write debug logs to this file")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output JSON where supported")
}

// openStore opens the archive read-write, creating it if needed.
func openStore() (*chatlog.Store, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("no database path configured")
	}
	return chatlog.Open(cfg.DBPath)
}

func configDir() (string, error) {
	return config.Dir()
}
