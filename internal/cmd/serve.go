package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chatsieve/chatsieve/internal/filter"
	"github.com/chatsieve/chatsieve/internal/server"
)

// serve command flags
var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the archive over a local HTTP API",
	Long: `Serve exposes chats, sessions, members and the filter operations as
JSON endpoints, plus /metrics for Prometheus scraping.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		host := cfg.Server.Host
		port := cfg.Server.Port
		if serveHost != "" {
			host = serveHost
		}
		if servePort != 0 {
			port = servePort
		}
		addr := fmt.Sprintf("%s:%d", host, port)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Printf("listening on http://%s\n", addr)
		srv := server.New(server.Config{Addr: addr}, store, filter.NewLocal(store))
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (overrides config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
