package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notepid/twilight_qwk/internal/cache"
	"github.com/notepid/twilight_qwk/internal/httpapi"
	"github.com/notepid/twilight_qwk/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the JSON API. Packets are uploaded with POST /api/packets and kept in
an in-memory cache; nothing is written to disk.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var servePort int

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides server.http_port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if servePort != 0 {
		cfg.Server.HTTPPort = servePort
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := httpapi.NewServer(cfg, cache.New(cfg.Server.CacheEntries))
	err := srv.ListenAndServe(ctx)
	logger.Info("HTTP API stopped", zap.Error(err))
	return err
}
