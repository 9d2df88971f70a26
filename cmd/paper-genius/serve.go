// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Kr-Amritanshu/Paper-Genius/internal/pipeline"
	"github.com/Kr-Amritanshu/Paper-Genius/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the paper API over HTTP",
	Long: `Serve exposes generation, listing, retrieval, PDF download, and deletion
of papers as a JSON API under /api. The server shuts down gracefully on
SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			v, _ := cmd.Flags().GetString("addr")
			viper.Set("server.addr", v)
		}
		svc, cfg, err := openService(cmd.Context(), pipeline.All)
		if err != nil {
			return err
		}
		cleanup := func() {
			if err := svc.Close(); err != nil {
				slog.Error("closing service", "error", err)
			}
		}

		h := server.New(svc, slog.Default()).Handler()
		return server.Run(cmd.Context(), cfg.Server.Addr, h, cleanup, cfg.Server.ShutdownTimeout)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default: server.addr)")

	rootCmd.AddCommand(serveCmd)
}
