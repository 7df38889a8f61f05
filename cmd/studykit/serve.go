// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/studykit/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the study kit HTTP API",
	Long: `Serve exposes study kits over a JSON API for a web front end. Uploads to
POST /api/study-kits/assemble run the full pipeline. If no model API key is
configured the server still starts and answers 503 for uploads.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, false, os.Stdout)
		if err != nil {
			return err
		}
		defer a.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			a.cfg.Server.Addr = addr
		}

		srv := &server.Server{Store: a.store, Log: a.log, Config: a.cfg.Server}
		if err := a.wirePipeline(ctx, nil); err != nil {
			a.log.Warn("assembly disabled", "error", err)
		} else {
			srv.Assembler = a.assembler
		}
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config, :8080)")

	rootCmd.AddCommand(serveCmd)
}
