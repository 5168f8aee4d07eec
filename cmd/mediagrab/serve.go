// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/mediagrab/internal/gateway"
	"github.com/pdiddy/mediagrab/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the extraction gateway over HTTP",
	Long: `Serve exposes POST /api/extract and GET /health. Each extraction request
is relayed once to the backend's /extract endpoint, bounded by the configured
timeout, and answered with the backend's result or a classified error.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().Bool("verbose", false, "log at debug level")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := server.NewLogger(os.Stderr, verbose)

	if cfg.Gateway.ExtractAPIURL == "" {
		logger.Warn("extract_api_url is not set; every extraction will report the backend as unreachable")
	}
	gin.SetMode(gin.ReleaseMode)

	gw := gateway.New(cfg.Gateway, &http.Client{})
	srv := server.New(gw, cfg.Server, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
