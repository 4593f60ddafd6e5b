package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/qyinm/gemtui/api"
	"github.com/qyinm/gemtui/config"
	"github.com/qyinm/gemtui/logging"
	"github.com/qyinm/gemtui/mcpsrv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	var configPath string
	cmd := &cobra.Command{
		Use:           "gemtui-mcp",
		Short:         "Serve jewelry price comparison tools over streamable HTTP MCP",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "gemtui-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.NewStderr(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	source := api.New(cfg.APIURL, api.WithTimeout(cfg.HTTPTimeout), api.WithLogger(logger))
	opts := mcpsrv.ServerOptionsFrom(cfg.MCP)
	opts.Logger = logger
	server := mcpsrv.NewServer(source, version, opts)

	httpServer := &http.Server{
		Addr:              ":" + strings.TrimSpace(cfg.MCP.Port),
		Handler:           mcpsrv.NewMux(server, cfg.MCP, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      0,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", zap.Error(err))
		}
	}()

	logger.Info("gemtui-mcp listening",
		zap.String("addr", httpServer.Addr),
		zap.String("api_url", cfg.APIURL),
		zap.Bool("admin", opts.EnableAdmin),
	)
	err = httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
