package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/qyinm/gemtui/api"
	"github.com/qyinm/gemtui/config"
	"github.com/qyinm/gemtui/logging"
	"github.com/qyinm/gemtui/mcpsrv"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	var configPath string
	cmd := &cobra.Command{
		Use:           "gemtui-mcp-stdio",
		Short:         "Serve jewelry price comparison tools over stdio MCP",
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
		fmt.Fprintf(os.Stderr, "gemtui-mcp-stdio: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	// stdout carries the protocol
	logger, err := logging.NewStderr(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	source := api.New(cfg.APIURL, api.WithTimeout(cfg.HTTPTimeout), api.WithLogger(logger))
	server := mcpsrv.NewServer(source, version, &mcpsrv.ServerOptions{
		EnableAdmin: cfg.MCP.EnableAdmin,
		Local:       true,
		Logger:      logger,
	})

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("stdio mcp server failed: %w", err)
	}
	return nil
}
