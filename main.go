package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/qyinm/gemtui/api"
	"github.com/qyinm/gemtui/config"
	"github.com/qyinm/gemtui/imageref"
	"github.com/qyinm/gemtui/logging"
	"github.com/qyinm/gemtui/types"
	"github.com/qyinm/gemtui/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

type options struct {
	configPath string
	apiURL     string
	logFile    string
	minPrice   int
	maxPrice   int
	category   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "gemtui",
		Short:         "Compare jewelry prices across retailers in the terminal",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	f.StringVar(&opts.apiURL, "api-url", "", "backend base URL (overrides config)")
	f.StringVar(&opts.logFile, "log-file", "", "write logs to this file (overrides config)")
	f.IntVar(&opts.minPrice, "min", types.DefaultRange.Min, "initial minimum price")
	f.IntVar(&opts.maxPrice, "max", types.DefaultRange.Max, "initial maximum price")
	f.StringVar(&opts.category, "category", "all", "initial jewelry type: all, ring, pendant, earring, bracelet")
	return cmd
}

// initialFilter validates the flag-supplied filter with the same rules the
// range selector applies.
func initialFilter(opts options) (types.Filter, error) {
	r := types.PriceRange{Min: opts.minPrice, Max: opts.maxPrice}
	if !r.Valid() {
		return types.Filter{}, fmt.Errorf("invalid price range %d-%d: need %d <= min < max <= %d",
			r.Min, r.Max, types.PriceFloor, types.PriceCeiling)
	}
	c, err := types.ParseCategory(opts.category)
	if err != nil {
		return types.Filter{}, err
	}
	return types.Filter{Range: r, Category: c}, nil
}

func run(ctx context.Context, opts options) error {
	filter, err := initialFilter(opts)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.apiURL != "" {
		cfg.APIURL = opts.apiURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if opts.logFile != "" {
		cfg.LogFile = opts.logFile
	}

	logger, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client := api.New(cfg.APIURL, api.WithTimeout(cfg.HTTPTimeout), api.WithLogger(logger))
	resolver := imageref.NewResolver(cfg.Placeholder, imageref.AssetBase(cfg.AssetBase()))
	logger.Info("starting gemtui",
		zap.String("api_url", client.BaseURL()),
		zap.String("asset_base", cfg.AssetBase()),
		zap.Int("min", filter.Range.Min),
		zap.Int("max", filter.Range.Max),
		zap.Stringer("category", filter.Category),
	)

	m := ui.NewModel(client,
		ui.WithContext(ctx),
		ui.WithLogger(logger),
		ui.WithResolver(resolver),
		ui.WithCurrency(cfg.Currency),
		ui.WithFilter(filter),
	)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		logger.Error("program exited with error", zap.Error(err))
		return err
	}
	return nil
}
