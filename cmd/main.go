package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/Marketen/block-packing-forensics/internal/adapters"
	"github.com/Marketen/block-packing-forensics/internal/application/domain"
	"github.com/Marketen/block-packing-forensics/internal/application/ports"
	"github.com/Marketen/block-packing-forensics/internal/application/services"
	"github.com/Marketen/block-packing-forensics/internal/config"
	"github.com/Marketen/block-packing-forensics/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load config: %v", err)
		os.Exit(1)
	}

	logger.Info("Starting block-packing-forensics")
	logger.Info("Slot range: [%d, %d)", cfg.FromSlot, cfg.ToSlot)
	logger.Info("Graffiti proxy token: %q", cfg.GraffitiToken)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chain := domain.MainnetChainSpec()

	var source ports.BlockSource
	switch cfg.Source {
	case config.SourceBeacon:
		logger.Info("Reading blocks from beacon node %s", cfg.BeaconNodeURL)
		source, err = adapters.NewBeaconHTTPSource(ctx, cfg.BeaconNodeURL)
		if err != nil {
			logger.Error("Failed to create beacon HTTP source: %v", err)
			os.Exit(1)
		}
	default:
		logger.Info("Reading %s blocks from %s", cfg.Encoding, cfg.BlocksDir)
		source = adapters.NewSSZFileSource(cfg.BlocksDir, chain, cfg.Encoding == config.EncodingBlinded)
	}

	analyzer := services.NewAnalyzer(
		source,
		chain,
		services.NewParticipation(),
		cfg.GraffitiToken,
		cfg.Diagnostics,
		os.Stdout,
	)

	// Handle SIGINT / SIGTERM: stop after the slot in progress
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)
	go func() {
		done <- analyzer.Run(ctx, cfg.FromSlot, cfg.ToSlot)
	}()

	select {
	case err = <-done:
	case sig := <-sigCh:
		logger.Warn("Received signal %s, shutting down...", sig)
		cancel()
		err = <-done
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Analysis aborted: %v", err)
		os.Exit(1)
	}
}
