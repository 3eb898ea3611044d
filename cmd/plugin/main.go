package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/canopy-network/go-plugin/config"
	"github.com/canopy-network/go-plugin/contract"
	"github.com/canopy-network/go-plugin/logging"
	"go.uber.org/zap"
)

/* This file wires configuration, logging, the protocol engine, and the send
   contract together, starts the engine, and shuts down cleanly on SIGINT/SIGTERM
   (§4.8). Everything it touches is external collaboration per §1; the process
   itself does no business logic. */

func main() {
	dataDir := flag.String("data-dir", os.Getenv("CANOPY_DATA_DIR"), "plugin data directory (holds plugin.sock)")
	flag.Parse()

	if *dataDir == "" {
		panic("data-dir is required (set --data-dir or CANOPY_DATA_DIR)")
	}

	cfg, err := config.Load(*dataDir)
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	clientCfg := contract.ClientConfig{
		SocketPath:        cfg.SocketPath(),
		ReconnectInterval: cfg.ReconnectInterval(),
		ConnectionTimeout: cfg.ConnectionTimeout(),
		RequestTimeout:    cfg.RequestTimeout(),
		HardCloseTimeout:  cfg.HardCloseTimeout(),
	}

	client := contract.NewPluginClient(clientCfg, logger)
	c := contract.NewContract(&contract.PluginFSMConfig{ChainId: cfg.ChainID}, client)
	client.SetHandler(c)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting send plugin", zap.String("socket", cfg.SocketPath()), zap.Uint64("chain_id", cfg.ChainID))
	client.Start(ctx)

	<-ctx.Done()
	logger.Info("shutting down send plugin")
	if err := client.Close(); err != nil {
		logger.Warn("error closing plugin client", zap.Error(err))
	}
}
