// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/pridebank/atm-gateway/internal/admin"
	"github.com/pridebank/atm-gateway/internal/config"
	"github.com/pridebank/atm-gateway/internal/esb"
	"github.com/pridebank/atm-gateway/internal/gateway"
	"github.com/pridebank/atm-gateway/transport/tcp"
)

func main() {
	configFile := pflag.StringP("config", "c", "", "Path to config file")
	pflag.Parse()

	// Load Configuration
	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	slog.Info("Starting ATM Gateway...")

	processor := gateway.NewProcessor(esb.NewClient(cfg.Esb))
	server := tcp.NewServer(cfg.Server.Address, cfg.Server.Workers, cfg.Server.ReadTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var adminServer interface{ Close() error }
	if cfg.Admin.Address != "" {
		adminServer = admin.Serve(cfg.Admin.Address)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(ctx, processor.Process)
	}()

	// Wait for Signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Shutting down...", "signal", sig.String())
	case err := <-errChan:
		if err != nil {
			slog.Error("Server stopped with error", "err", err)
		}
	}

	cancel()
	server.Close()
	if adminServer != nil {
		adminServer.Close()
	}
	slog.Info("Goodbye.")
}

func setupLogger(cfg config.LogConfig) {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.File != "" && cfg.File != "-" {
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Printf("Failed to open log file, falling back to stdout: %v\n", err)
			handler = slog.NewTextHandler(os.Stdout, opts)
		} else {
			handler = slog.NewTextHandler(f, opts)
		}
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
