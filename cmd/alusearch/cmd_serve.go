// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/alusearch/pkg/alloy"
	"github.com/AleutianAI/alusearch/pkg/counter"
	"github.com/AleutianAI/alusearch/pkg/logging"
	"github.com/AleutianAI/alusearch/pkg/session"
	"github.com/AleutianAI/alusearch/services/browser"
	"github.com/AleutianAI/alusearch/services/browser/telemetry"
)

// shutdownGrace is how long in-flight requests get to finish on shutdown.
const shutdownGrace = 10 * time.Second

// runServe starts the alloy browser HTTP service and blocks until SIGINT or
// SIGTERM.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := browser.LoadConfig(configPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(&cfg)

	logger := logging.Setup(logging.Config{
		Level:   cfg.LogLevel,
		Format:  logging.Format(cfg.LogFormat),
		Service: "alusearch-browser",
	})

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := shutdownTelemetry(sctx); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	sessions, err := session.Open(session.Config{
		Dir:      cfg.SessionDir,
		InMemory: cfg.SessionDir == "",
		TTL:      cfg.SessionTTL,
	})
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer sessions.Close()

	cache := alloy.NewCache(cfg.DatasetPath)
	if ds, _, err := cache.Get(); err != nil {
		// The service still starts; /healthz reports degraded and the
		// watcher picks up the file when it appears.
		logger.Warn("dataset not loadable at startup", "error", err)
	} else {
		logger.Info("dataset loaded", "rows", ds.Len())
	}

	server := &browser.Server{
		Dataset:      cache,
		Counter:      counter.New(cfg.CounterPath),
		Sessions:     sessions,
		Logger:       logger,
		CookieMaxAge: int(cfg.SessionTTL / time.Second),
	}

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           browser.NewRouter(server, cfg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.WatchDataset {
		watchPath := cfg.DatasetPath
		if watchPath == "" {
			watchPath = alloy.DefaultPath()
		}
		watcher := alloy.NewWatcher(watchPath, cache, logger)
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}

	g.Go(func() error {
		logger.Info("starting alloy browser", "addr", cfg.ListenAddr)
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return httpSrv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// applyFlagOverrides layers command line flags over the loaded config.
func applyFlagOverrides(cfg *browser.Config) {
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}
	if datasetPath != "" {
		cfg.DatasetPath = datasetPath
	}
	if counterPath != "" {
		cfg.CounterPath = counterPath
	}
	if noWatch {
		cfg.WatchDataset = false
	}
}
