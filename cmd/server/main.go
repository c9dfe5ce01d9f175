// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Attachment Bridge — Conversion & Forwarding Gateway
//
// Entry point for the gateway service. It:
//  1. Loads configuration from config.yaml
//  2. Serves the conversion/forwarding endpoints behind a shared-secret key
//  3. Serves an unauthenticated liveness probe at /health
//  4. Handles graceful shutdown on SIGTERM/SIGINT
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/finbridge/docgateway/internal/config"
	"github.com/finbridge/docgateway/internal/gateway"
)

func main() {
	// Structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("starting attachment gateway")

	// --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"port", cfg.Port,
		"max_body_bytes", cfg.MaxBodyBytes,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Gateway Handler ---
	handler := gateway.NewHandler(gateway.HandlerConfig{
		APIKey:       cfg.APIKey,
		MaxBodyBytes: cfg.MaxBodyBytes,
	})

	ready, err := gateway.Serve(ctx, cfg.Port, handler)
	if err != nil {
		slog.Error("failed to start gateway server", "error", err)
		os.Exit(1)
	}
	<-ready
	slog.Info("gateway ready")

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigCh

	slog.Info("received shutdown signal", "signal", sig)
	cancel()

	slog.Info("attachment gateway stopped")
}
