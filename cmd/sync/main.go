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

// Attachment Bridge — Batch Sync Command
//
// Standalone CLI tool that submits every supported attachment on a
// business record to the accounting API through the gateway. The
// accounting token is acquired once, before the loop begins.
//
// Usage:
//
//	go run ./cmd/sync/ --record <recordID> [--gateway http://localhost:8090]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/finbridge/docgateway/internal/batch"
	"github.com/finbridge/docgateway/internal/config"
	"github.com/finbridge/docgateway/internal/erp"
)

func main() {
	// Structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// --- CLI Flags ---
	recordFlag := flag.String("record", "", "Record ID to sync attachments for (required)")
	gatewayFlag := flag.String("gateway", "", "Gateway base URL (optional; overrides config)")
	flag.Parse()

	if *recordFlag == "" {
		fmt.Fprintf(os.Stderr, "Error: --record is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	// --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	gatewayURL := cfg.GatewayURL
	if *gatewayFlag != "" {
		gatewayURL = *gatewayFlag
	}

	slog.Info("starting attachment sync",
		"record", *recordFlag,
		"gateway", gatewayURL,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Acquire accounting token (once per batch) ---
	creds := &clientcredentials.Config{
		ClientID:     cfg.Accounting.ClientID,
		ClientSecret: cfg.Accounting.ClientSecret,
		TokenURL:     cfg.Accounting.TokenURL,
		Scopes:       cfg.Accounting.Scopes,
	}
	token, err := creds.Token(ctx)
	if err != nil {
		slog.Error("accounting token acquisition failed", "error", err)
		os.Exit(1)
	}
	slog.Info("accounting token acquired")

	// --- Wire the runner ---
	source := erp.NewClient(cfg.ERP.BaseURL, cfg.ERP.Token, nil)
	client := batch.NewGatewayClient(gatewayURL, cfg.APIKey, nil)

	acctBase := cfg.Accounting.BaseURL
	runner := batch.NewRunner(batch.RunnerConfig{
		Source:  source,
		Gateway: client,
		UploadURL: func(recordID string) string {
			return fmt.Sprintf("%s/records/%s/attachments", acctBase, recordID)
		},
	})

	// --- Run ---
	report, err := runner.Run(ctx, batch.Request{
		RecordID: *recordFlag,
		Token:    token.AccessToken,
	})
	if err != nil {
		slog.Error("attachment sync failed", "error", err)
		os.Exit(1)
	}

	// --- Summary ---
	for _, res := range report.Results {
		slog.Info("result",
			"file", res.FileName,
			"state", res.State,
			"status", res.Status,
			"reason", res.Reason,
		)
	}

	// The report itself goes to stdout so callers can capture it.
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		slog.Error("failed to write report", "error", err)
		os.Exit(1)
	}
}
