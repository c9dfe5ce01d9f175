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

// Package batch drives one batch run: it enumerates the attachments on a
// record, submits each supported one through the gateway to the accounting
// API, and assembles a per-item outcome report. Attachments are processed
// strictly one at a time in discovery order, and no single failure aborts
// the batch.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finbridge/docgateway/internal/erp"
	"github.com/finbridge/docgateway/internal/gateway"
	"github.com/finbridge/docgateway/internal/models"
)

// Request defines the scope of one batch run. Token is the accounting API
// bearer token, acquired once before the run and passed by value — it is
// never refreshed mid-batch.
type Request struct {
	RecordID string
	Token    string
}

// Runner submits a record's attachments to the accounting API.
type Runner struct {
	source    *erp.Client
	gateway   *GatewayClient
	uploadURL func(recordID string) string
	types     map[string]string
}

// RunnerConfig holds dependencies for the batch runner.
type RunnerConfig struct {
	Source    *erp.Client
	Gateway   *GatewayClient
	UploadURL func(recordID string) string // accounting per-record upload endpoint
	Types     map[string]string            // nil = DefaultFileTypes
}

// NewRunner creates a batch runner.
func NewRunner(cfg RunnerConfig) *Runner {
	types := cfg.Types
	if types == nil {
		types = DefaultFileTypes
	}
	return &Runner{
		source:    cfg.Source,
		gateway:   cfg.Gateway,
		uploadURL: cfg.UploadURL,
		types:     types,
	}
}

// Run processes every attachment on the record and returns the aggregate
// report. Re-running against the same record re-submits the same
// attachments — there is no dedup or idempotency key.
func (r *Runner) Run(ctx context.Context, req Request) (*models.Report, error) {
	runID := uuid.New().String()

	attachments, err := r.source.ListAttachments(ctx, req.RecordID)
	if err != nil {
		return nil, fmt.Errorf("discover attachments: %w", err)
	}

	slog.Info("starting attachment batch",
		"run_id", runID,
		"record", req.RecordID,
		"attachments", len(attachments),
	)

	results := make([]models.Outcome, 0, len(attachments))
	for _, att := range attachments {
		outcome := r.processAttachment(ctx, req, att)
		results = append(results, outcome)

		slog.Info("attachment processed",
			"run_id", runID,
			"record", req.RecordID,
			"file", outcome.FileName,
			"state", outcome.State,
			"status", outcome.Status,
		)
	}

	report := &models.Report{
		Status:         "completed",
		FilesProcessed: len(attachments),
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		Results:        results,
	}

	slog.Info("attachment batch complete",
		"run_id", runID,
		"record", req.RecordID,
		"files_processed", report.FilesProcessed,
	)

	return report, nil
}

// processAttachment handles a single attachment and always produces an
// outcome — every failure is classified, never propagated.
func (r *Runner) processAttachment(ctx context.Context, req Request, att erp.Attachment) models.Outcome {
	mimeType, ok := r.types[att.FileType]
	if !ok {
		return models.Outcome{
			FileName: att.Name,
			State:    models.StateSkipped,
			Reason:   fmt.Sprintf("Unsupported file type: %s", att.FileType),
		}
	}

	fc, err := r.source.FetchContent(ctx, att.ID)
	if err != nil {
		return models.Outcome{
			FileName:    att.Name,
			State:       models.StateError,
			ErrorDetail: err.Error(),
		}
	}
	if fc == nil {
		return models.Outcome{
			FileName:    att.Name,
			State:       models.StateError,
			ErrorDetail: "attachment content not found",
		}
	}

	fileName := fc.Name
	if fileName == "" {
		fileName = att.Name
	}

	env, err := r.gateway.Convert(ctx, gateway.ConvertRequest{
		Base64Data: fc.Content,
		FileName:   fileName,
		MimeType:   mimeType,
		Forward: &gateway.ForwardTarget{
			URL: r.uploadURL(req.RecordID),
			Headers: map[string]string{
				"Authorization": "Bearer " + req.Token,
			},
		},
	})
	if err != nil {
		return models.Outcome{
			FileName:    fileName,
			State:       models.StateError,
			ErrorDetail: err.Error(),
		}
	}

	// 200 and 201 are the accounting API's accepted statuses; anything
	// else is a rejection, relayed with its detail for diagnostics.
	state := models.StateFailed
	if env.Status == 200 || env.Status == 201 {
		state = models.StateSuccess
	}

	return models.Outcome{
		FileName: fileName,
		State:    state,
		Status:   env.Status,
		Message:  messageFrom(env.Data),
	}
}

// messageFrom flattens the upstream response body into a diagnostic string.
func messageFrom(data any) string {
	if data == nil {
		return ""
	}
	if s, ok := data.(string); ok {
		return s
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(raw)
}
