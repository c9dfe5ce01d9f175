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

package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/finbridge/docgateway/internal/gateway"
	"github.com/finbridge/docgateway/internal/models"
)

// GatewayClient submits conversion jobs to the gateway service.
type GatewayClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewGatewayClient creates a gateway client. A nil httpClient falls back
// to http.DefaultClient.
func NewGatewayClient(baseURL, apiKey string, httpClient *http.Client) *GatewayClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GatewayClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// gatewayResponse covers both shapes the gateway can return: the forward
// envelope on a completed exchange, or {"error": ...} for the gateway's
// own failures.
type gatewayResponse struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers"`
	Data    any               `json:"data"`
	Error   string            `json:"error"`
}

// Convert posts a conversion job and returns the relayed upstream
// envelope. The gateway mirrors the upstream's HTTP status, so the
// response is decoded regardless of status code; only a transport or
// parse failure, or a gateway-level error body, is an error.
func (c *GatewayClient) Convert(ctx context.Context, req gateway.ConvertRequest) (*models.ForwardEnvelope, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal convert request: %w", err)
	}

	url := c.baseURL + "/api/convert/base64-to-binary"
	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build convert request: %w", err)
	}
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set(gateway.APIKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("call gateway: %w", err)
	}
	defer resp.Body.Close()

	var body gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode gateway response (HTTP %d): %w", resp.StatusCode, err)
	}

	if body.Error != "" {
		return nil, fmt.Errorf("gateway returned HTTP %d: %s", resp.StatusCode, body.Error)
	}

	return &models.ForwardEnvelope{
		Status:  body.Status,
		Headers: body.Headers,
		Data:    body.Data,
	}, nil
}
