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

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/google/uuid"

	"github.com/finbridge/docgateway/internal/models"
)

// multipartField is the single form field the re-encoded body carries.
// The downstream accounting API expects this exact field name.
const multipartField = "attachment"

// ForwardTarget tells the gateway where to relay decoded content.
type ForwardTarget struct {
	URL     string            `json:"url"`
	Method  string            `json:"method,omitempty"` // default POST
	Headers map[string]string `json:"headers,omitempty"`
}

// forwardMultipart re-encodes content as a single-part multipart body and
// relays it to the target. Caller headers are applied first, then the
// multipart framing Content-Type overwrites any conflicting value the
// caller supplied — anything else (notably Authorization) passes through
// untouched.
func (h *Handler) forwardMultipart(ctx context.Context, target *ForwardTarget, content []byte, fileName, mimeType string) (*models.ForwardEnvelope, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part := textproto.MIMEHeader{}
	part.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, multipartField, fileName))
	part.Set("Content-Type", mimeType)

	pw, err := mw.CreatePart(part)
	if err != nil {
		return nil, fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := pw.Write(content); err != nil {
		return nil, fmt.Errorf("write multipart content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	method := target.Method
	if method == "" {
		method = http.MethodPost
	}

	req, err := http.NewRequestWithContext(ctx, method, target.URL, bytes.NewReader(body.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("build forward request: %w", err)
	}

	for k, v := range target.Headers {
		req.Header.Set(k, v)
	}
	// Framing headers win over anything the caller sent.
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.ContentLength = int64(body.Len())

	slog.Info("forwarding attachment",
		"request_id", uuid.New().String(),
		"url", target.URL,
		"method", method,
		"file", fileName,
		"bytes", len(content),
	)

	return h.exchange(req)
}

// newForwardRequest builds a generic forward request. A JSON content type
// is assumed only when the caller sent a body and no Content-Type of
// their own.
func newForwardRequest(ctx context.Context, method, url string, headers map[string]string, payload []byte) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build forward request: %w", err)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if payload != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// exchange performs the outbound request and captures the upstream's
// status, headers, and body verbatim. Only a transport failure is an
// error; a completed exchange is an envelope regardless of status.
func (h *Handler) exchange(req *http.Request) (*models.ForwardEnvelope, error) {
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forward request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream response: %w", err)
	}

	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}

	env := &models.ForwardEnvelope{
		Status:  resp.StatusCode,
		Headers: headers,
	}

	// Parse the body as JSON only when the upstream declares it; anything
	// else is relayed as a raw string.
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var data any
		if err := json.Unmarshal(raw, &data); err == nil {
			env.Data = data
			return env, nil
		}
	}
	env.Data = string(raw)

	return env, nil
}
