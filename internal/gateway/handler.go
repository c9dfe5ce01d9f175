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

// Package gateway implements the conversion and forwarding service. It
// decodes base64 payloads, optionally re-encodes them as multipart bodies,
// relays them to an upstream URL, and mirrors the upstream's response back
// to the caller without reinterpreting non-2xx statuses. Every request is
// independent; the gateway holds no state between calls.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const (
	// APIKeyHeader carries the shared secret. A header rather than a
	// query parameter so the secret never lands in access logs.
	APIKeyHeader = "X-API-Key"

	// DefaultMaxBodyBytes bounds inbound JSON request bodies. The
	// outbound forward body itself has no ceiling.
	DefaultMaxBodyBytes = 10 << 20

	defaultFileName = "file.bin"
	defaultMimeType = "application/octet-stream"
)

// ConvertRequest is the body of POST /api/convert/base64-to-binary.
type ConvertRequest struct {
	Base64Data string         `json:"base64Data"`
	FileName   string         `json:"fileName,omitempty"`
	MimeType   string         `json:"mimeType,omitempty"`
	Forward    *ForwardTarget `json:"forward,omitempty"`
}

// ForwardRequest is the body of POST /api/forward.
type ForwardRequest struct {
	TargetURL string            `json:"targetUrl"`
	Method    string            `json:"method,omitempty"` // default POST
	Headers   map[string]string `json:"headers,omitempty"`
	Body      any               `json:"body,omitempty"`
}

// Handler serves the conversion and forwarding endpoints.
type Handler struct {
	apiKey  string
	client  *http.Client
	maxBody int64
}

// HandlerConfig holds dependencies for the gateway handler. APIKey is
// required; tests supply isolated fixtures per case rather than reading
// ambient state.
type HandlerConfig struct {
	APIKey       string
	Client       *http.Client // nil = http.DefaultClient
	MaxBodyBytes int64        // 0 = DefaultMaxBodyBytes
}

// NewHandler creates a gateway handler.
func NewHandler(cfg HandlerConfig) *Handler {
	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody == 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &Handler{
		apiKey:  cfg.APIKey,
		client:  client,
		maxBody: maxBody,
	}
}

// Mux returns the gateway's route table. The health probe is deliberately
// outside the key gate — external health agents carry no credentials.
func (h *Handler) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/convert/base64-to-binary", h.requireKey(h.ServeConvert))
	mux.HandleFunc("/api/forward", h.requireKey(h.ServeForward))
	mux.HandleFunc("/health", h.ServeHealth)
	return mux
}

// requireKey rejects requests whose shared-secret header does not match.
func (h *Handler) requireKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.apiKey == "" || r.Header.Get(APIKeyHeader) != h.apiKey {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

// ServeHealth responds to the liveness probe. No dependency checks: the
// gateway's only collaborator is whatever URL a request names, so there is
// nothing meaningful to ping.
func (h *Handler) ServeHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ServeConvert handles base64-to-binary conversion requests.
//
// Without a forward target the decoded bytes are returned directly as a
// file download. With one, the bytes are re-encoded as a multipart body,
// relayed to the target, and the upstream's response is mirrored back —
// same status, with a JSON envelope of status/headers/data.
func (h *Handler) ServeConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ConvertRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Base64Data == "" {
		writeError(w, http.StatusBadRequest, "base64Data is required")
		return
	}

	content := DecodeLenient(req.Base64Data)

	fileName := req.FileName
	if fileName == "" {
		fileName = defaultFileName
	}
	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	if req.Forward == nil || req.Forward.URL == "" {
		w.Header().Set("Content-Type", mimeType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
		w.WriteHeader(http.StatusOK)
		w.Write(content)
		return
	}

	env, err := h.forwardMultipart(r.Context(), req.Forward, content, fileName, mimeType)
	if err != nil {
		// Log the real error here; the client gets a generic 500.
		slog.Error("forward failed", "url", req.Forward.URL, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, env.Status, env)
}

// ServeForward handles generic forward requests: the JSON body is relayed
// as-is to the target with the caller's headers, same passthrough contract
// as the convert endpoint but with no base64 decode.
func (h *Handler) ServeForward(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ForwardRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.TargetURL == "" {
		writeError(w, http.StatusBadRequest, "targetUrl is required")
		return
	}

	method := req.Method
	if method == "" {
		method = http.MethodPost
	}

	var payload []byte
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			slog.Error("marshal forward body failed", "url", req.TargetURL, "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		payload = data
	}

	hreq, err := newForwardRequest(r.Context(), method, req.TargetURL, req.Headers, payload)
	if err != nil {
		slog.Error("build forward request failed", "url", req.TargetURL, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	env, err := h.exchange(hreq)
	if err != nil {
		slog.Error("forward failed", "url", req.TargetURL, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, env.Status, env)
}

// decodeBody reads a JSON request body with the configured size ceiling.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Serve starts the gateway HTTP server on the given port.
// It binds the port immediately and signals readiness via the returned
// channel before starting to accept connections.
func Serve(ctx context.Context, port int, handler *Handler) (<-chan struct{}, error) {
	server := &http.Server{
		Handler:     handler.Mux(),
		ReadTimeout: 30 * time.Second,
		// No WriteTimeout: a forward's duration is bounded by the
		// upstream, not by us.
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("bind gateway port %d: %w", port, err)
	}

	ready := make(chan struct{})

	go func() {
		<-ctx.Done()
		slog.Info("gateway server shutting down")
		server.Close()
	}()

	go func() {
		slog.Info("gateway server listening", "port", port)
		close(ready)
		if err := server.Serve(ln); err != http.ErrServerClosed {
			slog.Error("gateway server error", "error", err)
		}
	}()

	return ready, nil
}
