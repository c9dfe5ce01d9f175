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

// Package erp provides a client for the upstream enterprise platform:
// it enumerates the attachments on a business record and retrieves each
// file's content as base64 text, which is how the platform's file API
// exposes binary content.
package erp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// Attachment describes one file attached to a record, in discovery order.
type Attachment struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	FileType string `json:"fileType"` // platform type tag, e.g. "PDF", "JPGIMAGE"
}

// FileContent is a retrieved file: display name plus base64-encoded body.
type FileContent struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Client talks to the platform's REST API with a bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a platform client. A nil httpClient falls back to
// http.DefaultClient.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: httpClient,
	}
}

// attachmentsResponse represents the record attachments list response.
type attachmentsResponse struct {
	Items []Attachment `json:"items"`
}

// ListAttachments returns the attachments on a record, in the order the
// platform reports them.
func (c *Client) ListAttachments(ctx context.Context, recordID string) ([]Attachment, error) {
	url := fmt.Sprintf("%s/records/%s/attachments", c.baseURL, recordID)

	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("attachments list returned HTTP %d for record %s", resp.StatusCode, recordID)
	}

	var page attachmentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode attachments response: %w", err)
	}

	return page.Items, nil
}

// FetchContent retrieves a file's base64 content and display name.
// Returns (nil, nil) when the file no longer exists — attachments can be
// deleted between discovery and retrieval.
func (c *Client) FetchContent(ctx context.Context, attachmentID string) (*FileContent, error) {
	url := fmt.Sprintf("%s/files/%s/content", c.baseURL, attachmentID)

	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		slog.Warn("attachment not found (may have been deleted)",
			"attachment_id", attachmentID,
		)
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file content returned HTTP %d for attachment %s", resp.StatusCode, attachmentID)
	}

	var fc FileContent
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode file content: %w", err)
	}

	return &fc, nil
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return c.httpClient.Do(req)
}
