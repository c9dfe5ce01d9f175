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

package erp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestListAttachments verifies discovery returns attachments in the order
// the platform reports them, with the bearer token attached.
func TestListAttachments(t *testing.T) {
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		if r.URL.Path != "/records/rec-1/attachments" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		data, _ := json.Marshal(map[string]any{
			"items": []map[string]string{
				{"id": "att-1", "name": "invoice.pdf", "fileType": "PDF"},
				{"id": "att-2", "name": "scan.jpg", "fileType": "JPGIMAGE"},
			},
		})
		w.Write(data)
	}))
	defer server.Close()

	c := NewClient(server.URL, "erp-token", server.Client())
	atts, err := c.ListAttachments(context.Background(), "rec-1")
	if err != nil {
		t.Fatalf("ListAttachments failed: %v", err)
	}

	if gotAuth != "Bearer erp-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if len(atts) != 2 {
		t.Fatalf("expected 2 attachments, got %d", len(atts))
	}
	if atts[0].ID != "att-1" || atts[0].FileType != "PDF" {
		t.Errorf("first attachment = %+v", atts[0])
	}
	if atts[1].Name != "scan.jpg" {
		t.Errorf("second attachment name = %q, want scan.jpg", atts[1].Name)
	}
}

// TestListAttachments_Error verifies non-200 list responses become errors.
func TestListAttachments_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := NewClient(server.URL, "erp-token", server.Client())
	_, err := c.ListAttachments(context.Background(), "rec-1")
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
}

// TestFetchContent verifies content retrieval parses name and base64 body.
func TestFetchContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/att-1/content" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"invoice.pdf","content":"SGVsbG8="}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "erp-token", server.Client())
	fc, err := c.FetchContent(context.Background(), "att-1")
	if err != nil {
		t.Fatalf("FetchContent failed: %v", err)
	}
	if fc == nil {
		t.Fatal("expected content, got nil")
	}
	if fc.Name != "invoice.pdf" {
		t.Errorf("name = %q, want invoice.pdf", fc.Name)
	}
	if fc.Content != "SGVsbG8=" {
		t.Errorf("content = %q, want base64 text", fc.Content)
	}
}

// TestFetchContent_NotFound verifies a deleted attachment yields (nil, nil).
func TestFetchContent_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(server.URL, "erp-token", server.Client())
	fc, err := c.FetchContent(context.Background(), "gone")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fc != nil {
		t.Errorf("expected nil content for 404, got %+v", fc)
	}
}
