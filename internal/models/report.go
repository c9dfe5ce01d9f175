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

// Package models defines the data structures shared across the attachment
// bridge: the gateway's forward envelope and the batch report contract.
package models

// ForwardEnvelope mirrors an upstream HTTP exchange back to the caller.
// The gateway relays the upstream's status verbatim — a non-2xx status is
// a completed exchange, not an error.
type ForwardEnvelope struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers"`
	Data    any               `json:"data"`
}

// Outcome states for a single processed attachment.
const (
	StateSkipped = "skipped" // file type not in the supported set
	StateSuccess = "success" // upstream accepted (200 or 201)
	StateFailed  = "failed"  // upstream completed with any other status
	StateError   = "error"   // the gateway call itself could not complete
)

// Outcome records the result of one attachment submission.
//
// This struct's JSON serialisation is the contract consumed by the
// upstream platform script that triggers batch runs; field names must not
// change without coordinating with that script.
type Outcome struct {
	FileName    string `json:"fileName"`
	State       string `json:"state"`
	Reason      string `json:"reason,omitempty"`      // skipped only
	Status      int    `json:"status,omitempty"`      // success/failed: upstream HTTP status
	Message     string `json:"message,omitempty"`     // success/failed: upstream body detail
	ErrorDetail string `json:"errorDetail,omitempty"` // error only
}

// Report is the aggregate result of one batch run. Results appear in
// discovery order and the report is emitted exactly once per run, even
// when every item failed.
type Report struct {
	Status         string    `json:"status"` // always "completed"
	FilesProcessed int       `json:"filesProcessed"`
	Timestamp      string    `json:"timestamp"`
	Results        []Outcome `json:"results"`
}
