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
	"encoding/base64"
	"testing"
)

// TestDecodeLenient_RoundTrip verifies that valid base64 reconstructs the
// original bytes exactly.
func TestDecodeLenient_RoundTrip(t *testing.T) {
	inputs := [][]byte{
		[]byte("Hello, World!"),
		[]byte(""),
		[]byte("a"),
		[]byte("ab"),
		[]byte("abc"),
		{0x00, 0xff, 0x10, 0x80, 0x7f},
	}

	for _, in := range inputs {
		encoded := base64.StdEncoding.EncodeToString(in)
		got := DecodeLenient(encoded)
		if !bytes.Equal(got, in) {
			t.Errorf("DecodeLenient(%q) = %v, want %v", encoded, got, in)
		}
	}
}

// TestDecodeLenient_Malformed pins the truncating behavior: invalid input
// yields the decodeable prefix, never an error. This leniency is inherited
// from the original platform's decoder and callers may depend on it.
func TestDecodeLenient_Malformed(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"SGVsbG8h!!!!", "Hello!"}, // valid prefix, garbage tail
		{"%%%%", ""},               // invalid from the first byte
		{"  SGVsbG8h  ", "Hello!"}, // surrounding whitespace trimmed
		{"SGVs\nbG8h", "Hello!"},   // embedded newlines ignored
	}

	for _, tt := range tests {
		got := DecodeLenient(tt.input)
		if string(got) != tt.want {
			t.Errorf("DecodeLenient(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
