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
	"encoding/base64"
	"strings"
)

// DecodeLenient decodes standard base64, tolerating malformed input the
// same way the original platform decoder did: decoding stops at the first
// invalid byte and the prefix decoded so far is returned. Existing callers
// may rely on the truncation, so malformed input must never surface as an
// error.
func DecodeLenient(s string) []byte {
	s = strings.TrimSpace(s)
	buf := make([]byte, base64.StdEncoding.DecodedLen(len(s)))
	// On corrupt input, n counts only the bytes decoded before it.
	n, _ := base64.StdEncoding.Decode(buf, []byte(s))
	return buf[:n]
}
