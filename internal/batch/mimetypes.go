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

// DefaultFileTypes maps the platform's file-type tags to MIME types for
// the formats the downstream accounting API accepts. Zip is the only
// archive the API takes (tar/gz are rejected), and rich media and script
// types are absent because the platform cannot retrieve them as base64
// text. Anything not in this map is skipped, never submitted.
var DefaultFileTypes = map[string]string{
	"PDF":        "application/pdf",
	"WORD":       "application/msword",
	"EXCEL":      "application/vnd.ms-excel",
	"POWERPOINT": "application/vnd.ms-powerpoint",
	"CSV":        "text/csv",
	"PLAINTEXT":  "text/plain",
	"HTMLDOC":    "text/html",
	"RTF":        "application/rtf",
	"JPGIMAGE":   "image/jpeg",
	"PNGIMAGE":   "image/png",
	"GIFIMAGE":   "image/gif",
	"BMPIMAGE":   "image/bmp",
	"TIFFIMAGE":  "image/tiff",
	"ZIP":        "application/zip",
}
