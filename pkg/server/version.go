// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package server

import (
	"context"
	"mime"
	"net/http"
	"slices"
	"strings"

	cerrors "github.com/NVIDIA/cooklang/pkg/errors"
)

const (
	// DefaultAPIVersion is served when the client does not ask for one.
	DefaultAPIVersion = "v1"

	// vendorMediaPrefix starts the media types selecting a version:
	// application/vnd.cooklang.v1+json.
	vendorMediaPrefix = "application/vnd.cooklang."

	headerAPIVersion = "X-API-Version"
)

// supportedAPIVersions lists the versions this server answers.
var supportedAPIVersions = []string{DefaultAPIVersion}

// negotiateAPIVersion picks the version from an Accept header. Media ranges
// are read in order and the first vendor type naming a served version wins.
// Generic ranges such as application/json or */* fall back to the default.
// ok is false when every acceptable range is a vendor type for a version
// that is not served.
func negotiateAPIVersion(accept string) (version string, ok bool) {
	if strings.TrimSpace(accept) == "" {
		return DefaultAPIVersion, true
	}

	var vendor, generic bool
	for _, part := range strings.Split(accept, ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		rest, isVendor := strings.CutPrefix(mt, vendorMediaPrefix)
		if !isVendor {
			generic = true
			continue
		}
		vendor = true
		v, _, _ := strings.Cut(rest, "+")
		if slices.Contains(supportedAPIVersions, v) {
			return v, true
		}
	}

	if vendor && !generic {
		return "", false
	}
	return DefaultAPIVersion, true
}

// negotiateVersion stores the negotiated version in the request context and
// answers 406 when the client only accepts versions this server lacks.
func negotiateVersion(route string) middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			accept := r.Header.Get("Accept")
			version, ok := negotiateAPIVersion(accept)
			if !ok {
				reject(route, rejectVersion)
				WriteError(w, r, http.StatusNotAcceptable, cerrors.ErrCodeNotAcceptable,
					"Unsupported API version", false, map[string]any{
						"accept":    accept,
						"supported": supportedAPIVersions,
					})
				return
			}

			w.Header().Set(headerAPIVersion, version)
			ctx := context.WithValue(r.Context(), contextKeyAPIVersion, version)
			next(w, r.WithContext(ctx))
		}
	}
}
