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

package defaults

// Input limits.
const (
	// MaxRecipeBytes is the largest recipe body the server accepts.
	MaxRecipeBytes int64 = 1 << 20

	// MaxDocumentBytes is the largest remote document HttpReader will read.
	MaxDocumentBytes int64 = 4 << 20

	// ParseConcurrency bounds how many recipes are parsed at once in batch mode.
	ParseConcurrency = 8
)
