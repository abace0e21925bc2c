// Copyright 2021-2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest returns the hex encoded blake3 hash of b. It fingerprints the inputs
// a report was computed from.
func Digest(b []byte) string {
	h := blake3.New()
	// blake3 hashers never return an error on write
	_, _ = h.Write(b)
	return hex.EncodeToString(h.Sum(nil))
}
