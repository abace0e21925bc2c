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

package dataframe

import (
	"sort"
	"strings"
)

// Keys returns the names of the dataframes in the map in sorted order
func (dfMap Map[T]) Keys() []string {
	keys := make([]string, 0, len(dfMap))
	for k := range dfMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Table renders every dataframe in the map, in key order, each preceded by its name
func (dfMap Map[T]) Table() string {
	s := &strings.Builder{}
	for _, k := range dfMap.Keys() {
		s.WriteString(k)
		s.WriteString("\n")
		s.WriteString(dfMap[k].Table())
		s.WriteString("\n")
	}
	return s.String()
}
