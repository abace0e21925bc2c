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

package tearsheet

import (
	"math"
	"sort"
	"time"
)

func nan() float64 {
	return math.NaN()
}

func nanSlice(n int) []float64 {
	res := make([]float64, n)
	for idx := range res {
		res[idx] = math.NaN()
	}
	return res
}

// sortDates sorts dates in place and updates the position of each date in pos
func sortDates(dates []time.Time, pos map[int64]int) {
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
	for idx, dt := range dates {
		pos[dt.UnixNano()] = idx
	}
}
