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

package factor

import (
	"math"
	"sort"
)

// groupRows partitions the observations of the panel into disjoint cohorts. The cohort keys are
// returned sorted by quantile, date and group, together with the row indices of each cohort.
func groupRows(panel *Panel, keyFn func(*Observation) Key) ([]Key, map[Key][]int) {
	rows := make(map[Key][]int)
	keys := make([]Key, 0)
	for idx, o := range panel.obs {
		key := keyFn(o)
		if _, ok := rows[key]; !ok {
			keys = append(keys, key)
		}
		rows[key] = append(rows[key], idx)
	}

	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i].less(keys[j])
	})

	return keys, rows
}

// dateCohort keys observations by date
func dateCohort(o *Observation) Key {
	return Key{Date: o.Date}
}

// dateGroupCohort keys observations by date and group
func dateGroupCohort(o *Observation) Key {
	return Key{Date: o.Date, Group: o.Group}
}

// demean subtracts the cohort mean from each value. The first pass computes the mean of the
// finite values of every cohort, the second subtracts it from each member; NaN stays NaN.
func demean(vals []float64, keys []Key, rows map[Key][]int) []float64 {
	means := make(map[Key]float64, len(keys))
	for _, key := range keys {
		sum := 0.0
		cnt := 0
		for _, rowIdx := range rows[key] {
			if v := vals[rowIdx]; !math.IsNaN(v) {
				sum += v
				cnt++
			}
		}
		if cnt == 0 {
			means[key] = math.NaN()
		} else {
			means[key] = sum / float64(cnt)
		}
	}

	res := make([]float64, len(vals))
	for _, key := range keys {
		mean := means[key]
		for _, rowIdx := range rows[key] {
			res[rowIdx] = vals[rowIdx] - mean
		}
	}
	return res
}

// forwardReturns returns the forward returns of each period, demeaned within date and group
// cohorts when groupAdjust is set or within date cohorts when demeaned is set
func forwardReturns(panel *Panel, demeaned, groupAdjust bool) [][]float64 {
	res := make([][]float64, len(panel.periods))

	var (
		keys []Key
		rows map[Key][]int
	)

	switch {
	case groupAdjust:
		keys, rows = groupRows(panel, dateGroupCohort)
	case demeaned:
		keys, rows = groupRows(panel, dateCohort)
	}

	for periodIdx := range panel.periods {
		vals := panel.returns(periodIdx)
		if keys != nil {
			vals = demean(vals, keys, rows)
		}
		res[periodIdx] = vals
	}

	return res
}

// pick selects vals at the given row indices
func pick(vals []float64, rowIdx []int) []float64 {
	res := make([]float64, len(rowIdx))
	for idx, row := range rowIdx {
		res[idx] = vals[row]
	}
	return res
}
