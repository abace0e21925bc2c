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
	"math"

	"gonum.org/v1/gonum/stat"
)

// ColMeans computes the mean of each column ignoring NaN values. Columns without any
// finite values have a mean of NaN
func (df *DataFrame[T]) ColMeans() []float64 {
	res := make([]float64, len(df.ColNames))
	for colIdx := range df.ColNames {
		res[colIdx] = NaNMean(df.Vals[colIdx])
	}
	return res
}

// GroupMean collapses rows that map onto the same key into a single row holding the NaN-ignoring
// mean of each column. Keys are emitted in order of first appearance.
func GroupMean[T comparable, K comparable](df *DataFrame[T], keyFn func(T) K) *DataFrame[K] {
	res := New[K](df.ColNames...)

	groups := make(map[K][]int)
	for rowIdx, rowKey := range df.Index {
		key := keyFn(rowKey)
		if _, ok := groups[key]; !ok {
			res.Index = append(res.Index, key)
		}
		groups[key] = append(groups[key], rowIdx)
	}

	for colIdx := range df.ColNames {
		col := make([]float64, len(res.Index))
		for keyIdx, key := range res.Index {
			rows := groups[key]
			vals := make([]float64, 0, len(rows))
			for _, rowIdx := range rows {
				vals = append(vals, df.Vals[colIdx][rowIdx])
			}
			col[keyIdx] = NaNMean(vals)
		}
		res.Vals[colIdx] = col
	}

	return res
}

// Finite returns the values of x that are neither NaN nor infinite
func Finite(x []float64) []float64 {
	res := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			res = append(res, v)
		}
	}
	return res
}

// NaNMean computes the mean of x ignoring NaN values; returns NaN if no finite values exist
func NaNMean(x []float64) float64 {
	vals := Finite(x)
	if len(vals) == 0 {
		return math.NaN()
	}
	return stat.Mean(vals, nil)
}

// NaNStdDev computes the sample standard deviation of x ignoring NaN values; returns NaN
// when fewer than 2 finite values exist
func NaNStdDev(x []float64) float64 {
	vals := Finite(x)
	if len(vals) < 2 {
		return math.NaN()
	}
	return stat.StdDev(vals, nil)
}
