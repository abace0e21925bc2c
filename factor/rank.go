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

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Rank assigns 1-based ranks to the values of x. Ties receive the average of the ranks they
// span and NaN values keep a rank of NaN.
func Rank(x []float64) []float64 {
	ranks := make([]float64, len(x))

	finite := make([]float64, 0, len(x))
	pos := make([]int, 0, len(x))
	for idx, v := range x {
		if math.IsNaN(v) {
			ranks[idx] = math.NaN()
			continue
		}
		finite = append(finite, v)
		pos = append(pos, idx)
	}

	order := make([]int, len(finite))
	floats.Argsort(finite, order)

	for ii := 0; ii < len(finite); {
		jj := ii
		for jj+1 < len(finite) && finite[jj+1] == finite[ii] {
			jj++
		}

		// positions ii..jj are tied; ranks are 1-based
		avg := float64(ii+jj)/2 + 1
		for kk := ii; kk <= jj; kk++ {
			ranks[pos[order[kk]]] = avg
		}
		ii = jj + 1
	}

	return ranks
}

// SpearmanCorrelation computes the rank correlation of x and y over the pairs where both values
// are present. Returns NaN when fewer than 2 complete pairs exist or either side is constant.
func SpearmanCorrelation(x, y []float64) float64 {
	xx, yy := completePairs(x, y)
	if len(xx) < 2 {
		return math.NaN()
	}

	return pearson(Rank(xx), Rank(yy))
}

func pearson(x, y []float64) float64 {
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}

// completePairs drops every position where either x or y is NaN or infinite
func completePairs(x, y []float64) ([]float64, []float64) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}

	xx := make([]float64, 0, n)
	yy := make([]float64, 0, n)
	for idx := 0; idx < n; idx++ {
		a, b := x[idx], y[idx]
		if math.IsNaN(a) || math.IsNaN(b) || math.IsInf(a, 0) || math.IsInf(b, 0) {
			continue
		}
		xx = append(xx, a)
		yy = append(yy, b)
	}
	return xx, yy
}
