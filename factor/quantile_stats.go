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

	"github.com/penny-vault/factorlens/dataframe"
	"gonum.org/v1/gonum/floats"
)

// QuantileStatistics describes the factor values of each quantile: minimum, maximum, mean,
// sample standard deviation, number of observations and the share of all observations (in
// percent) that fall into the quantile. The result is indexed by quantile.
func QuantileStatistics(panel *Panel) *dataframe.DataFrame[int] {
	df := dataframe.New[int]("min", "max", "mean", "std", "count", "count %")
	df.Index = make([]int, panel.quantiles)
	for colIdx := range df.Vals {
		df.Vals[colIdx] = make([]float64, panel.quantiles)
	}

	byQuantile := make([][]float64, panel.quantiles)
	for _, o := range panel.obs {
		byQuantile[o.Quantile-1] = append(byQuantile[o.Quantile-1], o.Factor)
	}

	for qIdx, factors := range byQuantile {
		df.Index[qIdx] = qIdx + 1

		finite := dataframe.Finite(factors)
		minVal, maxVal := math.NaN(), math.NaN()
		if len(finite) > 0 {
			minVal = floats.Min(finite)
			maxVal = floats.Max(finite)
		}

		df.Vals[0][qIdx] = minVal
		df.Vals[1][qIdx] = maxVal
		df.Vals[2][qIdx] = dataframe.NaNMean(finite)
		df.Vals[3][qIdx] = dataframe.NaNStdDev(finite)
		df.Vals[4][qIdx] = float64(len(factors))
		df.Vals[5][qIdx] = float64(len(factors)) / float64(len(panel.obs)) * 100
	}

	return df
}
