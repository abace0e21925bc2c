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
	"time"

	"github.com/penny-vault/factorlens/dataframe"
	"gonum.org/v1/gonum/stat"
)

const (
	AnnualizedAlpha = "Ann. alpha"
	Beta            = "beta"
)

// UniverseReturns computes the equal weighted mean forward return of all assets for each date and
// holding period. It is the benchmark that factor returns are regressed against.
func UniverseReturns(panel *Panel) *dataframe.DataFrame[time.Time] {
	df := dataframe.New[time.Time](panel.PeriodNames()...)
	df.Index = make([]time.Time, len(panel.dates))
	copy(df.Index, panel.dates)

	keys, rows := groupRows(panel, dateCohort)
	for periodIdx := range panel.periods {
		vals := panel.returns(periodIdx)
		col := make([]float64, len(keys))
		for keyIdx, key := range keys {
			col[keyIdx] = dataframe.NaNMean(pick(vals, rows[key]))
		}
		df.Vals[periodIdx] = col
	}

	return df
}

// FactorAlphaBeta regresses the factor returns on the universe returns for each holding period.
// If returns is nil the factor returns are computed from the panel with opts. The intercept is
// annualized as (1+alpha)^(252 days / period) - 1. The result has the rows "Ann. alpha" and "beta"
// and one column per holding period; periods with fewer than 2 complete observations are NaN.
func FactorAlphaBeta(panel *Panel, returns *dataframe.DataFrame[time.Time], opts WeightOptions) (*dataframe.DataFrame[string], error) {
	if returns == nil {
		var err error
		returns, err = FactorReturns(panel, opts)
		if err != nil {
			return nil, err
		}
	}

	universe := UniverseReturns(panel)
	universeByDate := make(map[int64]int, universe.Len())
	for idx, dt := range universe.Index {
		universeByDate[dt.UnixNano()] = idx
	}

	res := dataframe.New[string](returns.ColNames...)
	res.Index = []string{AnnualizedAlpha, Beta}

	for colIdx, colName := range returns.ColNames {
		period, err := panel.Period(colName)
		if err != nil {
			return nil, err
		}
		universeCol := universe.Vals[panel.periodIndex(colName)]

		x := make([]float64, 0, returns.Len())
		y := make([]float64, 0, returns.Len())
		for rowIdx, dt := range returns.Index {
			uIdx, ok := universeByDate[dt.UnixNano()]
			if !ok {
				continue
			}
			x = append(x, universeCol[uIdx])
			y = append(y, returns.Vals[colIdx][rowIdx])
		}

		alpha, beta := ols(x, y)
		freqAdjust := float64(TradingDaysPerYear*24*time.Hour) / float64(period.Duration)
		res.Vals[colIdx] = []float64{math.Pow(1+alpha, freqAdjust) - 1, beta}
	}

	return res, nil
}

// ols fits y = alpha + beta*x over the complete pairs of x and y
func ols(x, y []float64) (alpha, beta float64) {
	xx, yy := completePairs(x, y)
	if len(xx) < 2 || stat.Variance(xx, nil) == 0 {
		return math.NaN(), math.NaN()
	}
	return stat.LinearRegression(xx, yy, nil, false)
}
