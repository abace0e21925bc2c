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
	"time"

	"github.com/penny-vault/factorlens/dataframe"
	"github.com/rs/zerolog/log"
)

// WeightOptions controls how factor values are turned into portfolio weights
type WeightOptions struct {
	// LongShort demeans factor values so the portfolio is long the top and short the bottom
	LongShort bool

	// GroupAdjust computes weights within each group and then re-normalizes across the date
	GroupAdjust bool

	// EqualWeight assigns equal weights to every asset on the long side and every asset on the short side
	EqualWeight bool
}

// FactorWeights computes, for every observation of the panel, the portfolio weight implied by its
// factor value. Weights of each date have a gross exposure of 1.0. The result is aligned with
// panel.Observations(); observations without a factor value have a weight of NaN.
func FactorWeights(panel *Panel, opts WeightOptions) ([]float64, error) {
	if opts.GroupAdjust && !panel.HasGroup() {
		return nil, ErrMissingGroup
	}

	cohortFn := dateCohort
	if opts.GroupAdjust {
		cohortFn = dateGroupCohort
	}

	factors := panel.factors()
	weights := make([]float64, len(factors))

	keys, rows := groupRows(panel, cohortFn)
	for _, key := range keys {
		w := toWeights(pick(factors, rows[key]), opts.LongShort, opts.EqualWeight)
		for idx, rowIdx := range rows[key] {
			weights[rowIdx] = w[idx]
		}
	}

	if opts.GroupAdjust {
		keys, rows = groupRows(panel, dateCohort)
		for _, key := range keys {
			w := toWeights(pick(weights, rows[key]), false, false)
			for idx, rowIdx := range rows[key] {
				weights[rowIdx] = w[idx]
			}
		}
	}

	return weights, nil
}

// toWeights scales x so that its absolute values sum to 1. NaN values are ignored and keep a
// weight of NaN. A cohort whose values are all zero has undefined (NaN) weights.
func toWeights(x []float64, demeaned, equalWeight bool) []float64 {
	w := make([]float64, len(x))
	copy(w, x)

	finite := dataframe.Finite(w)
	if len(finite) == 0 {
		return w
	}

	switch {
	case equalWeight:
		if demeaned {
			med := median(finite)
			for idx := range w {
				w[idx] -= med
			}
		}

		numNeg, numPos := 0, 0
		for idx, v := range w {
			switch {
			case v < 0:
				w[idx] = -1
				numNeg++
			case v > 0:
				w[idx] = 1
				numPos++
			}
		}

		// long and short legs carry the same weight
		if demeaned {
			for idx, v := range w {
				switch {
				case v < 0:
					w[idx] /= float64(numNeg)
				case v > 0:
					w[idx] /= float64(numPos)
				}
			}
		}
	case demeaned:
		mean := dataframe.NaNMean(w)
		for idx := range w {
			w[idx] -= mean
		}
	}

	gross := 0.0
	for _, v := range w {
		if !math.IsNaN(v) {
			gross += math.Abs(v)
		}
	}

	for idx := range w {
		w[idx] /= gross
	}

	return w
}

func median(x []float64) float64 {
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// FactorReturns computes the return of the factor weighted portfolio for each date and holding
// period. Dates without any finite weighted return are NaN.
func FactorReturns(panel *Panel, opts WeightOptions) (*dataframe.DataFrame[time.Time], error) {
	weights, err := FactorWeights(panel, opts)
	if err != nil {
		return nil, err
	}

	log.Debug().Object("Options", opts).Msg("computing factor returns")

	df := dataframe.New[time.Time](panel.PeriodNames()...)
	df.Index = make([]time.Time, len(panel.dates))
	copy(df.Index, panel.dates)

	for periodIdx := range panel.periods {
		sums := make([]float64, len(panel.dates))
		valid := make([]bool, len(panel.dates))
		for rowIdx, o := range panel.obs {
			v := weights[rowIdx] * o.Returns[periodIdx]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			dateIdx := panel.dateIdx[rowIdx]
			sums[dateIdx] += v
			valid[dateIdx] = true
		}

		for dateIdx := range sums {
			if !valid[dateIdx] {
				sums[dateIdx] = math.NaN()
			}
		}
		df.Vals[periodIdx] = sums
	}

	return df, nil
}
