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
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/penny-vault/factorlens/dataframe"
	"github.com/rs/zerolog/log"
)

// QuantileTurnover computes, for each date of the panel, the fraction of assets in quantile that
// were not in the same quantile period.Lag() dates earlier. The first Lag() dates have no prior
// date and are NaN; a date without any asset in the quantile has a turnover of 0. The result has
// a single column named after the quantile.
func QuantileTurnover(panel *Panel, quantile int, period Period) (*dataframe.DataFrame[time.Time], error) {
	if quantile < 1 || quantile > panel.quantiles {
		return nil, fmt.Errorf("%w: %d (quantiles 1..%d)", ErrQuantileNotFound, quantile, panel.quantiles)
	}

	lag := period.Lag()
	members := assetFrame(panel, func(o *Observation) float64 {
		if o.Quantile == quantile {
			return 1
		}
		return 0
	})
	prev := members.Lag(lag)

	col := make([]float64, members.Len())
	for dateIdx := range col {
		if dateIdx < lag {
			col[dateIdx] = math.NaN()
			continue
		}

		count, added := 0, 0
		for assetIdx := range members.ColNames {
			if members.Vals[assetIdx][dateIdx] != 1 {
				continue
			}
			count++
			if prev.Vals[assetIdx][dateIdx] != 1 {
				added++
			}
		}

		if count > 0 {
			col[dateIdx] = float64(added) / float64(count)
		}
	}

	df := dataframe.New[time.Time](strconv.Itoa(quantile))
	df.Index = members.Index
	df.Vals[0] = col

	return df, nil
}

// QuantileTurnoverTable computes QuantileTurnover for every quantile of the panel; column i-1
// holds quantile i
func QuantileTurnoverTable(panel *Panel, period Period) (*dataframe.DataFrame[time.Time], error) {
	names := make([]string, panel.quantiles)
	for q := 1; q <= panel.quantiles; q++ {
		names[q-1] = strconv.Itoa(q)
	}

	res := dataframe.New[time.Time](names...)
	res.Index = make([]time.Time, len(panel.dates))
	copy(res.Index, panel.dates)

	for q := 1; q <= panel.quantiles; q++ {
		turnover, err := QuantileTurnover(panel, q, period)
		if err != nil {
			return nil, err
		}
		res.Vals[q-1] = turnover.Vals[0]
	}

	log.Debug().Object("Period", period).Int("Quantiles", panel.quantiles).Msg("computed quantile turnover")

	return res, nil
}

// FactorRankAutocorrelation computes, for each date, the correlation between the factor ranks of
// that date and the factor ranks period.Lag() dates earlier. Each date is ranked over all of its
// assets; the ranks are then paired over the assets present on both dates. Dates without a prior
// date or with fewer than 2 common assets are NaN. The result has a single column named after
// the period.
func FactorRankAutocorrelation(panel *Panel, period Period) *dataframe.DataFrame[time.Time] {
	ranks := assetFrame(panel, func(o *Observation) float64 {
		return o.Factor
	})
	for dateIdx := range ranks.Index {
		setRow(ranks, dateIdx, Rank(row(ranks, dateIdx)))
	}
	prev := ranks.Lag(period.Lag())

	col := make([]float64, ranks.Len())
	for dateIdx := range col {
		x, y := completePairs(row(prev, dateIdx), row(ranks, dateIdx))
		if len(x) < 2 {
			col[dateIdx] = math.NaN()
			continue
		}
		col[dateIdx] = pearson(x, y)
	}

	df := dataframe.New[time.Time](period.Name)
	df.Index = ranks.Index
	df.Vals[0] = col

	return df
}

// assetFrame lays the panel out as a date indexed table with one column per asset holding
// value(o) of each observation. Assets not observed on a date are NaN.
func assetFrame(panel *Panel, value func(o *Observation) float64) *dataframe.DataFrame[time.Time] {
	assets := panel.assets()
	assetIdx := make(map[string]int, len(assets))
	for idx, asset := range assets {
		assetIdx[asset] = idx
	}

	df := dataframe.New[time.Time](assets...)
	df.Index = make([]time.Time, len(panel.dates))
	copy(df.Index, panel.dates)
	for colIdx := range df.Vals {
		col := make([]float64, len(panel.dates))
		for rowIdx := range col {
			col[rowIdx] = math.NaN()
		}
		df.Vals[colIdx] = col
	}

	for rowIdx, o := range panel.obs {
		df.Vals[assetIdx[o.Asset]][panel.dateIdx[rowIdx]] = value(o)
	}

	return df
}

func row(df *dataframe.DataFrame[time.Time], rowIdx int) []float64 {
	res := make([]float64, len(df.Vals))
	for colIdx, col := range df.Vals {
		res[colIdx] = col[rowIdx]
	}
	return res
}

func setRow(df *dataframe.DataFrame[time.Time], rowIdx int, vals []float64) {
	for colIdx := range df.Vals {
		df.Vals[colIdx][rowIdx] = vals[colIdx]
	}
}
