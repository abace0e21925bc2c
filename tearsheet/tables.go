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
	"fmt"
	"strconv"
	"time"

	"github.com/penny-vault/factorlens/dataframe"
	"github.com/penny-vault/factorlens/factor"
)

const decimalToBps = 10_000

const (
	TopQuantileReturn    = "Mean Period Wise Return Top Quantile (bps)"
	BottomQuantileReturn = "Mean Period Wise Return Bottom Quantile (bps)"
	MeanSpread           = "Mean Period Wise Spread (bps)"
	MeanAutocorrelation  = "Mean Factor Rank Autocorrelation"
)

// returnsTable combines alpha and beta with the mean returns of the top and bottom quantile and
// the mean spread between them, all in basis points
func returnsTable(alphaBeta *dataframe.DataFrame[string], mean, spread *dataframe.DataFrame[factor.Key], quantiles int) *dataframe.DataFrame[string] {
	res := dataframe.New[string](alphaBeta.ColNames...)
	res.Index = []string{factor.AnnualizedAlpha, factor.Beta, TopQuantileReturn, BottomQuantileReturn, MeanSpread}

	top := mean.RowIndex(factor.Key{Quantile: quantiles})
	bottom := mean.RowIndex(factor.Key{Quantile: 1})

	for colIdx, colName := range alphaBeta.ColNames {
		col := append([]float64{}, alphaBeta.Vals[colIdx]...)
		col = append(col,
			valueAt(mean, colName, top)*decimalToBps,
			valueAt(mean, colName, bottom)*decimalToBps,
			dataframe.NaNMean(spread.Col(colName))*decimalToBps,
		)
		res.Vals[colIdx] = col
	}

	return res
}

// turnoverTable holds the mean turnover of each quantile and the mean factor rank
// autocorrelation for every holding period
func turnoverTable(turnover dataframe.Map[time.Time], autocorr *dataframe.DataFrame[time.Time], periods []factor.Period, quantiles int) *dataframe.DataFrame[string] {
	names := make([]string, len(periods))
	for idx, period := range periods {
		names[idx] = period.Name
	}

	res := dataframe.New[string](names...)
	for q := 1; q <= quantiles; q++ {
		res.Index = append(res.Index, fmt.Sprintf("Quantile %d Mean Turnover", q))
	}
	res.Index = append(res.Index, MeanAutocorrelation)

	autocorrMeans := autocorr.ColMeans()
	for colIdx, period := range periods {
		// turnover columns are the quantiles in order, autocorr columns the periods
		col := append(turnover[period.Name].ColMeans(), autocorrMeans[colIdx])
		res.Vals[colIdx] = col
	}

	return res
}

// pivotQuantiles turns one column of a by-date mean return table into a date indexed table with
// one column per quantile
func pivotQuantiles(mean *dataframe.DataFrame[factor.Key], colName string, quantiles int) *dataframe.DataFrame[time.Time] {
	names := make([]string, quantiles)
	for q := 1; q <= quantiles; q++ {
		names[q-1] = strconv.Itoa(q)
	}

	dateIdx := make(map[int64]int)
	res := dataframe.New[time.Time](names...)
	for _, key := range mean.Index {
		if _, ok := dateIdx[key.Date.UnixNano()]; !ok {
			dateIdx[key.Date.UnixNano()] = len(res.Index)
			res.Index = append(res.Index, key.Date)
		}
	}
	sortDates(res.Index, dateIdx)

	for colIdx := range res.Vals {
		res.Vals[colIdx] = nanSlice(len(res.Index))
	}

	src := mean.Col(colName)
	for rowIdx, key := range mean.Index {
		if key.Quantile < 1 || key.Quantile > quantiles {
			continue
		}
		res.Vals[key.Quantile-1][dateIdx[key.Date.UnixNano()]] = src[rowIdx]
	}

	return res
}

// histogramTable renders a histogram as a table of bin ranges and counts
func histogramTable(hist *factor.Histogram) *dataframe.DataFrame[string] {
	res := dataframe.New[string]("count")
	for idx, count := range hist.Counts {
		res.Index = append(res.Index, fmt.Sprintf("[%.4f, %.4f)", hist.Dividers[idx], hist.Dividers[idx+1]))
		res.Vals[0] = append(res.Vals[0], count)
	}
	return res
}

func valueAt[T comparable](df *dataframe.DataFrame[T], colName string, rowIdx int) float64 {
	col := df.Col(colName)
	if col == nil || rowIdx < 0 || rowIdx >= len(col) {
		return nan()
	}
	return col[rowIdx]
}
