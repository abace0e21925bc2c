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
	"sort"

	"github.com/penny-vault/factorlens/dataframe"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	ICMean         = "IC Mean"
	ICStd          = "IC Std."
	ICRiskAdjusted = "Risk-Adjusted IC"
	ICTStat        = "t-stat(IC)"
	ICPValue       = "p-value(IC)"
	ICSkew         = "IC Skew"
	ICKurtosis     = "IC Kurtosis"
)

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// ICSummary summarizes each column of an information coefficient table: mean, sample standard
// deviation, risk-adjusted IC (mean / std), t-statistic of the mean against zero, its two-sided
// p-value, skewness and excess kurtosis. Skewness and kurtosis use the population (biased) central
// moments. Statistics that cannot be computed from the available observations are NaN.
func ICSummary[T comparable](ic *dataframe.DataFrame[T]) *dataframe.DataFrame[string] {
	res := dataframe.New[string](ic.ColNames...)
	res.Index = []string{ICMean, ICStd, ICRiskAdjusted, ICTStat, ICPValue, ICSkew, ICKurtosis}

	for colIdx := range ic.ColNames {
		vals := dataframe.Finite(ic.Vals[colIdx])
		n := float64(len(vals))

		mean := dataframe.NaNMean(vals)
		std := dataframe.NaNStdDev(vals)

		tStat := math.NaN()
		pValue := math.NaN()
		if len(vals) >= 2 && std > 0 {
			tStat = mean / (std / math.Sqrt(n))
			dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: n - 1}
			pValue = 2 * dist.Survival(math.Abs(tStat))
		}

		skew, kurt := math.NaN(), math.NaN()
		if len(vals) >= 2 && std > 0 {
			skew, kurt = moments(vals)
		}

		res.Vals[colIdx] = []float64{mean, std, mean / std, tStat, pValue, skew, kurt}
	}

	return res
}

// moments returns the skewness m3/m2^1.5 and the excess kurtosis m4/m2^2 - 3 of vals, where mK
// is the K-th central moment without degrees of freedom correction
func moments(vals []float64) (skew, kurt float64) {
	m2 := stat.Moment(2, vals, nil)
	m3 := stat.Moment(3, vals, nil)
	m4 := stat.Moment(4, vals, nil)
	return m3 / math.Pow(m2, 1.5), m4/(m2*m2) - 3
}

// Histogram is the distribution of one column of information coefficients. Counts[i] is the
// number of values in [Dividers[i], Dividers[i+1]).
type Histogram struct {
	Period   string    `json:"period"`
	Dividers []float64 `json:"dividers"`
	Counts   []float64 `json:"counts"`
}

// ICHistogram bins the finite values of each column of ic into equally sized bins spanning the
// observed range
func ICHistogram[T comparable](ic *dataframe.DataFrame[T], bins int) ([]*Histogram, error) {
	if bins < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBins, bins)
	}

	res := make([]*Histogram, 0, len(ic.ColNames))
	for colIdx, colName := range ic.ColNames {
		vals := dataframe.Finite(ic.Vals[colIdx])
		hist := &Histogram{
			Period:   colName,
			Dividers: []float64{},
			Counts:   []float64{},
		}
		res = append(res, hist)

		if len(vals) == 0 {
			continue
		}

		sort.Float64s(vals)
		lo, hi := vals[0], vals[len(vals)-1]
		if lo == hi {
			lo -= 0.5
			hi += 0.5
		}

		hist.Dividers = floats.Span(make([]float64, bins+1), lo, hi)
		// the last bin is closed so that the maximum is counted
		hist.Dividers[bins] = math.Nextafter(hi, math.Inf(1))
		hist.Counts = stat.Histogram(nil, hist.Dividers, vals, nil)
	}

	return res, nil
}

// ICQQ pairs the sorted information coefficients of each column with the quantiles of a normal
// distribution fitted to them. Each dataframe of the map is indexed by rank and has the columns
// "theoretical" and "sample".
func ICQQ[T comparable](ic *dataframe.DataFrame[T]) dataframe.Map[int] {
	res := make(dataframe.Map[int], len(ic.ColNames))
	for colIdx, colName := range ic.ColNames {
		vals := dataframe.Finite(ic.Vals[colIdx])
		sort.Float64s(vals)

		df := dataframe.New[int]("theoretical", "sample")
		df.Index = make([]int, len(vals))
		theoretical := make([]float64, len(vals))

		mean := dataframe.NaNMean(vals)
		std := dataframe.NaNStdDev(vals)
		for idx := range vals {
			df.Index[idx] = idx + 1
			if std > 0 {
				dist := distuv.Normal{Mu: mean, Sigma: std}
				theoretical[idx] = dist.Quantile(float64(idx+1) / float64(len(vals)+1))
			} else {
				theoretical[idx] = math.NaN()
			}
		}

		df.Vals[0] = theoretical
		df.Vals[1] = vals
		res[colName] = df
	}
	return res
}

// ICMonthlyHeatmap pivots a monthly information coefficient table into one dataframe per
// holding period indexed by year with one column per calendar month. Months without a value
// are NaN. Rows of the same month are averaged.
func ICMonthlyHeatmap(monthlyIC *dataframe.DataFrame[Key]) dataframe.Map[int] {
	res := make(dataframe.Map[int], len(monthlyIC.ColNames))

	byMonth := ICSeries(monthlyIC).Resample(dataframe.Monthly)

	years := make([]int, 0)
	seen := make(map[int]bool)
	for _, dt := range byMonth.Index {
		if !seen[dt.Year()] {
			seen[dt.Year()] = true
			years = append(years, dt.Year())
		}
	}
	sort.Ints(years)

	yearIdx := make(map[int]int, len(years))
	for idx, year := range years {
		yearIdx[year] = idx
	}

	for colIdx, colName := range monthlyIC.ColNames {
		df := dataframe.New[int](monthNames...)
		df.Index = make([]int, len(years))
		copy(df.Index, years)
		for month := range df.Vals {
			col := make([]float64, len(years))
			for idx := range col {
				col[idx] = math.NaN()
			}
			df.Vals[month] = col
		}

		for rowIdx, dt := range byMonth.Index {
			df.Vals[int(dt.Month())-1][yearIdx[dt.Year()]] = byMonth.Vals[colIdx][rowIdx]
		}

		res[colName] = df
	}

	return res
}
