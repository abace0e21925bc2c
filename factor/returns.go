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
	"github.com/rs/zerolog/log"
)

// QuantileReturnOptions controls how MeanReturnByQuantile groups and adjusts returns
type QuantileReturnOptions struct {
	// ByDate keeps the date dimension; otherwise daily means are averaged across dates
	ByDate bool

	// ByGroup keeps the group dimension
	ByGroup bool

	// Demeaned subtracts the cross-sectional mean return of each date
	Demeaned bool

	// GroupAdjust subtracts the mean return of each (date, group) cohort; takes precedence over Demeaned
	GroupAdjust bool
}

// MeanReturnByQuantile computes the mean forward return of each factor quantile together with its
// standard error. Both tables share the same index and have one column per holding period.
//
// When ByDate is false the mean is the average of the per-date means and the standard error is
// computed from the dispersion of those per-date means.
func MeanReturnByQuantile(panel *Panel, opts QuantileReturnOptions) (mean, stdErr *dataframe.DataFrame[Key], err error) {
	if (opts.ByGroup || opts.GroupAdjust) && !panel.HasGroup() {
		return nil, nil, ErrMissingGroup
	}

	log.Debug().Object("Options", opts).Msg("computing mean return by quantile")

	returns := forwardReturns(panel, opts.Demeaned, opts.GroupAdjust)

	keys, rows := groupRows(panel, func(o *Observation) Key {
		key := Key{Quantile: o.Quantile, Date: o.Date}
		if opts.ByGroup {
			key.Group = o.Group
		}
		return key
	})

	mean = newKeyFrame(keys, panel.PeriodNames())
	std := newKeyFrame(keys, panel.PeriodNames())
	count := newKeyFrame(keys, panel.PeriodNames())

	for periodIdx := range panel.periods {
		for keyIdx, key := range keys {
			vals := dataframe.Finite(pick(returns[periodIdx], rows[key]))
			mean.Vals[periodIdx][keyIdx] = dataframe.NaNMean(vals)
			std.Vals[periodIdx][keyIdx] = dataframe.NaNStdDev(vals)
			count.Vals[periodIdx][keyIdx] = float64(len(vals))
		}
	}

	if !opts.ByDate {
		mean, std, count = collapseDates(mean, opts.ByGroup)
	}

	stdErr = std.Copy()
	for colIdx := range stdErr.Vals {
		for rowIdx, s := range stdErr.Vals[colIdx] {
			stdErr.Vals[colIdx][rowIdx] = s / math.Sqrt(count.Vals[colIdx][rowIdx])
		}
	}

	return mean, stdErr, nil
}

// collapseDates averages per-date means into per-quantile (and per-group) means, returning the
// mean, standard deviation and number of dates of each cohort
func collapseDates(daily *dataframe.DataFrame[Key], byGroup bool) (mean, std, count *dataframe.DataFrame[Key]) {
	rows := make(map[Key][]int)
	keys := make([]Key, 0)
	for rowIdx, key := range daily.Index {
		collapsed := Key{Quantile: key.Quantile}
		if byGroup {
			collapsed.Group = key.Group
		}
		if _, ok := rows[collapsed]; !ok {
			keys = append(keys, collapsed)
		}
		rows[collapsed] = append(rows[collapsed], rowIdx)
	}

	mean = newKeyFrame(keys, daily.ColNames)
	std = newKeyFrame(keys, daily.ColNames)
	count = newKeyFrame(keys, daily.ColNames)

	for colIdx := range daily.ColNames {
		for keyIdx, key := range keys {
			vals := dataframe.Finite(pick(daily.Vals[colIdx], rows[key]))
			mean.Vals[colIdx][keyIdx] = dataframe.NaNMean(vals)
			std.Vals[colIdx][keyIdx] = dataframe.NaNStdDev(vals)
			count.Vals[colIdx][keyIdx] = float64(len(vals))
		}
	}

	return sortByKey(mean), sortByKey(std), sortByKey(count)
}

func newKeyFrame(keys []Key, colNames []string) *dataframe.DataFrame[Key] {
	df := dataframe.New[Key](colNames...)
	df.Index = make([]Key, len(keys))
	copy(df.Index, keys)
	for colIdx := range df.Vals {
		df.Vals[colIdx] = make([]float64, len(keys))
	}
	return df
}

// RateOfReturn converts a series of forward returns into the growth of $1. The value at index 0
// is the baseline and is exactly 1.0; every later value compounds the forward returns of the
// preceding indices multiplicatively. Missing returns are treated as 0.
func RateOfReturn(returns []float64) []float64 {
	growth := make([]float64, len(returns))
	if len(returns) == 0 {
		return growth
	}

	growth[0] = 1.0
	for idx := 1; idx < len(returns); idx++ {
		r := returns[idx-1]
		if math.IsNaN(r) || math.IsInf(r, 0) {
			r = 0
		}
		growth[idx] = growth[idx-1] * (1 + r)
	}

	return growth
}

// CumulativeReturns applies RateOfReturn to every column of df and returns a new dataframe
func CumulativeReturns[T comparable](df *dataframe.DataFrame[T]) *dataframe.DataFrame[T] {
	res := df.Copy()
	for colIdx := range res.Vals {
		res.Vals[colIdx] = RateOfReturn(df.Vals[colIdx])
	}
	return res
}
