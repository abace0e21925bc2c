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

// EventOptions describes the window drawn around every observation
type EventOptions struct {
	PeriodsBefore int
	PeriodsAfter  int

	// Demeaned subtracts the mean path of all observations sharing the event date
	Demeaned bool
}

type eventPath struct {
	date     int64
	quantile int
	path     []float64
}

// AverageCumulativeReturnByQuantile draws, for every observation of the panel, the price path of
// its asset from PeriodsBefore rows before to PeriodsAfter rows after the observation date and
// rebases it to 1.0 at the event date. The paths are averaged per quantile; std holds the sample
// standard deviation across the paths of a quantile. Both results are indexed by the offset
// relative to the event date and have one column per quantile.
//
// prices is indexed by date with one column per asset. Observations whose date or asset is not in
// prices, whose window runs past either edge of prices, or whose event date price is not a
// positive number are excluded.
func AverageCumulativeReturnByQuantile(panel *Panel, prices *dataframe.DataFrame[time.Time], opts EventOptions) (mean, std *dataframe.DataFrame[int], err error) {
	if opts.PeriodsBefore < 0 || opts.PeriodsAfter < 0 {
		return nil, nil, fmt.Errorf("%w: before=%d after=%d", ErrInvalidWindow, opts.PeriodsBefore, opts.PeriodsAfter)
	}

	paths, skipped := eventPaths(panel, prices, opts)
	log.Debug().Object("Options", opts).Int("NumEvents", len(paths)).Int("NumSkipped", skipped).Msg("drew event windows")

	if opts.Demeaned {
		demeanPaths(paths)
	}

	width := opts.PeriodsBefore + opts.PeriodsAfter + 1
	names := make([]string, panel.quantiles)
	for q := 1; q <= panel.quantiles; q++ {
		names[q-1] = strconv.Itoa(q)
	}

	mean = dataframe.New[int](names...)
	std = dataframe.New[int](names...)
	mean.Index = make([]int, width)
	std.Index = make([]int, width)
	for offset := 0; offset < width; offset++ {
		mean.Index[offset] = offset - opts.PeriodsBefore
		std.Index[offset] = offset - opts.PeriodsBefore
	}

	byQuantile := make([][]*eventPath, panel.quantiles)
	for _, p := range paths {
		byQuantile[p.quantile-1] = append(byQuantile[p.quantile-1], p)
	}

	for qIdx, qPaths := range byQuantile {
		meanCol := make([]float64, width)
		stdCol := make([]float64, width)
		vals := make([]float64, len(qPaths))
		for offset := 0; offset < width; offset++ {
			for idx, p := range qPaths {
				vals[idx] = p.path[offset]
			}
			meanCol[offset] = dataframe.NaNMean(vals)
			stdCol[offset] = dataframe.NaNStdDev(vals)
		}
		mean.Vals[qIdx] = meanCol
		std.Vals[qIdx] = stdCol
	}

	return mean, std, nil
}

// eventPaths extracts the rebased price path of every observation with a complete window
func eventPaths(panel *Panel, prices *dataframe.DataFrame[time.Time], opts EventOptions) (paths []*eventPath, skipped int) {
	priceRow := make(map[int64]int, prices.Len())
	for idx, dt := range prices.Index {
		priceRow[dt.UnixNano()] = idx
	}

	width := opts.PeriodsBefore + opts.PeriodsAfter + 1
	paths = make([]*eventPath, 0, len(panel.obs))

	for _, o := range panel.obs {
		rowIdx, ok := priceRow[o.Date.UnixNano()]
		if !ok {
			log.Debug().Str("Asset", o.Asset).Time("Date", o.Date).Msg("event date not in price history")
			skipped++
			continue
		}

		colIdx := prices.ColIndex(o.Asset)
		if colIdx == -1 {
			log.Debug().Str("Asset", o.Asset).Time("Date", o.Date).Msg("asset not in price history")
			skipped++
			continue
		}

		first := rowIdx - opts.PeriodsBefore
		last := rowIdx + opts.PeriodsAfter
		if first < 0 || last >= prices.Len() {
			log.Debug().Str("Asset", o.Asset).Time("Date", o.Date).Int("First", first).Int("Last", last).
				Msg("event window exceeds price history")
			skipped++
			continue
		}

		col := prices.Vals[colIdx]
		base := col[rowIdx]
		if math.IsNaN(base) || math.IsInf(base, 0) || base <= 0 {
			log.Debug().Str("Asset", o.Asset).Time("Date", o.Date).Float64("Price", base).Msg("event date price is not usable")
			skipped++
			continue
		}

		path := make([]float64, width)
		for offset := 0; offset < width; offset++ {
			path[offset] = col[first+offset] / base
		}

		paths = append(paths, &eventPath{
			date:     o.Date.UnixNano(),
			quantile: o.Quantile,
			path:     path,
		})
	}

	return paths, skipped
}

// demeanPaths subtracts the mean path of each event date cohort from its members
func demeanPaths(paths []*eventPath) {
	cohorts := make(map[int64][]*eventPath)
	for _, p := range paths {
		cohorts[p.date] = append(cohorts[p.date], p)
	}

	for _, cohort := range cohorts {
		width := len(cohort[0].path)
		vals := make([]float64, len(cohort))
		for offset := 0; offset < width; offset++ {
			for idx, p := range cohort {
				vals[idx] = p.path[offset]
			}
			m := dataframe.NaNMean(vals)
			for _, p := range cohort {
				p.path[offset] -= m
			}
		}
	}
}
