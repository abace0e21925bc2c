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

	"github.com/penny-vault/factorlens/dataframe"
)

// ComputeMeanReturnsSpread computes the difference between the mean returns of the upper and lower
// quantile, matching rows on date and group. When stdErr is provided the pooled standard error
// sqrt(se_upper^2 + se_lower^2) is returned as well; otherwise spreadStdErr is nil.
//
// Rows present for only one of the quantiles produce NaN. A quantile without any row in mean is a
// caller error and returns ErrQuantileNotFound.
func ComputeMeanReturnsSpread(mean *dataframe.DataFrame[Key], upper, lower int, stdErr *dataframe.DataFrame[Key]) (spread, spreadStdErr *dataframe.DataFrame[Key], err error) {
	upperRows := quantileRows(mean, upper)
	if len(upperRows) == 0 {
		return nil, nil, fmt.Errorf("%w: upper quantile %d", ErrQuantileNotFound, upper)
	}

	lowerRows := quantileRows(mean, lower)
	if len(lowerRows) == 0 {
		return nil, nil, fmt.Errorf("%w: lower quantile %d", ErrQuantileNotFound, lower)
	}

	// outer join of both quantiles keyed by date and group
	keys := make([]Key, 0, len(upperRows))
	for _, rowIdx := range orderedRows(mean, upper) {
		keys = append(keys, mean.Index[rowIdx].WithoutQuantile())
	}
	for _, rowIdx := range orderedRows(mean, lower) {
		key := mean.Index[rowIdx].WithoutQuantile()
		if _, ok := upperRows[key]; !ok {
			keys = append(keys, key)
		}
	}

	spread = newKeyFrame(keys, mean.ColNames)
	for colIdx := range mean.ColNames {
		for keyIdx, key := range keys {
			spread.Vals[colIdx][keyIdx] = lookup(mean, colIdx, upperRows, key) - lookup(mean, colIdx, lowerRows, key)
		}
	}

	if stdErr == nil {
		return sortByKey(spread), nil, nil
	}

	stdUpper := quantileRows(stdErr, upper)
	stdLower := quantileRows(stdErr, lower)

	spreadStdErr = newKeyFrame(keys, mean.ColNames)
	for colIdx, colName := range mean.ColNames {
		seColIdx := stdErr.ColIndex(colName)
		for keyIdx, key := range keys {
			if seColIdx == -1 {
				spreadStdErr.Vals[colIdx][keyIdx] = math.NaN()
				continue
			}
			su := lookup(stdErr, seColIdx, stdUpper, key)
			sl := lookup(stdErr, seColIdx, stdLower, key)
			spreadStdErr.Vals[colIdx][keyIdx] = math.Sqrt(su*su + sl*sl)
		}
	}

	return sortByKey(spread), sortByKey(spreadStdErr), nil
}

// quantileRows maps the date and group of every row belonging to quantile to its row index
func quantileRows(df *dataframe.DataFrame[Key], quantile int) map[Key]int {
	rows := make(map[Key]int)
	for rowIdx, key := range df.Index {
		if key.Quantile == quantile {
			rows[key.WithoutQuantile()] = rowIdx
		}
	}
	return rows
}

func orderedRows(df *dataframe.DataFrame[Key], quantile int) []int {
	rows := make([]int, 0)
	for rowIdx, key := range df.Index {
		if key.Quantile == quantile {
			rows = append(rows, rowIdx)
		}
	}
	return rows
}

func lookup(df *dataframe.DataFrame[Key], colIdx int, rows map[Key]int, key Key) float64 {
	rowIdx, ok := rows[key]
	if !ok {
		return math.NaN()
	}
	return df.Vals[colIdx][rowIdx]
}
