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
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/penny-vault/factorlens/dataframe"
)

// Key is the composite row key of aggregated tables. Zero valued fields are not part of the key;
// e.g. a mean return by quantile table has only Quantile set.
type Key struct {
	Quantile int
	Date     time.Time
	Group    string
}

// String formats the set fields of the key separated by '/'
func (k Key) String() string {
	parts := make([]string, 0, 3)
	if k.Quantile != 0 {
		parts = append(parts, strconv.Itoa(k.Quantile))
	}
	if !k.Date.IsZero() {
		parts = append(parts, k.Date.Format("2006-01-02"))
	}
	if k.Group != "" {
		parts = append(parts, k.Group)
	}
	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, "/")
}

// WithoutQuantile returns a copy of the key with the quantile cleared
func (k Key) WithoutQuantile() Key {
	k.Quantile = 0
	return k
}

func (k Key) less(other Key) bool {
	if k.Quantile != other.Quantile {
		return k.Quantile < other.Quantile
	}
	if !k.Date.Equal(other.Date) {
		return k.Date.Before(other.Date)
	}
	return k.Group < other.Group
}

// sortByKey returns a copy of df with its rows ordered by quantile, date and group
func sortByKey(df *dataframe.DataFrame[Key]) *dataframe.DataFrame[Key] {
	order := make([]int, df.Len())
	for idx := range order {
		order[idx] = idx
	}
	sort.SliceStable(order, func(i, j int) bool {
		return df.Index[order[i]].less(df.Index[order[j]])
	})

	res := dataframe.New[Key](df.ColNames...)
	res.Index = make([]Key, len(order))
	for idx, rowIdx := range order {
		res.Index[idx] = df.Index[rowIdx]
	}
	for colIdx := range df.Vals {
		col := make([]float64, len(order))
		for idx, rowIdx := range order {
			col[idx] = df.Vals[colIdx][rowIdx]
		}
		res.Vals[colIdx] = col
	}
	return res
}
