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
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/penny-vault/factorlens/dataframe"
)

// TradingDaysPerYear is used to annualize returns
const TradingDaysPerYear = 252

var (
	periodRegex      = regexp.MustCompile(`^(\d+(ms|us|ns|W|D|h|m|s))+$`)
	periodTokenRegex = regexp.MustCompile(`(\d+)(ms|us|ns|W|D|h|m|s)`)

	periodUnits = map[string]time.Duration{
		"W":  7 * 24 * time.Hour,
		"D":  24 * time.Hour,
		"h":  time.Hour,
		"m":  time.Minute,
		"s":  time.Second,
		"ms": time.Millisecond,
		"us": time.Microsecond,
		"ns": time.Nanosecond,
	}
)

// Period is a holding period parsed from the name of a forward return column, e.g. 1D, 1W or 1D2h
type Period struct {
	Name     string
	Duration time.Duration

	// Count is the duration expressed in the smallest unit used in Name; it is the number of
	// panel dates between a date and the date one holding period earlier
	Count int
}

// ParsePeriod parses a forward return column name
func ParsePeriod(name string) (Period, error) {
	if !periodRegex.MatchString(name) {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, name)
	}

	var (
		duration time.Duration
		smallest time.Duration
	)

	for _, token := range periodTokenRegex.FindAllStringSubmatch(name, -1) {
		n, err := strconv.Atoi(token[1])
		if err != nil {
			return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, name)
		}
		unit := periodUnits[token[2]]
		duration += time.Duration(n) * unit
		if smallest == 0 || unit < smallest {
			smallest = unit
		}
	}

	if duration <= 0 {
		return Period{}, fmt.Errorf("%w: %q has zero length", ErrInvalidPeriod, name)
	}

	return Period{
		Name:     name,
		Duration: duration,
		Count:    int(duration / smallest),
	}, nil
}

// ForwardReturnsColumns returns the periods of every column whose name is a valid holding
// period, ordered by holding period length. Other columns are ignored.
func ForwardReturnsColumns(columns []string) []Period {
	periods := make([]Period, 0, len(columns))
	for _, col := range columns {
		if period, err := ParsePeriod(col); err == nil {
			periods = append(periods, period)
		}
	}

	sort.SliceStable(periods, func(i, j int) bool {
		return periods[i].Duration < periods[j].Duration
	})

	return periods
}

// Lag is the number of panel dates spanned by the period; never less than 1
func (p Period) Lag() int {
	if p.Count < 1 {
		return 1
	}
	return p.Count
}

// String returns the period name
func (p Period) String() string {
	return p.Name
}

// NormalizeReturn converts a return earned over period into the equivalent compounded
// return over the base period: (1+r)^(base/period) - 1
func NormalizeReturn(r float64, period, base Period) float64 {
	return math.Pow(1+r, float64(base.Duration)/float64(period.Duration)) - 1
}

// NormalizeStdErr scales a standard error measured over period to the base period assuming
// independent increments: se / sqrt(period/base)
func NormalizeStdErr(se float64, period, base Period) float64 {
	return se / math.Sqrt(float64(period.Duration)/float64(base.Duration))
}

// NormalizeReturns applies NormalizeReturn to every column of df; column names must be
// holding periods
func NormalizeReturns[T comparable](df *dataframe.DataFrame[T], base Period) (*dataframe.DataFrame[T], error) {
	return normalizeColumns(df, func(v float64, period Period) float64 {
		return NormalizeReturn(v, period, base)
	})
}

// NormalizeStdErrs applies NormalizeStdErr to every column of df; column names must be
// holding periods
func NormalizeStdErrs[T comparable](df *dataframe.DataFrame[T], base Period) (*dataframe.DataFrame[T], error) {
	return normalizeColumns(df, func(v float64, period Period) float64 {
		return NormalizeStdErr(v, period, base)
	})
}

func normalizeColumns[T comparable](df *dataframe.DataFrame[T], fn func(float64, Period) float64) (*dataframe.DataFrame[T], error) {
	res := df.Copy()
	for colIdx, colName := range res.ColNames {
		period, err := ParsePeriod(colName)
		if err != nil {
			return nil, err
		}
		for rowIdx, v := range res.Vals[colIdx] {
			res.Vals[colIdx][rowIdx] = fn(v, period)
		}
	}
	return res, nil
}
