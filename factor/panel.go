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
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Observation is a single (date, asset) row of the factor panel
type Observation struct {
	Date     time.Time
	Asset    string
	Factor   float64
	Quantile int
	Group    string

	// Returns holds one forward return per column passed to NewPanel; after the panel is
	// built it is aligned with Panel.Periods. Missing values are math.NaN()
	Returns []float64
}

// Panel is an immutable factor panel sorted by date and asset
type Panel struct {
	periods   []Period
	obs       []*Observation
	dates     []time.Time
	dateIdx   []int
	quantiles int
	hasGroup  bool
}

// NewPanel validates the observations and builds a panel. columns names the entries of each
// observation's Returns slice; only columns that parse as holding periods are kept and they are
// ordered by holding period length. The observations are copied and left unmodified.
func NewPanel(columns []string, observations []*Observation) (*Panel, error) {
	// map period back to its position in the input columns
	colPos := make(map[string]int, len(columns))
	for idx, col := range columns {
		colPos[col] = idx
	}

	periods := ForwardReturnsColumns(columns)
	if len(periods) == 0 {
		return nil, fmt.Errorf("%w: columns [%s]", ErrNoPeriodColumns, strings.Join(columns, ", "))
	}

	// canonical time value per instant so dates can be used as map keys
	canonical := make(map[int64]time.Time)

	obs := make([]*Observation, 0, len(observations))
	seen := make(map[int]bool)
	for _, o := range observations {
		if len(o.Returns) != len(columns) {
			return nil, fmt.Errorf("%w: %s on %s has %d returns, expected %d", ErrReturnsLength,
				o.Asset, o.Date.Format("2006-01-02"), len(o.Returns), len(columns))
		}

		if o.Quantile < 1 {
			return nil, fmt.Errorf("%w: %s on %s", ErrMissingQuantile, o.Asset, o.Date.Format("2006-01-02"))
		}

		dt, ok := canonical[o.Date.UnixNano()]
		if !ok {
			dt = o.Date
			canonical[o.Date.UnixNano()] = dt
		}

		cp := &Observation{
			Date:     dt,
			Asset:    o.Asset,
			Factor:   o.Factor,
			Quantile: o.Quantile,
			Group:    o.Group,
			Returns:  make([]float64, len(periods)),
		}

		for idx, period := range periods {
			cp.Returns[idx] = o.Returns[colPos[period.Name]]
		}

		seen[o.Quantile] = true
		obs = append(obs, cp)
	}

	quantiles := 0
	for q := range seen {
		if q > quantiles {
			quantiles = q
		}
	}

	for q := 1; q <= quantiles; q++ {
		if !seen[q] {
			return nil, fmt.Errorf("%w: quantile %d has no observations (max quantile %d)", ErrQuantileGap, q, quantiles)
		}
	}

	sort.SliceStable(obs, func(i, j int) bool {
		if !obs[i].Date.Equal(obs[j].Date) {
			return obs[i].Date.Before(obs[j].Date)
		}
		return obs[i].Asset < obs[j].Asset
	})

	panel := build(periods, obs, quantiles)
	log.Debug().Int("NumObservations", len(obs)).Int("NumDates", len(panel.dates)).Int("Quantiles", quantiles).
		Strs("Periods", panel.PeriodNames()).Msg("built factor panel")

	return panel, nil
}

// build assumes obs is sorted by date and asset
func build(periods []Period, obs []*Observation, quantiles int) *Panel {
	panel := &Panel{
		periods:   periods,
		obs:       obs,
		dateIdx:   make([]int, len(obs)),
		quantiles: quantiles,
	}

	for idx, o := range obs {
		if len(panel.dates) == 0 || !panel.dates[len(panel.dates)-1].Equal(o.Date) {
			panel.dates = append(panel.dates, o.Date)
		}
		panel.dateIdx[idx] = len(panel.dates) - 1
		if o.Group != "" {
			panel.hasGroup = true
		}
	}

	return panel
}

// Dates returns the unique dates of the panel in ascending order
func (panel *Panel) Dates() []time.Time {
	return panel.dates
}

// Len returns the number of observations in the panel
func (panel *Panel) Len() int {
	return len(panel.obs)
}

// Observations returns the rows of the panel sorted by date and asset. The returned
// observations must not be modified.
func (panel *Panel) Observations() []*Observation {
	return panel.obs
}

// Periods returns the holding periods of the panel ordered by length
func (panel *Panel) Periods() []Period {
	return panel.periods
}

// PeriodNames returns the names of the holding periods ordered by length
func (panel *Panel) PeriodNames() []string {
	names := make([]string, len(panel.periods))
	for idx, period := range panel.periods {
		names[idx] = period.Name
	}
	return names
}

// Period looks up a holding period by column name
func (panel *Panel) Period(name string) (Period, error) {
	for _, period := range panel.periods {
		if period.Name == name {
			return period, nil
		}
	}
	return Period{}, fmt.Errorf("%w: %q (available: %s)", ErrPeriodNotFound, name, strings.Join(panel.PeriodNames(), ", "))
}

func (panel *Panel) periodIndex(name string) int {
	for idx, period := range panel.periods {
		if period.Name == name {
			return idx
		}
	}
	return -1
}

// Quantiles returns the number of quantile buckets (the maximum quantile id)
func (panel *Panel) Quantiles() int {
	return panel.quantiles
}

// HasGroup returns true if any observation carries a group label
func (panel *Panel) HasGroup() bool {
	return panel.hasGroup
}

// Groups returns the unique group labels in sorted order
func (panel *Panel) Groups() []string {
	set := make(map[string]bool)
	for _, o := range panel.obs {
		if o.Group != "" {
			set[o.Group] = true
		}
	}

	groups := make([]string, 0, len(set))
	for g := range set {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// FilterGroup returns a panel containing only the observations of the named group. The
// number of quantiles is inherited from the parent panel.
func (panel *Panel) FilterGroup(group string) (*Panel, error) {
	if !panel.hasGroup {
		return nil, ErrMissingGroup
	}

	obs := make([]*Observation, 0, len(panel.obs))
	for _, o := range panel.obs {
		if o.Group == group {
			obs = append(obs, o)
		}
	}

	return build(panel.periods, obs, panel.quantiles), nil
}

// Trim returns a panel restricted to observations between begin and end (inclusive)
func (panel *Panel) Trim(begin, end time.Time) *Panel {
	obs := make([]*Observation, 0, len(panel.obs))
	for _, o := range panel.obs {
		if !o.Date.Before(begin) && !o.Date.After(end) {
			obs = append(obs, o)
		}
	}
	return build(panel.periods, obs, panel.quantiles)
}

// returns extracts the forward returns of every observation for the period at periodIdx
func (panel *Panel) returns(periodIdx int) []float64 {
	res := make([]float64, len(panel.obs))
	for idx, o := range panel.obs {
		res[idx] = o.Returns[periodIdx]
	}
	return res
}

// factors extracts the factor value of every observation
func (panel *Panel) factors() []float64 {
	res := make([]float64, len(panel.obs))
	for idx, o := range panel.obs {
		res[idx] = o.Factor
	}
	return res
}

// assets returns the distinct assets of the panel in sorted order
func (panel *Panel) assets() []string {
	seen := make(map[string]bool)
	res := make([]string, 0)
	for _, o := range panel.obs {
		if !seen[o.Asset] {
			seen[o.Asset] = true
			res = append(res, o.Asset)
		}
	}
	sort.Strings(res)
	return res
}
