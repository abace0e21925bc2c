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
	"github.com/penny-vault/factorlens/dataframe"
	"github.com/penny-vault/factorlens/factor"
	"github.com/rs/zerolog"
)

// Options configures which variants of the core computations a report runs
type Options struct {
	// LongShort demeans factor values when weighting and demeans quantile returns
	LongShort bool `json:"long_short" toml:"long_short" mapstructure:"long_short"`

	// GroupAdjust demeans returns within groups
	GroupAdjust bool `json:"group_adjust" toml:"group_adjust" mapstructure:"group_adjust"`

	// ByGroup adds per group breakdowns to the reports
	ByGroup bool `json:"by_group" toml:"by_group" mapstructure:"by_group"`

	EqualWeight bool `json:"equal_weight" toml:"equal_weight" mapstructure:"equal_weight"`

	// Demeaned subtracts the mean event path of each event date
	Demeaned bool `json:"demeaned" toml:"demeaned" mapstructure:"demeaned"`

	PeriodsBefore int `json:"periods_before" toml:"periods_before" mapstructure:"periods_before"`
	PeriodsAfter  int `json:"periods_after" toml:"periods_after" mapstructure:"periods_after"`

	// ICBucket is the resample rule (W, M, Q, A) of the mean information coefficient
	ICBucket string `json:"ic_bucket" toml:"ic_bucket" mapstructure:"ic_bucket"`

	// BasePeriod is the holding period that mean returns are normalized to
	BasePeriod string `json:"base_period" toml:"base_period" mapstructure:"base_period"`

	HistogramBins int `json:"histogram_bins" toml:"histogram_bins" mapstructure:"histogram_bins"`

	// Start and End restrict the panel to observations between the two dates (inclusive); an
	// empty bound is open
	Start string `json:"start,omitempty" toml:"start,omitempty" mapstructure:"start"`
	End   string `json:"end,omitempty" toml:"end,omitempty" mapstructure:"end"`
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		LongShort:     true,
		Demeaned:      true,
		PeriodsBefore: 5,
		PeriodsAfter:  15,
		ICBucket:      "M",
		BasePeriod:    "1D",
		HistogramBins: 20,
	}
}

func (opts Options) weightOptions() factor.WeightOptions {
	return factor.WeightOptions{
		LongShort:   opts.LongShort,
		GroupAdjust: opts.GroupAdjust,
		EqualWeight: opts.EqualWeight,
	}
}

func (opts Options) quantileOptions(byDate, byGroup bool) factor.QuantileReturnOptions {
	return factor.QuantileReturnOptions{
		ByDate:      byDate,
		ByGroup:     byGroup,
		Demeaned:    opts.LongShort,
		GroupAdjust: opts.GroupAdjust,
	}
}

func (opts Options) icOptions(byGroup bool) factor.ICOptions {
	return factor.ICOptions{
		GroupAdjust: opts.GroupAdjust,
		ByGroup:     byGroup,
	}
}

func (opts Options) basePeriod() (factor.Period, error) {
	return factor.ParsePeriod(opts.BasePeriod)
}

func (opts Options) bucket() (dataframe.BucketFunc, error) {
	return dataframe.ParseBucket(opts.ICBucket)
}

// MarshalZerologObject implements the zerolog.LogObjectMarshaler interface
func (opts Options) MarshalZerologObject(e *zerolog.Event) {
	e.Bool("LongShort", opts.LongShort).
		Bool("GroupAdjust", opts.GroupAdjust).
		Bool("ByGroup", opts.ByGroup).
		Bool("EqualWeight", opts.EqualWeight).
		Bool("Demeaned", opts.Demeaned).
		Int("PeriodsBefore", opts.PeriodsBefore).
		Int("PeriodsAfter", opts.PeriodsAfter).
		Str("ICBucket", opts.ICBucket).
		Str("BasePeriod", opts.BasePeriod).
		Int("HistogramBins", opts.HistogramBins).
		Str("Start", opts.Start).
		Str("End", opts.End)
}
