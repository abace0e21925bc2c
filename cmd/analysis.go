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

package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/penny-vault/factorlens/data"
	"github.com/penny-vault/factorlens/factor"
	"github.com/penny-vault/factorlens/tearsheet"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var ErrEmptyDateRange = errors.New("no factor observations in date range")

func bindAnalysisFlags(root *cobra.Command) {
	defaults := tearsheet.DefaultOptions()
	flags := root.PersistentFlags()

	viper.BindEnv("analysis.long_short", "FACTORLENS_LONG_SHORT")
	flags.Bool("long-short", defaults.LongShort, "Demean factor values and returns to measure a dollar neutral portfolio")
	viper.BindPFlag("analysis.long_short", flags.Lookup("long-short"))

	viper.BindEnv("analysis.group_adjust", "FACTORLENS_GROUP_NEUTRAL")
	flags.Bool("group-neutral", defaults.GroupAdjust, "Demean returns within each group")
	viper.BindPFlag("analysis.group_adjust", flags.Lookup("group-neutral"))

	viper.BindEnv("analysis.by_group", "FACTORLENS_BY_GROUP")
	flags.Bool("by-group", defaults.ByGroup, "Break reports out by group")
	viper.BindPFlag("analysis.by_group", flags.Lookup("by-group"))

	viper.BindEnv("analysis.equal_weight", "FACTORLENS_EQUAL_WEIGHT")
	flags.Bool("equal-weight", defaults.EqualWeight, "Weight assets equally instead of by factor value")
	viper.BindPFlag("analysis.equal_weight", flags.Lookup("equal-weight"))

	viper.BindEnv("analysis.demeaned", "FACTORLENS_DEMEANED")
	flags.Bool("demeaned", defaults.Demeaned, "Subtract the mean event path of each date")
	viper.BindPFlag("analysis.demeaned", flags.Lookup("demeaned"))

	viper.BindEnv("analysis.periods_before", "FACTORLENS_PERIODS_BEFORE")
	flags.Int("periods-before", defaults.PeriodsBefore, "Number of prices before each event")
	viper.BindPFlag("analysis.periods_before", flags.Lookup("periods-before"))

	viper.BindEnv("analysis.periods_after", "FACTORLENS_PERIODS_AFTER")
	flags.Int("periods-after", defaults.PeriodsAfter, "Number of prices after each event")
	viper.BindPFlag("analysis.periods_after", flags.Lookup("periods-after"))

	viper.BindEnv("analysis.ic_bucket", "FACTORLENS_IC_BUCKET")
	flags.String("ic-bucket", defaults.ICBucket, "Bucket the mean information coefficient by one of: W, M, Q, A")
	viper.BindPFlag("analysis.ic_bucket", flags.Lookup("ic-bucket"))

	viper.BindEnv("analysis.base_period", "FACTORLENS_BASE_PERIOD")
	flags.String("base-period", defaults.BasePeriod, "Holding period mean returns are normalized to")
	viper.BindPFlag("analysis.base_period", flags.Lookup("base-period"))

	viper.BindEnv("analysis.histogram_bins", "FACTORLENS_HISTOGRAM_BINS")
	flags.Int("histogram-bins", defaults.HistogramBins, "Number of bins in the information coefficient histogram")
	viper.BindPFlag("analysis.histogram_bins", flags.Lookup("histogram-bins"))

	viper.BindEnv("analysis.start", "FACTORLENS_START")
	flags.String("start", defaults.Start, "Ignore factor observations before this date (2006-01-02)")
	viper.BindPFlag("analysis.start", flags.Lookup("start"))

	viper.BindEnv("analysis.end", "FACTORLENS_END")
	flags.String("end", defaults.End, "Ignore factor observations after this date (2006-01-02)")
	viper.BindPFlag("analysis.end", flags.Lookup("end"))
}

// analysisOptions reads the effective analysis settings from flags, environment and config file
func analysisOptions() tearsheet.Options {
	return tearsheet.Options{
		LongShort:     viper.GetBool("analysis.long_short"),
		GroupAdjust:   viper.GetBool("analysis.group_adjust"),
		ByGroup:       viper.GetBool("analysis.by_group"),
		EqualWeight:   viper.GetBool("analysis.equal_weight"),
		Demeaned:      viper.GetBool("analysis.demeaned"),
		PeriodsBefore: viper.GetInt("analysis.periods_before"),
		PeriodsAfter:  viper.GetInt("analysis.periods_after"),
		ICBucket:      viper.GetString("analysis.ic_bucket"),
		BasePeriod:    viper.GetString("analysis.base_period"),
		HistogramBins: viper.GetInt("analysis.histogram_bins"),
		Start:         viper.GetString("analysis.start"),
		End:           viper.GetString("analysis.end"),
	}
}

// trimPanel restricts the panel to the start and end dates of opts
func trimPanel(panel *factor.Panel, opts tearsheet.Options) (*factor.Panel, error) {
	if opts.Start == "" && opts.End == "" {
		return panel, nil
	}

	begin := time.Time{}
	end := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

	var err error
	if opts.Start != "" {
		if begin, err = data.ParseDate(opts.Start); err != nil {
			return nil, fmt.Errorf("start: %w", err)
		}
	}
	if opts.End != "" {
		if end, err = data.ParseDate(opts.End); err != nil {
			return nil, fmt.Errorf("end: %w", err)
		}
	}

	trimmed := panel.Trim(begin, end)
	if trimmed.Len() == 0 {
		return nil, fmt.Errorf("%w: %s to %s", ErrEmptyDateRange, opts.Start, opts.End)
	}

	log.Info().Str("Start", opts.Start).Str("End", opts.End).Int("Observations", trimmed.Len()).Int("Dates", len(trimmed.Dates())).Msg("trimmed factor panel")
	return trimmed, nil
}
