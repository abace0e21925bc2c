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
	"math"
	"time"

	"github.com/penny-vault/factorlens/dataframe"
	"github.com/penny-vault/factorlens/factor"
	"github.com/rs/zerolog/log"
)

// EventReturns holds the average cumulative return of each quantile around the observation dates
type EventReturns struct {
	Mean    *dataframe.DataFrame[int] `json:"mean"`
	Std     *dataframe.DataFrame[int] `json:"std"`
	ByGroup dataframe.Map[int]        `json:"by_group,omitempty"`
}

// NewEventReturns computes the event returns tear sheet. The window after the event always covers
// the longest holding period of the panel.
func NewEventReturns(panel *factor.Panel, prices *dataframe.DataFrame[time.Time], opts Options) (*EventReturns, error) {
	eventOpts := factor.EventOptions{
		PeriodsBefore: opts.PeriodsBefore,
		PeriodsAfter:  opts.PeriodsAfter,
		Demeaned:      opts.Demeaned,
	}

	for _, period := range panel.Periods() {
		if period.Count+1 > eventOpts.PeriodsAfter {
			eventOpts.PeriodsAfter = period.Count + 1
		}
	}

	log.Debug().Object("Options", eventOpts).Msg("computing event returns tear sheet")

	mean, std, err := factor.AverageCumulativeReturnByQuantile(panel, prices, eventOpts)
	if err != nil {
		return nil, err
	}

	report := &EventReturns{
		Mean: mean,
		Std:  std,
	}

	if opts.ByGroup {
		if !panel.HasGroup() {
			return nil, factor.ErrMissingGroup
		}

		report.ByGroup = make(dataframe.Map[int])
		for _, group := range panel.Groups() {
			groupPanel, err := panel.FilterGroup(group)
			if err != nil {
				return nil, err
			}
			groupMean, _, err := factor.AverageCumulativeReturnByQuantile(groupPanel, prices, eventOpts)
			if err != nil {
				return nil, err
			}
			report.ByGroup[group] = groupMean
		}
	}

	return report, nil
}

// Sections lists the tables of the report
func (report *EventReturns) Sections() []Section {
	sections := []Section{
		{Title: "Average Cumulative Returns by Quantile", Body: report.Mean},
		{Title: "Average Cumulative Returns by Quantile (std.)", Body: report.Std},
	}
	if report.ByGroup != nil {
		sections = append(sections, Section{Title: "Average Cumulative Returns by Group", Body: report.ByGroup})
	}
	return sections
}

// EventStudy analyzes a panel whose observations are discrete events. Returns are neither demeaned
// nor normalized.
type EventStudy struct {
	QuantileStatistics          *dataframe.DataFrame[int]        `json:"quantile_statistics"`
	EventsPerDate               *dataframe.DataFrame[time.Time]  `json:"events_per_date"`
	EventReturns                *EventReturns                    `json:"event_returns"`
	MeanReturn                  *dataframe.DataFrame[factor.Key] `json:"mean_return"`
	MeanReturnByDate            *dataframe.DataFrame[factor.Key] `json:"mean_return_by_date"`
	CumulativeReturnsByQuantile dataframe.Map[time.Time]         `json:"cumulative_returns_by_quantile"`
}

// NewEventStudy computes the event study tear sheet
func NewEventStudy(panel *factor.Panel, prices *dataframe.DataFrame[time.Time], opts Options) (*EventStudy, error) {
	opts.LongShort = false
	opts.Demeaned = false
	opts.GroupAdjust = false
	opts.ByGroup = false

	eventReturns, err := NewEventReturns(panel, prices, opts)
	if err != nil {
		return nil, err
	}

	mean, _, err := factor.MeanReturnByQuantile(panel, opts.quantileOptions(false, false))
	if err != nil {
		return nil, err
	}

	daily, _, err := factor.MeanReturnByQuantile(panel, opts.quantileOptions(true, false))
	if err != nil {
		return nil, err
	}

	report := &EventStudy{
		QuantileStatistics:          factor.QuantileStatistics(panel),
		EventsPerDate:               eventsPerDate(panel),
		EventReturns:                eventReturns,
		MeanReturn:                  mean,
		MeanReturnByDate:            daily,
		CumulativeReturnsByQuantile: make(dataframe.Map[time.Time], len(daily.ColNames)),
	}

	for _, colName := range daily.ColNames {
		report.CumulativeReturnsByQuantile[colName] = factor.CumulativeReturns(pivotQuantiles(daily, colName, panel.Quantiles()))
	}

	return report, nil
}

// Sections lists the tables of the report
func (report *EventStudy) Sections() []Section {
	sections := []Section{
		{Title: "Quantiles Statistics", Body: report.QuantileStatistics},
		{Title: "Distribution of Events in Time", Body: report.EventsPerDate},
	}
	sections = append(sections, report.EventReturns.Sections()...)
	sections = append(sections,
		Section{Title: "Mean Return by Quantile", Body: report.MeanReturn},
		Section{Title: "Cumulative Returns by Quantile", Body: report.CumulativeReturnsByQuantile},
	)
	return sections
}

// eventsPerDate counts the observations with a factor value on each date
func eventsPerDate(panel *factor.Panel) *dataframe.DataFrame[time.Time] {
	res := dataframe.New[time.Time]("events")
	res.Index = append(res.Index, panel.Dates()...)
	res.Vals[0] = make([]float64, len(res.Index))

	dateIdx := make(map[int64]int, len(res.Index))
	for idx, dt := range res.Index {
		dateIdx[dt.UnixNano()] = idx
	}

	for _, o := range panel.Observations() {
		if !math.IsNaN(o.Factor) {
			res.Vals[0][dateIdx[o.Date.UnixNano()]]++
		}
	}

	return res
}
