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
	"time"

	"github.com/penny-vault/factorlens/dataframe"
	"github.com/penny-vault/factorlens/factor"
	"github.com/rs/zerolog/log"
)

// Returns analyzes the returns of the factor weighted portfolio and of the factor quantiles. Mean
// returns are normalized to the base period.
type Returns struct {
	ReturnsTable                *dataframe.DataFrame[string]     `json:"returns_table"`
	MeanReturn                  *dataframe.DataFrame[factor.Key] `json:"mean_return"`
	MeanReturnStdErr            *dataframe.DataFrame[factor.Key] `json:"mean_return_std_err"`
	MeanReturnByDate            *dataframe.DataFrame[factor.Key] `json:"mean_return_by_date"`
	MeanReturnByDateStdErr      *dataframe.DataFrame[factor.Key] `json:"mean_return_by_date_std_err"`
	FactorReturns               *dataframe.DataFrame[time.Time]  `json:"factor_returns"`
	CumulativeFactorReturns     *dataframe.DataFrame[time.Time]  `json:"cumulative_factor_returns"`
	CumulativeReturnsByQuantile dataframe.Map[time.Time]         `json:"cumulative_returns_by_quantile"`
	Spread                      *dataframe.DataFrame[factor.Key] `json:"spread"`
	SpreadStdErr                *dataframe.DataFrame[factor.Key] `json:"spread_std_err"`
	MeanReturnByGroup           *dataframe.DataFrame[factor.Key] `json:"mean_return_by_group,omitempty"`
	MeanReturnByGroupStdErr     *dataframe.DataFrame[factor.Key] `json:"mean_return_by_group_std_err,omitempty"`
}

// NewReturns computes the returns tear sheet
func NewReturns(panel *factor.Panel, opts Options) (*Returns, error) {
	log.Debug().Object("Options", opts).Msg("computing returns tear sheet")

	base, err := opts.basePeriod()
	if err != nil {
		return nil, err
	}

	report := &Returns{}
	quantiles := panel.Quantiles()

	report.FactorReturns, err = factor.FactorReturns(panel, opts.weightOptions())
	if err != nil {
		return nil, err
	}
	report.CumulativeFactorReturns = factor.CumulativeReturns(report.FactorReturns)

	mean, stdErr, err := factor.MeanReturnByQuantile(panel, opts.quantileOptions(false, false))
	if err != nil {
		return nil, err
	}
	if report.MeanReturn, report.MeanReturnStdErr, err = normalize(mean, stdErr, base); err != nil {
		return nil, err
	}

	daily, dailyStdErr, err := factor.MeanReturnByQuantile(panel, opts.quantileOptions(true, false))
	if err != nil {
		return nil, err
	}
	if report.MeanReturnByDate, report.MeanReturnByDateStdErr, err = normalize(daily, dailyStdErr, base); err != nil {
		return nil, err
	}

	report.CumulativeReturnsByQuantile = make(dataframe.Map[time.Time], len(daily.ColNames))
	for _, colName := range daily.ColNames {
		report.CumulativeReturnsByQuantile[colName] = factor.CumulativeReturns(pivotQuantiles(daily, colName, quantiles))
	}

	alphaBeta, err := factor.FactorAlphaBeta(panel, report.FactorReturns, opts.weightOptions())
	if err != nil {
		return nil, err
	}

	report.Spread, report.SpreadStdErr, err = factor.ComputeMeanReturnsSpread(report.MeanReturnByDate, quantiles, 1, report.MeanReturnByDateStdErr)
	if err != nil {
		return nil, err
	}

	report.ReturnsTable = returnsTable(alphaBeta, report.MeanReturn, report.Spread, quantiles)

	if opts.ByGroup {
		byGroup, byGroupStdErr, err := factor.MeanReturnByQuantile(panel, opts.quantileOptions(false, true))
		if err != nil {
			return nil, err
		}
		if report.MeanReturnByGroup, report.MeanReturnByGroupStdErr, err = normalize(byGroup, byGroupStdErr, base); err != nil {
			return nil, err
		}
	}

	return report, nil
}

// Sections lists the tables of the report
func (report *Returns) Sections() []Section {
	sections := []Section{
		{Title: "Returns Analysis", Body: report.ReturnsTable},
		{Title: "Mean Return by Quantile", Body: report.MeanReturn},
		{Title: "Mean Return by Quantile (std. err.)", Body: report.MeanReturnStdErr},
		{Title: "Factor Weighted Returns", Body: report.FactorReturns},
		{Title: "Cumulative Factor Weighted Returns", Body: report.CumulativeFactorReturns},
		{Title: "Cumulative Returns by Quantile", Body: report.CumulativeReturnsByQuantile},
		{Title: "Top Minus Bottom Quantile Mean Return", Body: report.Spread},
		{Title: "Top Minus Bottom Quantile Mean Return (std. err.)", Body: report.SpreadStdErr},
	}

	if report.MeanReturnByGroup != nil {
		sections = append(sections,
			Section{Title: "Mean Return by Quantile and Group", Body: report.MeanReturnByGroup},
			Section{Title: "Mean Return by Quantile and Group (std. err.)", Body: report.MeanReturnByGroupStdErr},
		)
	}

	return sections
}

func normalize(mean, stdErr *dataframe.DataFrame[factor.Key], base factor.Period) (*dataframe.DataFrame[factor.Key], *dataframe.DataFrame[factor.Key], error) {
	normMean, err := factor.NormalizeReturns(mean, base)
	if err != nil {
		return nil, nil, err
	}
	normStdErr, err := factor.NormalizeStdErrs(stdErr, base)
	if err != nil {
		return nil, nil, err
	}
	return normMean, normStdErr, nil
}

// Summary is the condensed overview of a factor
type Summary struct {
	QuantileStatistics *dataframe.DataFrame[int]        `json:"quantile_statistics"`
	ReturnsTable       *dataframe.DataFrame[string]     `json:"returns_table"`
	MeanReturn         *dataframe.DataFrame[factor.Key] `json:"mean_return"`
	MeanReturnStdErr   *dataframe.DataFrame[factor.Key] `json:"mean_return_std_err"`
	ICSummary          *dataframe.DataFrame[string]     `json:"ic_summary"`
	TurnoverTable      *dataframe.DataFrame[string]     `json:"turnover_table"`
}

// NewSummary computes the summary tear sheet
func NewSummary(panel *factor.Panel, opts Options) (*Summary, error) {
	returns, err := NewReturns(panel, opts)
	if err != nil {
		return nil, err
	}

	ic, err := factor.FactorInformationCoefficient(panel, opts.icOptions(false))
	if err != nil {
		return nil, err
	}

	turnover, err := NewTurnover(panel)
	if err != nil {
		return nil, err
	}

	return &Summary{
		QuantileStatistics: factor.QuantileStatistics(panel),
		ReturnsTable:       returns.ReturnsTable,
		MeanReturn:         returns.MeanReturn,
		MeanReturnStdErr:   returns.MeanReturnStdErr,
		ICSummary:          factor.ICSummary(ic),
		TurnoverTable:      turnover.TurnoverTable,
	}, nil
}

// Sections lists the tables of the report
func (report *Summary) Sections() []Section {
	return []Section{
		{Title: "Quantiles Statistics", Body: report.QuantileStatistics},
		{Title: "Returns Analysis", Body: report.ReturnsTable},
		{Title: "Mean Return by Quantile", Body: report.MeanReturn},
		{Title: "Mean Return by Quantile (std. err.)", Body: report.MeanReturnStdErr},
		{Title: "Information Analysis", Body: report.ICSummary},
		{Title: "Turnover Analysis", Body: report.TurnoverTable},
	}
}
