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
	"github.com/rs/zerolog/log"
)

// Information analyzes the information coefficient of the factor
type Information struct {
	ICSummary      *dataframe.DataFrame[string]     `json:"ic_summary"`
	IC             *dataframe.DataFrame[factor.Key] `json:"ic"`
	Histogram      []*factor.Histogram              `json:"histogram"`
	QQ             dataframe.Map[int]               `json:"qq"`
	MeanIC         *dataframe.DataFrame[factor.Key] `json:"mean_ic"`
	MonthlyHeatmap dataframe.Map[int]               `json:"monthly_heatmap"`
	MeanICByGroup  *dataframe.DataFrame[factor.Key] `json:"mean_ic_by_group,omitempty"`
}

// NewInformation computes the information tear sheet
func NewInformation(panel *factor.Panel, opts Options) (*Information, error) {
	log.Debug().Object("Options", opts).Msg("computing information tear sheet")

	bucket, err := opts.bucket()
	if err != nil {
		return nil, err
	}

	report := &Information{}

	report.IC, err = factor.FactorInformationCoefficient(panel, opts.icOptions(false))
	if err != nil {
		return nil, err
	}

	report.ICSummary = factor.ICSummary(report.IC)
	report.QQ = factor.ICQQ(report.IC)

	report.Histogram, err = factor.ICHistogram(report.IC, opts.HistogramBins)
	if err != nil {
		return nil, err
	}

	report.MeanIC, err = factor.MeanInformationCoefficient(panel, opts.icOptions(false), bucket)
	if err != nil {
		return nil, err
	}

	monthly, err := factor.MeanInformationCoefficient(panel, opts.icOptions(false), dataframe.Monthly)
	if err != nil {
		return nil, err
	}
	report.MonthlyHeatmap = factor.ICMonthlyHeatmap(monthly)

	if opts.ByGroup {
		report.MeanICByGroup, err = factor.MeanInformationCoefficient(panel, opts.icOptions(true), nil)
		if err != nil {
			return nil, err
		}
	}

	return report, nil
}

// Sections lists the tables of the report
func (report *Information) Sections() []Section {
	sections := []Section{
		{Title: "Information Analysis", Body: report.ICSummary},
		{Title: "Information Coefficient", Body: report.IC},
	}

	for _, hist := range report.Histogram {
		sections = append(sections, Section{Title: "IC Distribution " + hist.Period, Body: histogramTable(hist)})
	}

	sections = append(sections,
		Section{Title: "IC Normal QQ", Body: report.QQ},
		Section{Title: "Mean Information Coefficient", Body: report.MeanIC},
		Section{Title: "Monthly Mean Information Coefficient", Body: report.MonthlyHeatmap},
	)

	if report.MeanICByGroup != nil {
		sections = append(sections, Section{Title: "Mean Information Coefficient by Group", Body: report.MeanICByGroup})
	}

	return sections
}
