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
)

// Turnover analyzes how quickly quantile membership and factor ranks change
type Turnover struct {
	TurnoverTable    *dataframe.DataFrame[string]    `json:"turnover_table"`
	QuantileTurnover dataframe.Map[time.Time]        `json:"quantile_turnover"`
	Autocorrelation  *dataframe.DataFrame[time.Time] `json:"autocorrelation"`
}

// NewTurnover computes the turnover tear sheet for every holding period of the panel
func NewTurnover(panel *factor.Panel) (*Turnover, error) {
	report := &Turnover{
		QuantileTurnover: make(dataframe.Map[time.Time], len(panel.Periods())),
		Autocorrelation:  dataframe.New[time.Time](panel.PeriodNames()...),
	}
	report.Autocorrelation.Index = append(report.Autocorrelation.Index, panel.Dates()...)

	for idx, period := range panel.Periods() {
		turnover, err := factor.QuantileTurnoverTable(panel, period)
		if err != nil {
			return nil, err
		}
		report.QuantileTurnover[period.Name] = turnover
		report.Autocorrelation.Vals[idx] = factor.FactorRankAutocorrelation(panel, period).Vals[0]
	}

	report.TurnoverTable = turnoverTable(report.QuantileTurnover, report.Autocorrelation, panel.Periods(), panel.Quantiles())

	return report, nil
}

// Sections lists the tables of the report
func (report *Turnover) Sections() []Section {
	return []Section{
		{Title: "Turnover Analysis", Body: report.TurnoverTable},
		{Title: "Quantile Turnover", Body: report.QuantileTurnover},
		{Title: "Factor Rank Autocorrelation", Body: report.Autocorrelation},
	}
}
