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
)

// Full combines the quantile statistics with the returns, information and turnover tear sheets
type Full struct {
	QuantileStatistics *dataframe.DataFrame[int] `json:"quantile_statistics"`
	Returns            *Returns                  `json:"returns"`
	Information        *Information              `json:"information"`
	Turnover           *Turnover                 `json:"turnover"`
}

// NewFull computes the full tear sheet
func NewFull(panel *factor.Panel, opts Options) (*Full, error) {
	returns, err := NewReturns(panel, opts)
	if err != nil {
		return nil, err
	}

	information, err := NewInformation(panel, opts)
	if err != nil {
		return nil, err
	}

	turnover, err := NewTurnover(panel)
	if err != nil {
		return nil, err
	}

	return &Full{
		QuantileStatistics: factor.QuantileStatistics(panel),
		Returns:            returns,
		Information:        information,
		Turnover:           turnover,
	}, nil
}

// Sections lists the tables of the report
func (report *Full) Sections() []Section {
	sections := []Section{
		{Title: "Quantiles Statistics", Body: report.QuantileStatistics},
	}
	sections = append(sections, report.Returns.Sections()...)
	sections = append(sections, report.Information.Sections()...)
	sections = append(sections, report.Turnover.Sections()...)
	return sections
}
