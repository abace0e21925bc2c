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
	"time"

	"github.com/penny-vault/factorlens/dataframe"
	"github.com/rs/zerolog/log"
)

// ICOptions controls how the information coefficient is computed
type ICOptions struct {
	// GroupAdjust demeans forward returns within each (date, group) cohort before ranking
	GroupAdjust bool

	// ByGroup computes a separate coefficient for each group
	ByGroup bool
}

// FactorInformationCoefficient computes the Spearman rank correlation between factor values and
// forward returns for each date (and group when opts.ByGroup is set). The result has one column
// per holding period. Cells with fewer than 2 complete pairs or a constant input are NaN.
func FactorInformationCoefficient(panel *Panel, opts ICOptions) (*dataframe.DataFrame[Key], error) {
	if (opts.ByGroup || opts.GroupAdjust) && !panel.HasGroup() {
		return nil, ErrMissingGroup
	}

	log.Debug().Object("Options", opts).Msg("computing information coefficient")

	returns := forwardReturns(panel, false, opts.GroupAdjust)
	factors := panel.factors()

	cohortFn := dateCohort
	if opts.ByGroup {
		cohortFn = dateGroupCohort
	}

	keys, rows := groupRows(panel, cohortFn)
	ic := newKeyFrame(keys, panel.PeriodNames())

	for periodIdx := range panel.periods {
		for keyIdx, key := range keys {
			ic.Vals[periodIdx][keyIdx] = SpearmanCorrelation(pick(factors, rows[key]), pick(returns[periodIdx], rows[key]))
		}
	}

	return ic, nil
}

// MeanInformationCoefficient averages the information coefficient over the calendar buckets
// produced by bucket (and over groups when opts.ByGroup is set). The Date of each resulting key
// is the start of its bucket. A nil bucket averages over all dates; with ByGroup unset this
// yields a single row with an empty key.
func MeanInformationCoefficient(panel *Panel, opts ICOptions, bucket dataframe.BucketFunc) (*dataframe.DataFrame[Key], error) {
	ic, err := FactorInformationCoefficient(panel, opts)
	if err != nil {
		return nil, err
	}

	mean := dataframe.GroupMean(ic, func(key Key) Key {
		res := Key{Group: key.Group}
		if bucket != nil {
			res.Date = bucket(key.Date)
		}
		return res
	})

	return sortByKey(mean), nil
}

// ICSeries extracts the date indexed information coefficient of a table produced by
// FactorInformationCoefficient without ByGroup
func ICSeries(ic *dataframe.DataFrame[Key]) *dataframe.DataFrame[time.Time] {
	return dataframe.GroupMean(ic, func(key Key) time.Time {
		return key.Date
	})
}
