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

package dataframe

import (
	"fmt"
	"strings"
	"time"
)

// Weekly buckets dates by the Monday that starts their week
func Weekly(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return d.AddDate(0, 0, -offset)
}

// Monthly buckets dates by calendar month
func Monthly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Quarterly buckets dates by calendar quarter
func Quarterly(t time.Time) time.Time {
	month := ((t.Month()-1)/3)*3 + 1
	return time.Date(t.Year(), month, 1, 0, 0, 0, 0, t.Location())
}

// Yearly buckets dates by calendar year
func Yearly(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

// ParseBucket converts a resample rule into a BucketFunc. An empty rule returns a nil
// BucketFunc which means "do not bucket".
func ParseBucket(rule string) (BucketFunc, error) {
	switch strings.ToUpper(strings.TrimSpace(rule)) {
	case "":
		return nil, nil
	case "W", "WEEKLY":
		return Weekly, nil
	case "M", "MONTHLY":
		return Monthly, nil
	case "Q", "QUARTERLY":
		return Quarterly, nil
	case "A", "Y", "ANNUALLY", "YEARLY":
		return Yearly, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBucket, rule)
	}
}

// Resample groups the rows of a date indexed dataframe by bucket and averages each group.
// If bucket is nil rows are grouped by their exact date
func (df *DataFrame[T]) Resample(bucket BucketFunc) *DataFrame[time.Time] {
	return GroupMean(df, func(idx T) time.Time {
		dt, ok := any(idx).(time.Time)
		if !ok {
			return time.Time{}
		}
		if bucket == nil {
			return dt
		}
		return bucket(dt)
	})
}
