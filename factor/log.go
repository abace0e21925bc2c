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

import "github.com/rs/zerolog"

// MarshalZerologObject implements the zerolog.LogObjectMarshaler interface
func (p Period) MarshalZerologObject(e *zerolog.Event) {
	e.Str("Name", p.Name).
		Dur("Duration", p.Duration).
		Int("Count", p.Count)
}

// MarshalZerologObject implements the zerolog.LogObjectMarshaler interface
func (k Key) MarshalZerologObject(e *zerolog.Event) {
	if k.Quantile != 0 {
		e.Int("Quantile", k.Quantile)
	}
	if !k.Date.IsZero() {
		e.Time("Date", k.Date)
	}
	if k.Group != "" {
		e.Str("Group", k.Group)
	}
}

// MarshalZerologObject implements the zerolog.LogObjectMarshaler interface
func (opts QuantileReturnOptions) MarshalZerologObject(e *zerolog.Event) {
	e.Bool("ByDate", opts.ByDate).
		Bool("ByGroup", opts.ByGroup).
		Bool("Demeaned", opts.Demeaned).
		Bool("GroupAdjust", opts.GroupAdjust)
}

// MarshalZerologObject implements the zerolog.LogObjectMarshaler interface
func (opts WeightOptions) MarshalZerologObject(e *zerolog.Event) {
	e.Bool("LongShort", opts.LongShort).
		Bool("GroupAdjust", opts.GroupAdjust).
		Bool("EqualWeight", opts.EqualWeight)
}

// MarshalZerologObject implements the zerolog.LogObjectMarshaler interface
func (opts ICOptions) MarshalZerologObject(e *zerolog.Event) {
	e.Bool("GroupAdjust", opts.GroupAdjust).
		Bool("ByGroup", opts.ByGroup)
}

// MarshalZerologObject implements the zerolog.LogObjectMarshaler interface
func (opts EventOptions) MarshalZerologObject(e *zerolog.Event) {
	e.Int("PeriodsBefore", opts.PeriodsBefore).
		Int("PeriodsAfter", opts.PeriodsAfter).
		Bool("Demeaned", opts.Demeaned)
}
