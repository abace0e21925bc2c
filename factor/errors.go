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

import "errors"

var (
	ErrNoPeriodColumns  = errors.New("no forward return columns found")
	ErrInvalidPeriod    = errors.New("invalid holding period")
	ErrPeriodNotFound   = errors.New("holding period not found")
	ErrMissingQuantile  = errors.New("factor_quantile is missing")
	ErrQuantileGap      = errors.New("factor quantiles must form a dense range 1..Q")
	ErrQuantileNotFound = errors.New("quantile not found")
	ErrMissingGroup     = errors.New("group column is missing")
	ErrReturnsLength    = errors.New("number of forward returns does not match number of columns")
	ErrInvalidWindow    = errors.New("event window must not be negative")
	ErrInvalidBins      = errors.New("histogram needs at least one bin")
)
