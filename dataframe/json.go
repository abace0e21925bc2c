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
	"math"

	"github.com/goccy/go-json"
)

type jsonFrame struct {
	Index   []string     `json:"index"`
	Columns []string     `json:"columns"`
	Data    [][]*float64 `json:"data"`
}

// MarshalJSON encodes the dataframe as {"index": [...], "columns": [...], "data": [[...]]} where
// data is column major. NaN and infinite values are encoded as null.
func (df *DataFrame[T]) MarshalJSON() ([]byte, error) {
	frame := jsonFrame{
		Index:   make([]string, len(df.Index)),
		Columns: df.ColNames,
		Data:    make([][]*float64, len(df.Vals)),
	}

	if frame.Columns == nil {
		frame.Columns = []string{}
	}

	for idx, rowIdx := range df.Index {
		frame.Index[idx] = formatIndex(rowIdx)
	}

	for colIdx, col := range df.Vals {
		frame.Data[colIdx] = make([]*float64, len(col))
		for rowIdx := range col {
			v := col[rowIdx]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			frame.Data[colIdx][rowIdx] = &v
		}
	}

	return json.Marshal(frame)
}
