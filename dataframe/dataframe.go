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
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
)

// New creates an empty dataframe with the given column names
func New[T comparable](colNames ...string) *DataFrame[T] {
	df := &DataFrame[T]{
		Index:    []T{},
		ColNames: make([]string, len(colNames)),
		Vals:     make([][]float64, len(colNames)),
	}

	copy(df.ColNames, colNames)
	for idx := range df.Vals {
		df.Vals[idx] = []float64{}
	}

	return df
}

// Col returns the values of the named column or nil if the column does not exist
func (df *DataFrame[T]) Col(colName string) []float64 {
	colIdx := df.ColIndex(colName)
	if colIdx == -1 {
		return nil
	}
	return df.Vals[colIdx]
}

// Get index of specified column; returns -1 if column doesn't exist
func (df *DataFrame[T]) ColIndex(colName string) int {
	for idx, val := range df.ColNames {
		if colName == val {
			return idx
		}
	}

	return -1
}

// ColCount returns the number of columns in the dataframe
func (df *DataFrame[T]) ColCount() int {
	return len(df.ColNames)
}

// Copy creates a copy of the dataframe
func (df *DataFrame[T]) Copy() *DataFrame[T] {
	df2 := &DataFrame[T]{
		ColNames: make([]string, len(df.ColNames)),
		Index:    make([]T, len(df.Index)),
		Vals:     make([][]float64, len(df.Vals)),
	}

	copy(df2.ColNames, df.ColNames)
	copy(df2.Index, df.Index)

	for idx := range df2.Vals {
		df2.Vals[idx] = make([]float64, len(df.Vals[idx]))
		copy(df2.Vals[idx], df.Vals[idx])
	}

	return df2
}

// Lag returns a copy of the dataframe with every column shifted down by n rows. The first n
// rows are NaN and the index is unchanged.
func (df *DataFrame[T]) Lag(n int) *DataFrame[T] {
	res := df.Copy()
	for colIdx, col := range df.Vals {
		for rowIdx := range res.Vals[colIdx] {
			if rowIdx < n {
				res.Vals[colIdx][rowIdx] = math.NaN()
				continue
			}
			res.Vals[colIdx][rowIdx] = col[rowIdx-n]
		}
	}
	return res
}

// Len returns the number of rows in the dataframe
func (df *DataFrame[T]) Len() int {
	return len(df.Index)
}

// RowIndex returns the position of key in the index; returns -1 if it does not exist
func (df *DataFrame[T]) RowIndex(key T) int {
	for idx, rowKey := range df.Index {
		if rowKey == key {
			return idx
		}
	}
	return -1
}

// Table prints an ASCII formatted table to stdout
func (df *DataFrame[T]) Table() string {
	if len(df.Index) == 0 {
		return "<NO DATA>" // nothing to do as there is no data available in the dataframe
	}

	// construct table header
	tableCols := append([]string{"Index"}, df.ColNames...)

	// initialize table
	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader(tableCols)
	footer := make([]string, len(tableCols))
	footer[0] = "Num Rows"
	if len(footer) > 1 {
		footer[1] = fmt.Sprintf("%d", df.Len())
	}
	table.SetFooter(footer)
	table.SetBorder(false) // Set Border to false

	for idx, rowIdx := range df.Index {
		row := make([]string, 0, len(df.Vals)+1)
		row = append(row, formatIndex(rowIdx))

		for _, col := range df.Vals {
			row = append(row, fmt.Sprintf("%.4f", col[idx]))
		}

		table.Append(row)
	}

	table.Render()
	return s.String()
}

func formatIndex(rowIdx any) string {
	switch v := rowIdx.(type) {
	case time.Time:
		return v.Format("2006-01-02")
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
