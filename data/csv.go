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

package data

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/penny-vault/factorlens/dataframe"
	"github.com/penny-vault/factorlens/factor"
	dataframego "github.com/rocketlaunchr/dataframe-go"
	"github.com/rocketlaunchr/dataframe-go/imports"
	"github.com/rs/zerolog/log"
)

// Column names of the factor panel CSV
const (
	DateCol     = "date"
	AssetCol    = "asset"
	FactorCol   = "factor"
	QuantileCol = "factor_quantile"
	GroupCol    = "group"
)

var nilValue = "NaN"

// csvTable is a string table loaded from CSV
type csvTable struct {
	raw *dataframego.DataFrame
}

func loadCSV(ctx context.Context, r io.ReadSeeker) (*csvTable, error) {
	raw, err := imports.LoadFromCSV(ctx, r, imports.CSVLoadOptions{
		TrimLeadingSpace: true,
		NilValue:         &nilValue,
	})
	if err != nil {
		log.Error().Err(err).Msg("could not parse csv")
		return nil, err
	}
	return &csvTable{raw: raw}, nil
}

func (t *csvTable) names() []string {
	return t.raw.Names()
}

func (t *csvTable) rows() int {
	return t.raw.NRows()
}

func (t *csvTable) column(name string) (dataframego.Series, error) {
	idx, err := t.raw.NameToColumn(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	return t.raw.Series[idx], nil
}

// cell returns the trimmed string value of a cell; missing cells are empty
func cell(s dataframego.Series, row int) string {
	switch v := s.Value(row).(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case *string:
		if v == nil {
			return ""
		}
		return strings.TrimSpace(*v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// ParseDate parses a date formatted as 2006-01-02 (UTC) or RFC3339
func ParseDate(s string) (time.Time, error) {
	if dt, err := time.ParseInLocation("2006-01-02", s, time.UTC); err == nil {
		return dt, nil
	}
	dt, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return dt, nil
}

// ParseFloat parses a number; empty cells and NaN are missing values
func ParseFloat(s string) (float64, error) {
	if s == "" || strings.EqualFold(s, "nan") {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN(), fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return v, nil
}

// parseQuantile accepts integral values such as 3 or 3.0; a missing quantile is 0
func parseQuantile(s string) (int, error) {
	v, err := ParseFloat(s)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) {
		return 0, nil
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("%w: quantile %q is not an integer", ErrInvalidNumber, s)
	}
	return int(v), nil
}

// LoadPanelCSV reads a factor panel from CSV. The columns date, asset, factor and factor_quantile
// are required and group is optional; every other column is offered to factor.NewPanel as a
// forward return column.
func LoadPanelCSV(ctx context.Context, r io.ReadSeeker) (*factor.Panel, error) {
	table, err := loadCSV(ctx, r)
	if err != nil {
		return nil, err
	}

	required := make(map[string]dataframego.Series, 4)
	for _, name := range []string{DateCol, AssetCol, FactorCol, QuantileCol} {
		s, err := table.column(name)
		if err != nil {
			return nil, err
		}
		required[name] = s
	}

	group, _ := table.column(GroupCol)

	returnCols := make([]string, 0)
	returnSeries := make([]dataframego.Series, 0)
	for _, name := range table.names() {
		switch name {
		case DateCol, AssetCol, FactorCol, QuantileCol, GroupCol:
			continue
		}
		s, err := table.column(name)
		if err != nil {
			return nil, err
		}
		returnCols = append(returnCols, name)
		returnSeries = append(returnSeries, s)
	}

	observations := make([]*factor.Observation, table.rows())
	for row := range observations {
		dt, err := ParseDate(cell(required[DateCol], row))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row+1, err)
		}

		factorVal, err := ParseFloat(cell(required[FactorCol], row))
		if err != nil {
			return nil, fmt.Errorf("row %d column %s: %w", row+1, FactorCol, err)
		}

		quantile, err := parseQuantile(cell(required[QuantileCol], row))
		if err != nil {
			return nil, fmt.Errorf("row %d column %s: %w", row+1, QuantileCol, err)
		}

		o := &factor.Observation{
			Date:     dt,
			Asset:    cell(required[AssetCol], row),
			Factor:   factorVal,
			Quantile: quantile,
			Returns:  make([]float64, len(returnSeries)),
		}

		if group != nil {
			o.Group = cell(group, row)
		}

		for idx, s := range returnSeries {
			o.Returns[idx], err = ParseFloat(cell(s, row))
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", row+1, returnCols[idx], err)
			}
		}

		observations[row] = o
	}

	log.Debug().Int("NumRows", len(observations)).Strs("Columns", returnCols).Msg("loaded factor panel csv")

	return factor.NewPanel(returnCols, observations)
}

// LoadPricesCSV reads a wide price table from CSV: a date column followed by one column per
// asset. Rows are sorted by date.
func LoadPricesCSV(ctx context.Context, r io.ReadSeeker) (*dataframe.DataFrame[time.Time], error) {
	table, err := loadCSV(ctx, r)
	if err != nil {
		return nil, err
	}

	dates, err := table.column(DateCol)
	if err != nil {
		return nil, err
	}

	assets := make([]string, 0)
	for _, name := range table.names() {
		if name != DateCol {
			assets = append(assets, name)
		}
	}

	n := table.rows()
	index := make([]time.Time, n)
	for row := 0; row < n; row++ {
		if index[row], err = ParseDate(cell(dates, row)); err != nil {
			return nil, fmt.Errorf("row %d: %w", row+1, err)
		}
	}

	// rows are reordered by date
	order := make([]int, n)
	for idx := range order {
		order[idx] = idx
	}
	sort.SliceStable(order, func(i, j int) bool {
		return index[order[i]].Before(index[order[j]])
	})

	prices := dataframe.New[time.Time](assets...)
	prices.Index = make([]time.Time, n)
	for idx, row := range order {
		prices.Index[idx] = index[row]
		if idx > 0 && prices.Index[idx].Equal(prices.Index[idx-1]) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDate, prices.Index[idx].Format(time.RFC3339))
		}
	}

	for colIdx, asset := range assets {
		s, err := table.column(asset)
		if err != nil {
			return nil, err
		}
		col := make([]float64, n)
		for idx, row := range order {
			if col[idx], err = ParseFloat(cell(s, row)); err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", row+1, asset, err)
			}
		}
		prices.Vals[colIdx] = col
	}

	log.Debug().Int("NumDates", n).Int("NumAssets", len(assets)).Msg("loaded price csv")

	return prices, nil
}
