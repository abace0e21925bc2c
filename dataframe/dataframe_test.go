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
package dataframe_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/factorlens/dataframe"
)

var _ = Describe("DataFrame", func() {
	Context("with no values", func() {
		var (
			df *dataframe.DataFrame[time.Time]
		)

		BeforeEach(func() {
			df = &dataframe.DataFrame[time.Time]{}
		})

		It("has zero length", func() {
			Expect(df.Len()).To(Equal(0))
		})

		It("has zero columns", func() {
			Expect(df.ColCount()).To(Equal(0))
		})

		It("does not error on lag", func() {
			Expect(df.Lag(1).Len()).To(Equal(0))
		})

		It("renders a placeholder table", func() {
			Expect(df.Table()).To(Equal("<NO DATA>"))
		})
	})

	Context("with 2 years of values and a single column", func() {
		var (
			df *dataframe.DataFrame[time.Time]
		)

		BeforeEach(func() {
			dates := make([]time.Time, 730)
			vals := make([]float64, 730)
			dt := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
			for idx := range dates {
				dates[idx] = dt
				dt = dt.AddDate(0, 0, 1)
				vals[idx] = float64(idx)
			}
			df = &dataframe.DataFrame[time.Time]{
				ColNames: []string{"Col1"},
				Index:    dates,
				Vals:     [][]float64{vals},
			}
		})

		It("has length", func() {
			Expect(df.Len()).To(Equal(730))
		})

		It("can lag values", func() {
			lagged := df.Lag(2)
			Expect(lagged.Len()).To(Equal(730))
			Expect(math.IsNaN(lagged.Vals[0][0])).To(BeTrue())
			Expect(math.IsNaN(lagged.Vals[0][1])).To(BeTrue())
			Expect(lagged.Vals[0][2]).To(Equal(0.0))
			Expect(lagged.Vals[0][729]).To(Equal(727.0))
			Expect(df.Vals[0][0]).To(Equal(0.0), "original is untouched")
		})

		It("is all NaN when lagged past its length", func() {
			lagged := df.Lag(1000)
			Expect(lagged.Len()).To(Equal(730))
			Expect(math.IsNaN(lagged.Vals[0][729])).To(BeTrue())
		})

		It("resamples monthly", func() {
			monthly := df.Resample(dataframe.Monthly)
			Expect(monthly.Len()).To(Equal(24))
			Expect(monthly.Index[0]).To(Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
			// mean of 0..30
			Expect(monthly.Vals[0][0]).To(BeNumerically("~", 15.0, 1e-12))
		})
	})

	Context("multi-column with NaN values in dataframe", func() {
		var (
			df *dataframe.DataFrame[time.Time]
		)

		BeforeEach(func() {
			dates := make([]time.Time, 10)
			dt := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
			for idx := range dates {
				dates[idx] = dt
				dt = dt.AddDate(0, 0, 1)
			}

			vals1 := make([]float64, 10)
			vals2 := make([]float64, 10)

			for idx := range dates {
				if idx < 5 {
					vals1[idx] = float64(idx)
				} else {
					vals1[idx] = math.NaN()
				}

				if idx < 6 {
					vals2[idx] = float64(idx)
				} else {
					vals2[idx] = math.NaN()
				}
			}

			df = &dataframe.DataFrame[time.Time]{
				ColNames: []string{"Col1", "Col2"},
				Index:    dates,
				Vals:     [][]float64{vals1, vals2},
			}
		})

		It("carries NaN through a lag", func() {
			lagged := df.Lag(1)
			Expect(lagged.Vals[0][5]).To(Equal(4.0))
			Expect(math.IsNaN(lagged.Vals[0][6])).To(BeTrue())
			Expect(lagged.Vals[1][6]).To(Equal(5.0))
		})

		It("ignores NaN in column means", func() {
			means := df.ColMeans()
			Expect(means[0]).To(BeNumerically("~", 2.0, 1e-12))
			Expect(means[1]).To(BeNumerically("~", 2.5, 1e-12))
		})

		It("looks up columns by name", func() {
			Expect(df.ColIndex("Col2")).To(Equal(1))
			Expect(df.ColIndex("Col3")).To(Equal(-1))
			Expect(df.Col("Col3")).To(BeNil())
		})

		It("encodes NaN as null in JSON", func() {
			rows := &dataframe.DataFrame[time.Time]{
				ColNames: []string{"Col1", "Col2"},
				Index:    df.Index[4:6],
				Vals:     [][]float64{df.Vals[0][4:6], df.Vals[1][4:6]},
			}
			buf, err := rows.MarshalJSON()
			Expect(err).To(BeNil())
			Expect(string(buf)).To(Equal(`{"index":["2020-01-05","2020-01-06"],"columns":["Col1","Col2"],"data":[[4,null],[4,5]]}`))
		})
	})

	Context("with an integer index", func() {
		It("groups rows with a key function", func() {
			df := &dataframe.DataFrame[int]{
				Index:    []int{1, 2, 3, 4},
				ColNames: []string{"a"},
				Vals:     [][]float64{{1, 2, 3, 5}},
			}
			grouped := dataframe.GroupMean(df, func(i int) bool { return i%2 == 0 })
			Expect(grouped.Index).To(Equal([]bool{false, true}))
			Expect(grouped.Vals[0]).To(Equal([]float64{2, 3.5}))
		})
	})
})

var _ = Describe("Resample rules", func() {
	DescribeTable("buckets dates", func(rule string, in, expected time.Time) {
		bucket, err := dataframe.ParseBucket(rule)
		Expect(err).To(BeNil())
		Expect(bucket(in)).To(Equal(expected))
	},
		Entry("weekly", "W", time.Date(2021, 6, 10, 0, 0, 0, 0, time.UTC), time.Date(2021, 6, 7, 0, 0, 0, 0, time.UTC)),
		Entry("weekly on sunday", "W", time.Date(2021, 6, 13, 0, 0, 0, 0, time.UTC), time.Date(2021, 6, 7, 0, 0, 0, 0, time.UTC)),
		Entry("monthly", "M", time.Date(2021, 6, 10, 0, 0, 0, 0, time.UTC), time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)),
		Entry("quarterly", "Q", time.Date(2021, 6, 10, 0, 0, 0, 0, time.UTC), time.Date(2021, 4, 1, 0, 0, 0, 0, time.UTC)),
		Entry("yearly", "A", time.Date(2021, 6, 10, 0, 0, 0, 0, time.UTC), time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)),
	)

	It("returns nil for an empty rule", func() {
		bucket, err := dataframe.ParseBucket("")
		Expect(err).To(BeNil())
		Expect(bucket).To(BeNil())
	})

	It("rejects unknown rules", func() {
		_, err := dataframe.ParseBucket("fortnightly")
		Expect(err).To(MatchError(dataframe.ErrUnknownBucket))
	})
})
