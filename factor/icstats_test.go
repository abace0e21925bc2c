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

package factor_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/factorlens/dataframe"
	"github.com/penny-vault/factorlens/factor"
)

var _ = Describe("IC statistics", func() {
	var (
		ic *dataframe.DataFrame[time.Time]
	)

	BeforeEach(func() {
		ic = dataframe.New[time.Time]("1D")
		ic.Index = []time.Time{day(4), day(5), day(6)}
		ic.Vals[0] = []float64{0.1, 0.2, 0.3}
	})

	It("summarizes the coefficients", func() {
		summary := factor.ICSummary(ic)
		Expect(summary.Index).To(Equal([]string{
			factor.ICMean, factor.ICStd, factor.ICRiskAdjusted, factor.ICTStat,
			factor.ICPValue, factor.ICSkew, factor.ICKurtosis,
		}))

		col := summary.Vals[0]
		Expect(col[0]).To(BeNumerically("~", 0.2, 1e-12))
		Expect(col[1]).To(BeNumerically("~", 0.1, 1e-12))
		Expect(col[2]).To(BeNumerically("~", 2.0, 1e-9))
		Expect(col[3]).To(BeNumerically("~", 2*math.Sqrt(3), 1e-9))
		// two sided p-value of t = 2*sqrt(3) with 2 degrees of freedom
		Expect(col[4]).To(BeNumerically("~", 1-2*math.Sqrt(3)/math.Sqrt(14), 1e-6))
		Expect(col[5]).To(BeNumerically("~", 0, 1e-9))
		Expect(col[6]).To(BeNumerically("~", -1.5, 1e-9))
	})

	It("ignores missing coefficients", func() {
		ic.Vals[0][1] = math.NaN()
		summary := factor.ICSummary(ic)
		Expect(summary.Vals[0][0]).To(BeNumerically("~", 0.2, 1e-12))
		Expect(summary.Vals[0][5]).To(BeNumerically("~", 0, 1e-9))
		Expect(summary.Vals[0][6]).To(BeNumerically("~", -2, 1e-9))
	})

	It("uses population moments for skew and kurtosis", func() {
		ic = dataframe.New[time.Time]("1D")
		ic.Index = []time.Time{day(4), day(5), day(6), day(7)}
		ic.Vals[0] = []float64{0, 0, 0, 1}

		// m2 = 3/16, m3 = 3/32, m4 = 21/256
		summary := factor.ICSummary(ic)
		Expect(summary.Vals[0][5]).To(BeNumerically("~", 2/math.Sqrt(3), 1e-9))
		Expect(summary.Vals[0][6]).To(BeNumerically("~", -2.0/3, 1e-9))
	})

	It("has no skew or kurtosis for a constant series", func() {
		ic.Vals[0] = []float64{0.1, 0.1, 0.1}
		summary := factor.ICSummary(ic)
		Expect(math.IsNaN(summary.Vals[0][5])).To(BeTrue())
		Expect(math.IsNaN(summary.Vals[0][6])).To(BeTrue())
	})

	It("bins coefficients into a histogram", func() {
		ic.Vals[0] = []float64{0, 0.5, 1}
		hist, err := factor.ICHistogram(ic, 2)
		Expect(err).To(BeNil())
		Expect(hist).To(HaveLen(1))
		Expect(hist[0].Period).To(Equal("1D"))
		Expect(hist[0].Dividers).To(HaveLen(3))
		Expect(hist[0].Counts).To(Equal([]float64{1, 2}))
	})

	It("requires at least one bin", func() {
		_, err := factor.ICHistogram(ic, 0)
		Expect(err).To(MatchError(factor.ErrInvalidBins))
	})

	It("pairs sorted coefficients with normal quantiles", func() {
		ic.Vals[0] = []float64{0.3, 0.1, 0.2}
		qq := factor.ICQQ(ic)
		df, ok := qq["1D"]
		Expect(ok).To(BeTrue())
		Expect(df.Index).To(Equal([]int{1, 2, 3}))
		Expect(df.Col("sample")).To(Equal([]float64{0.1, 0.2, 0.3}))

		theoretical := df.Col("theoretical")
		Expect(theoretical[1]).To(BeNumerically("~", 0.2, 1e-9))
		Expect(theoretical[0] + theoretical[2]).To(BeNumerically("~", 0.4, 1e-9))
	})

	It("pivots monthly coefficients by year", func() {
		monthly := dataframe.New[factor.Key]("1D")
		monthly.Index = []factor.Key{
			{Date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
			{Date: time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)},
			{Date: time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC)},
		}
		monthly.Vals[0] = []float64{0.1, 0.3, -0.2}

		heatmap := factor.ICMonthlyHeatmap(monthly)
		df := heatmap["1D"]
		Expect(df.Index).To(Equal([]int{2020, 2021}))
		Expect(df.ColNames).To(HaveLen(12))
		Expect(df.Col("Jan")[0]).To(Equal(0.1))
		Expect(math.IsNaN(df.Col("Feb")[0])).To(BeTrue())
		Expect(df.Col("Mar")[0]).To(Equal(0.3))
		Expect(df.Col("Feb")[1]).To(Equal(-0.2))
	})

	It("averages coefficients that fall in the same month", func() {
		daily := dataframe.New[factor.Key]("1D")
		daily.Index = []factor.Key{
			{Date: time.Date(2020, 1, 6, 0, 0, 0, 0, time.UTC)},
			{Date: time.Date(2020, 1, 20, 0, 0, 0, 0, time.UTC)},
		}
		daily.Vals[0] = []float64{0.1, 0.3}

		heatmap := factor.ICMonthlyHeatmap(daily)
		Expect(heatmap["1D"].Col("Jan")[0]).To(BeNumerically("~", 0.2, 1e-12))
	})
})
