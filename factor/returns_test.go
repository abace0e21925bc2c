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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/factorlens/factor"
)

var _ = Describe("Returns", func() {
	var (
		panel *factor.Panel
	)

	// 2 dates, 2 assets; asset A is always in the first quantile
	BeforeEach(func() {
		panel = mustPanel([]string{"1D"},
			observation(day(4), "A", 1, 1, 0.01),
			observation(day(4), "B", 2, 2, -0.01),
			observation(day(5), "A", 1, 1, 0.02),
			observation(day(5), "B", 2, 2, -0.02),
		)
	})

	Describe("when computing the mean return by quantile", func() {
		It("averages the rows of each quantile", func() {
			mean, stdErr, err := factor.MeanReturnByQuantile(panel, factor.QuantileReturnOptions{})
			Expect(err).To(BeNil())
			Expect(mean.Index).To(Equal([]factor.Key{{Quantile: 1}, {Quantile: 2}}))
			Expect(mean.Vals[0][0]).To(BeNumerically("~", 0.015, 1e-12))
			Expect(mean.Vals[0][1]).To(BeNumerically("~", -0.015, 1e-12))

			// std of the daily means 0.01 and 0.02 divided by sqrt(2)
			Expect(stdErr.Vals[0][0]).To(BeNumerically("~", 0.005, 1e-12))
		})

		It("keeps the date dimension when asked", func() {
			mean, _, err := factor.MeanReturnByQuantile(panel, factor.QuantileReturnOptions{ByDate: true})
			Expect(err).To(BeNil())
			Expect(mean.Len()).To(Equal(4))
			Expect(mean.Index[0]).To(Equal(factor.Key{Quantile: 1, Date: day(4)}))
			Expect(mean.Vals[0][0]).To(BeNumerically("~", 0.01, 1e-12))
			Expect(mean.Index[3]).To(Equal(factor.Key{Quantile: 2, Date: day(5)}))
			Expect(mean.Vals[0][3]).To(BeNumerically("~", -0.02, 1e-12))
		})

		It("sums to zero across quantiles when demeaned", func() {
			mean, _, err := factor.MeanReturnByQuantile(panel, factor.QuantileReturnOptions{ByDate: true, Demeaned: true})
			Expect(err).To(BeNil())

			sums := make(map[string]float64)
			for idx, key := range mean.Index {
				sums[key.WithoutQuantile().String()] += mean.Vals[0][idx]
			}
			Expect(sums).To(HaveLen(2))
			for _, s := range sums {
				Expect(s).To(BeNumerically("~", 0, 1e-12))
			}
		})

		It("sums to zero across three quantiles with several assets each", func() {
			wide := mustPanel([]string{"1D"},
				observation(day(4), "A", 1, 1, 0.031),
				observation(day(4), "B", 2, 1, -0.012),
				observation(day(4), "C", 3, 2, 0.004),
				observation(day(4), "D", 4, 2, 0.027),
				observation(day(4), "E", 5, 3, -0.019),
				observation(day(4), "F", 6, 3, 0.008),
			)
			mean, _, err := factor.MeanReturnByQuantile(wide, factor.QuantileReturnOptions{Demeaned: true})
			Expect(err).To(BeNil())
			Expect(mean.Vals[0][0] + mean.Vals[0][1] + mean.Vals[0][2]).To(BeNumerically("~", 0, 1e-12))
		})

		It("requires groups when grouping", func() {
			_, _, err := factor.MeanReturnByQuantile(panel, factor.QuantileReturnOptions{ByGroup: true})
			Expect(err).To(MatchError(factor.ErrMissingGroup))
		})

		It("demeans within groups", func() {
			obs := []*factor.Observation{
				observation(day(4), "A", 1, 1, 0.01),
				observation(day(4), "B", 2, 2, 0.03),
				observation(day(4), "C", 1, 1, 0.10),
				observation(day(4), "D", 2, 2, 0.20),
			}
			obs[0].Group, obs[1].Group = "x", "x"
			obs[2].Group, obs[3].Group = "y", "y"
			grouped := mustPanel([]string{"1D"}, obs...)

			mean, _, err := factor.MeanReturnByQuantile(grouped, factor.QuantileReturnOptions{ByGroup: true, GroupAdjust: true})
			Expect(err).To(BeNil())
			Expect(mean.Index).To(Equal([]factor.Key{
				{Quantile: 1, Group: "x"}, {Quantile: 1, Group: "y"},
				{Quantile: 2, Group: "x"}, {Quantile: 2, Group: "y"},
			}))
			Expect(mean.Vals[0][0]).To(BeNumerically("~", -0.01, 1e-12))
			Expect(mean.Vals[0][1]).To(BeNumerically("~", -0.05, 1e-12))
			Expect(mean.Vals[0][2]).To(BeNumerically("~", 0.01, 1e-12))
			Expect(mean.Vals[0][3]).To(BeNumerically("~", 0.05, 1e-12))
		})
	})

	Describe("when computing the spread", func() {
		It("subtracts the lower quantile from the upper quantile", func() {
			mean, stdErr, err := factor.MeanReturnByQuantile(panel, factor.QuantileReturnOptions{})
			Expect(err).To(BeNil())

			spread, spreadStdErr, err := factor.ComputeMeanReturnsSpread(mean, 2, 1, stdErr)
			Expect(err).To(BeNil())
			Expect(spread.Index).To(Equal([]factor.Key{{}}))
			Expect(spread.Vals[0][0]).To(BeNumerically("~", -0.03, 1e-12))
			Expect(spreadStdErr.Vals[0][0]).To(BeNumerically("~", math.Sqrt(2)*0.005, 1e-12))
		})

		It("matches rows on date", func() {
			mean, _, err := factor.MeanReturnByQuantile(panel, factor.QuantileReturnOptions{ByDate: true})
			Expect(err).To(BeNil())

			spread, spreadStdErr, err := factor.ComputeMeanReturnsSpread(mean, 2, 1, nil)
			Expect(err).To(BeNil())
			Expect(spreadStdErr).To(BeNil())
			Expect(spread.Index).To(Equal([]factor.Key{{Date: day(4)}, {Date: day(5)}}))
			Expect(spread.Vals[0][0]).To(BeNumerically("~", -0.02, 1e-12))
			Expect(spread.Vals[0][1]).To(BeNumerically("~", -0.04, 1e-12))
		})

		It("fails on a quantile that is not present", func() {
			mean, stdErr, err := factor.MeanReturnByQuantile(panel, factor.QuantileReturnOptions{})
			Expect(err).To(BeNil())

			_, _, err = factor.ComputeMeanReturnsSpread(mean, 3, 1, stdErr)
			Expect(err).To(MatchError(factor.ErrQuantileNotFound))
			Expect(err.Error()).To(ContainSubstring("3"))
		})
	})

	Describe("when computing the rate of return", func() {
		It("is flat for zero returns", func() {
			growth := factor.RateOfReturn(make([]float64, 10))
			Expect(growth).To(HaveLen(10))
			for _, v := range growth {
				Expect(v).To(Equal(1.0))
			}
		})

		It("compounds earlier returns", func() {
			growth := factor.RateOfReturn([]float64{0.1, 0.1, 0.5})
			Expect(growth[0]).To(Equal(1.0))
			Expect(growth[1]).To(BeNumerically("~", 1.1, 1e-12))
			Expect(growth[2]).To(BeNumerically("~", 1.21, 1e-12))
		})

		It("treats missing returns as zero", func() {
			growth := factor.RateOfReturn([]float64{math.NaN(), 0.1, 0})
			Expect(growth).To(HaveLen(3))
			Expect(growth[1]).To(Equal(1.0))
			Expect(growth[2]).To(BeNumerically("~", 1.1, 1e-12))
		})

		It("handles an empty series", func() {
			Expect(factor.RateOfReturn(nil)).To(BeEmpty())
		})

		It("applies to each column of a dataframe", func() {
			returns, err := factor.FactorReturns(panel, factor.WeightOptions{LongShort: true})
			Expect(err).To(BeNil())
			cum := factor.CumulativeReturns(returns)
			Expect(cum.Vals[0][0]).To(Equal(1.0))
			Expect(cum.Vals[0][1]).To(BeNumerically("~", 1-0.01, 1e-12))
		})
	})
})
