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

var _ = Describe("Events", func() {
	var (
		prices *dataframe.DataFrame[time.Time]
	)

	BeforeEach(func() {
		prices = dataframe.New[time.Time]("A", "B", "C")
		prices.Index = []time.Time{day(4), day(5), day(6), day(7), day(8)}
		prices.Vals[0] = []float64{10, 11, 12, 13, 14}
		prices.Vals[1] = []float64{20, 20, 16, 12, 24}
		prices.Vals[2] = []float64{5, 5, 5, 5, 5}
	})

	Context("with one observation per quantile on the middle date", func() {
		var (
			panel *factor.Panel
		)

		BeforeEach(func() {
			panel = mustPanel([]string{"1D"},
				observation(day(6), "A", 1, 1, 0.01),
				observation(day(6), "B", 2, 2, 0.01),
			)
		})

		It("rebases every path to one at the event date", func() {
			mean, std, err := factor.AverageCumulativeReturnByQuantile(panel, prices, factor.EventOptions{PeriodsBefore: 2, PeriodsAfter: 2})
			Expect(err).To(BeNil())
			Expect(mean.Index).To(Equal([]int{-2, -1, 0, 1, 2}))
			Expect(mean.ColNames).To(Equal([]string{"1", "2"}))
			Expect(mean.Vals[0][2]).To(Equal(1.0))
			Expect(mean.Vals[1][2]).To(Equal(1.0))

			Expect(mean.Vals[0][0]).To(BeNumerically("~", 10.0/12.0, 1e-12))
			Expect(mean.Vals[0][4]).To(BeNumerically("~", 14.0/12.0, 1e-12))
			Expect(mean.Vals[1][3]).To(BeNumerically("~", 0.75, 1e-12))

			// a single path has no dispersion estimate
			Expect(math.IsNaN(std.Vals[0][2])).To(BeTrue())
		})

		It("subtracts the mean path of the event date", func() {
			mean, _, err := factor.AverageCumulativeReturnByQuantile(panel, prices, factor.EventOptions{PeriodsBefore: 1, PeriodsAfter: 1, Demeaned: true})
			Expect(err).To(BeNil())
			for offset := range mean.Index {
				Expect(mean.Vals[0][offset] + mean.Vals[1][offset]).To(BeNumerically("~", 0, 1e-12))
			}
			Expect(mean.Vals[0][1]).To(BeNumerically("~", 0, 1e-12))
		})

		It("rejects negative windows", func() {
			_, _, err := factor.AverageCumulativeReturnByQuantile(panel, prices, factor.EventOptions{PeriodsBefore: -1})
			Expect(err).To(MatchError(factor.ErrInvalidWindow))
		})

		It("excludes windows past the end of the price history", func() {
			mean, _, err := factor.AverageCumulativeReturnByQuantile(panel, prices, factor.EventOptions{PeriodsAfter: 3})
			Expect(err).To(BeNil())
			Expect(math.IsNaN(mean.Vals[0][0])).To(BeTrue())
		})
	})

	It("excludes observations without enough history", func() {
		panel := mustPanel([]string{"1D"},
			observation(day(4), "A", 1, 1, 0.01),
			observation(day(4), "B", 2, 2, 0.01),
			observation(day(6), "A", 1, 1, 0.01),
			observation(day(6), "C", 2, 2, 0.01),
		)

		mean, std, err := factor.AverageCumulativeReturnByQuantile(panel, prices, factor.EventOptions{PeriodsBefore: 2, PeriodsAfter: 1})
		Expect(err).To(BeNil())
		Expect(mean.Vals[0][0]).To(BeNumerically("~", 10.0/12.0, 1e-12))
		Expect(mean.Vals[1][0]).To(Equal(1.0))
		Expect(mean.Vals[0][2]).To(Equal(1.0))
		Expect(math.IsNaN(std.Vals[0][2])).To(BeTrue())
	})

	It("averages several paths of the same quantile", func() {
		panel := mustPanel([]string{"1D"},
			observation(day(5), "A", 1, 1, 0.01),
			observation(day(5), "B", 2, 1, 0.01),
		)

		mean, std, err := factor.AverageCumulativeReturnByQuantile(panel, prices, factor.EventOptions{PeriodsAfter: 1})
		Expect(err).To(BeNil())
		Expect(mean.Index).To(Equal([]int{0, 1}))
		Expect(mean.Vals[0][0]).To(Equal(1.0))
		// paths end at 12/11 and 16/20
		expected := (12.0/11.0 + 0.8) / 2
		Expect(mean.Vals[0][1]).To(BeNumerically("~", expected, 1e-12))
		Expect(std.Vals[0][0]).To(Equal(0.0))
		Expect(std.Vals[0][1]).To(BeNumerically("~", math.Abs(12.0/11.0-0.8)/math.Sqrt(2), 1e-12))
	})

	It("skips assets without prices", func() {
		panel := mustPanel([]string{"1D"},
			observation(day(5), "Z", 1, 1, 0.01),
		)
		mean, _, err := factor.AverageCumulativeReturnByQuantile(panel, prices, factor.EventOptions{PeriodsAfter: 1})
		Expect(err).To(BeNil())
		Expect(math.IsNaN(mean.Vals[0][0])).To(BeTrue())
	})
})
