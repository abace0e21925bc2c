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
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/factorlens/factor"
)

var _ = Describe("Panel", func() {
	Context("when validating observations", func() {
		It("requires at least one forward return column", func() {
			_, err := factor.NewPanel([]string{"price"}, []*factor.Observation{
				observation(day(4), "A", 1, 1, 10.0),
			})
			Expect(err).To(MatchError(factor.ErrNoPeriodColumns))
		})

		It("requires one return per column", func() {
			_, err := factor.NewPanel([]string{"1D", "5D"}, []*factor.Observation{
				observation(day(4), "A", 1, 1, 0.01),
			})
			Expect(err).To(MatchError(factor.ErrReturnsLength))
		})

		It("requires a quantile", func() {
			_, err := factor.NewPanel([]string{"1D"}, []*factor.Observation{
				observation(day(4), "A", 1, 0, 0.01),
			})
			Expect(err).To(MatchError(factor.ErrMissingQuantile))
		})

		It("requires a dense quantile range", func() {
			_, err := factor.NewPanel([]string{"1D"}, []*factor.Observation{
				observation(day(4), "A", 1, 1, 0.01),
				observation(day(4), "B", 3, 3, 0.01),
			})
			Expect(err).To(MatchError(factor.ErrQuantileGap))
			Expect(err.Error()).To(ContainSubstring("quantile 2"))
		})
	})

	Context("with observations out of order", func() {
		var (
			panel *factor.Panel
			input []*factor.Observation
		)

		BeforeEach(func() {
			input = []*factor.Observation{
				observation(day(5), "B", 4, 2, 0.05, 0.01),
				observation(day(4), "B", 2, 2, 0.04, 0.02),
				observation(day(5), "A", 3, 1, 0.03, 0.03),
				observation(day(4), "A", 1, 1, 0.02, 0.04),
			}
			input[0].Group = "tech"
			input[2].Group = "energy"
			panel = mustPanel([]string{"5D", "1D"}, input...)
		})

		It("sorts by date and asset", func() {
			obs := panel.Observations()
			Expect(obs).To(HaveLen(4))
			Expect(obs[0].Date).To(Equal(day(4)))
			Expect(obs[0].Asset).To(Equal("A"))
			Expect(obs[3].Date).To(Equal(day(5)))
			Expect(obs[3].Asset).To(Equal("B"))
		})

		It("orders periods by length and aligns the returns", func() {
			Expect(panel.PeriodNames()).To(Equal([]string{"1D", "5D"}))
			first := panel.Observations()[0]
			Expect(first.Returns).To(Equal([]float64{0.04, 0.02}))
		})

		It("leaves the input untouched", func() {
			Expect(input[3].Returns).To(Equal([]float64{0.02, 0.04}))
		})

		It("reports unique dates and quantiles", func() {
			Expect(panel.Dates()).To(HaveLen(2))
			Expect(panel.Quantiles()).To(Equal(2))
			Expect(panel.Len()).To(Equal(4))
		})

		It("looks up periods by name", func() {
			period, err := panel.Period("5D")
			Expect(err).To(BeNil())
			Expect(period.Count).To(Equal(5))

			_, err = panel.Period("3D")
			Expect(err).To(MatchError(factor.ErrPeriodNotFound))
		})

		It("lists groups in sorted order", func() {
			Expect(panel.HasGroup()).To(BeTrue())
			Expect(panel.Groups()).To(Equal([]string{"energy", "tech"}))
		})

		It("filters a group and keeps the quantile count", func() {
			tech, err := panel.FilterGroup("tech")
			Expect(err).To(BeNil())
			Expect(tech.Len()).To(Equal(1))
			Expect(tech.Quantiles()).To(Equal(2))
		})

		It("trims to a date range", func() {
			trimmed := panel.Trim(day(5), day(31))
			Expect(trimmed.Len()).To(Equal(2))
			Expect(trimmed.Dates()).To(Equal([]time.Time{day(5)}))
		})
	})

	It("cannot filter a panel without groups", func() {
		panel := mustPanel([]string{"1D"}, observation(day(4), "A", 1, 1, 0.01))
		_, err := panel.FilterGroup("tech")
		Expect(err).To(MatchError(factor.ErrMissingGroup))
	})
})
