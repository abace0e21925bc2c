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

package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/factorlens/common"
	"github.com/penny-vault/factorlens/data"
)

// writeInputs creates a panel of 8 dates and 4 assets together with prices that
// cover 3 days on either side of it
func writeInputs(dir string) (panelFile, pricesFile string) {
	start := time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)
	assets := []string{"A", "B", "C", "D"}

	panel := &strings.Builder{}
	panel.WriteString("date,asset,factor,factor_quantile,1D\n")
	for d := 0; d < 8; d++ {
		for idx, asset := range assets {
			factorVal := (idx + d) % len(assets)
			fmt.Fprintf(panel, "%s,%s,%d,%d,%.4f\n", start.AddDate(0, 0, d).Format("2006-01-02"), asset,
				factorVal, factorVal/2+1, 0.001*float64(factorVal))
		}
	}

	prices := &strings.Builder{}
	prices.WriteString("date,A,B,C,D\n")
	for d := -3; d < 11; d++ {
		fmt.Fprintf(prices, "%s", start.AddDate(0, 0, d).Format("2006-01-02"))
		for idx := range assets {
			fmt.Fprintf(prices, ",%.4f", 100+float64(idx)+float64(d))
		}
		prices.WriteString("\n")
	}

	panelFile = filepath.Join(dir, "panel.csv")
	Expect(os.WriteFile(panelFile, []byte(panel.String()), 0644)).To(Succeed())

	pricesFile = filepath.Join(dir, "prices.csv")
	Expect(os.WriteFile(pricesFile, []byte(prices.String()), 0644)).To(Succeed())

	return
}

func run(args ...string) error {
	rootCmd.SetArgs(append(args, "--log-output", "stderr", "--log-level", "error"))
	return rootCmd.Execute()
}

var _ = Describe("Commands", func() {
	var (
		dir        string
		panelFile  string
		pricesFile string
	)

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "factorlens")
		Expect(err).To(BeNil())
		DeferCleanup(os.RemoveAll, dir)
		panelFile, pricesFile = writeInputs(dir)
	})

	It("writes the summary as json", func() {
		output := filepath.Join(dir, "summary.json")
		Expect(run("summary", "--format", "json", "--output", output, panelFile)).To(Succeed())

		raw, err := os.ReadFile(output)
		Expect(err).To(BeNil())

		var doc map[string]any
		Expect(json.Unmarshal(raw, &doc)).To(Succeed())
		Expect(doc["report"]).To(HaveKey("returns_table"))

		inputs := doc["meta"].(map[string]any)["inputs"].([]any)
		Expect(inputs).To(HaveLen(1))
		Expect(inputs[0].(map[string]any)["name"]).To(Equal("panel.csv"))
	})

	It("compresses lz4 output", func() {
		output := filepath.Join(dir, "full.txt.lz4")
		Expect(run("full", "--format", "table", "--output", output, panelFile)).To(Succeed())

		contents, _, err := common.ReadFile(output)
		Expect(err).To(BeNil())
		Expect(string(contents)).To(ContainSubstring("Turnover Analysis"))
	})

	It("runs an event study", func() {
		output := filepath.Join(dir, "events.txt")
		Expect(run("event-study", "--format", "table", "--output", output,
			"--periods-before", "2", "--periods-after", "2", panelFile, pricesFile)).To(Succeed())

		raw, err := os.ReadFile(output)
		Expect(err).To(BeNil())
		Expect(string(raw)).To(ContainSubstring("Average Cumulative Returns by Quantile"))
		Expect(string(raw)).To(ContainSubstring("prices.csv"))
	})

	Context("with a date range", func() {
		BeforeEach(func() {
			DeferCleanup(func() {
				Expect(rootCmd.PersistentFlags().Set("start", "")).To(Succeed())
				Expect(rootCmd.PersistentFlags().Set("end", "")).To(Succeed())
			})
		})

		It("analyzes only the dates in range", func() {
			output := filepath.Join(dir, "turnover.json")
			Expect(run("turnover", "--format", "json", "--output", output,
				"--start", "2021-01-06", "--end", "2021-01-08", panelFile)).To(Succeed())

			raw, err := os.ReadFile(output)
			Expect(err).To(BeNil())

			var doc map[string]any
			Expect(json.Unmarshal(raw, &doc)).To(Succeed())
			autocorr := doc["report"].(map[string]any)["autocorrelation"].(map[string]any)
			Expect(autocorr["index"]).To(Equal([]any{"2021-01-06", "2021-01-07", "2021-01-08"}))

			opts := doc["meta"].(map[string]any)["options"].(map[string]any)
			Expect(opts["start"]).To(Equal("2021-01-06"))
		})

		It("rejects a range without observations", func() {
			err := run("summary", "--format", "table", "--output", filepath.Join(dir, "out"),
				"--start", "2022-01-01", panelFile)
			Expect(err).To(MatchError(ErrEmptyDateRange))
		})

		It("rejects malformed dates", func() {
			err := run("summary", "--format", "table", "--output", filepath.Join(dir, "out"),
				"--end", "last week", panelFile)
			Expect(err).To(MatchError(data.ErrInvalidDate))
		})
	})

	It("rejects an unknown format", func() {
		err := run("turnover", "--format", "xml", "--output", filepath.Join(dir, "out"), panelFile)
		Expect(err).To(MatchError(ErrUnknownFormat))
	})

	It("requires the panel", func() {
		Expect(run("returns", "--format", "table")).NotTo(Succeed())
	})

	It("prints the analysis settings as toml", func() {
		out := &bytes.Buffer{}
		rootCmd.SetOut(out)
		DeferCleanup(func() { rootCmd.SetOut(nil) })

		Expect(run("config", "--histogram-bins", "12")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("[analysis]"))
		Expect(out.String()).To(ContainSubstring("histogram_bins = 12"))
		Expect(out.String()).To(ContainSubstring("base_period"))
	})
})
