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
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/penny-vault/factorlens/common"
	"github.com/penny-vault/factorlens/data"
	"github.com/penny-vault/factorlens/dataframe"
	"github.com/penny-vault/factorlens/factor"
	"github.com/penny-vault/factorlens/tearsheet"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var ErrUnknownFormat = errors.New("unknown report format")

// panelReport builds a report from a factor panel
type panelReport func(panel *factor.Panel, opts tearsheet.Options) (tearsheet.Report, error)

// priceReport builds a report from a factor panel and the prices of its assets
type priceReport func(panel *factor.Panel, prices *dataframe.DataFrame[time.Time], opts tearsheet.Options) (tearsheet.Report, error)

func init() {
	rootCmd.AddCommand(
		panelCommand("summary", "Print the summary tear sheet", func(panel *factor.Panel, opts tearsheet.Options) (tearsheet.Report, error) {
			return tearsheet.NewSummary(panel, opts)
		}),
		panelCommand("returns", "Print the returns tear sheet", func(panel *factor.Panel, opts tearsheet.Options) (tearsheet.Report, error) {
			return tearsheet.NewReturns(panel, opts)
		}),
		panelCommand("information", "Print the information coefficient tear sheet", func(panel *factor.Panel, opts tearsheet.Options) (tearsheet.Report, error) {
			return tearsheet.NewInformation(panel, opts)
		}),
		panelCommand("turnover", "Print the turnover tear sheet", func(panel *factor.Panel, opts tearsheet.Options) (tearsheet.Report, error) {
			return tearsheet.NewTurnover(panel)
		}),
		panelCommand("full", "Print the returns, information and turnover tear sheets", func(panel *factor.Panel, opts tearsheet.Options) (tearsheet.Report, error) {
			return tearsheet.NewFull(panel, opts)
		}),
		priceCommand("events", "Print the average cumulative returns around each factor observation", func(panel *factor.Panel, prices *dataframe.DataFrame[time.Time], opts tearsheet.Options) (tearsheet.Report, error) {
			return tearsheet.NewEventReturns(panel, prices, opts)
		}),
		priceCommand("event-study", "Print the event study tear sheet", func(panel *factor.Panel, prices *dataframe.DataFrame[time.Time], opts tearsheet.Options) (tearsheet.Report, error) {
			return tearsheet.NewEventStudy(panel, prices, opts)
		}),
	)
}

func panelCommand(name, short string, build panelReport) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [flags] PANEL",
		Short: short,
		Long: short + `.

PANEL is a csv file with the columns date, asset, factor, factor_quantile, an
optional group column and one forward return column per holding period (1D, 5D,
...). Files ending in .lz4 are decompressed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := analysisOptions()
			panel, input, err := loadPanel(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}

			report, err := build(panel, opts)
			if err != nil {
				log.Error().Err(err).Str("Command", name).Object("Options", opts).Msg("could not compute report")
				return err
			}

			return writeReport(tearsheet.NewMeta(common.CurrentVersion.String(), opts, input), report)
		},
	}
}

func priceCommand(name, short string, build priceReport) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [flags] PANEL PRICES",
		Short: short,
		Long: short + `.

PANEL is a csv file of factor observations (see summary --help). PRICES is a
csv file with a date column and one price column per asset; it must cover the
event window around every observation.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := analysisOptions()
			panel, panelInput, err := loadPanel(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}

			prices, pricesInput, err := loadPrices(cmd.Context(), args[1])
			if err != nil {
				return err
			}

			report, err := build(panel, prices, opts)
			if err != nil {
				log.Error().Err(err).Str("Command", name).Object("Options", opts).Msg("could not compute report")
				return err
			}

			return writeReport(tearsheet.NewMeta(common.CurrentVersion.String(), opts, panelInput, pricesInput), report)
		},
	}
}

func loadPanel(ctx context.Context, name string, opts tearsheet.Options) (*factor.Panel, tearsheet.Input, error) {
	contents, digest, err := common.ReadFile(name)
	if err != nil {
		log.Error().Err(err).Str("File", name).Msg("could not read factor panel")
		return nil, tearsheet.Input{}, err
	}

	panel, err := data.LoadPanelCSV(ctx, bytes.NewReader(contents))
	if err != nil {
		log.Error().Err(err).Str("File", name).Msg("could not parse factor panel")
		return nil, tearsheet.Input{}, fmt.Errorf("%s: %w", name, err)
	}

	log.Info().Str("File", name).Int("Observations", len(panel.Observations())).Int("Dates", len(panel.Dates())).Msg("loaded factor panel")

	if panel, err = trimPanel(panel, opts); err != nil {
		log.Error().Err(err).Str("File", name).Msg("could not trim factor panel")
		return nil, tearsheet.Input{}, err
	}

	return panel, tearsheet.Input{Name: filepath.Base(name), Digest: digest}, nil
}

func loadPrices(ctx context.Context, name string) (*dataframe.DataFrame[time.Time], tearsheet.Input, error) {
	contents, digest, err := common.ReadFile(name)
	if err != nil {
		log.Error().Err(err).Str("File", name).Msg("could not read prices")
		return nil, tearsheet.Input{}, err
	}

	prices, err := data.LoadPricesCSV(ctx, bytes.NewReader(contents))
	if err != nil {
		log.Error().Err(err).Str("File", name).Msg("could not parse prices")
		return nil, tearsheet.Input{}, fmt.Errorf("%s: %w", name, err)
	}

	log.Info().Str("File", name).Int("Dates", prices.Len()).Int("Assets", prices.ColCount()).Msg("loaded prices")
	return prices, tearsheet.Input{Name: filepath.Base(name), Digest: digest}, nil
}

func writeReport(meta *tearsheet.Meta, report tearsheet.Report) error {
	var (
		out []byte
		err error
	)

	format := strings.ToLower(viper.GetString("report.format"))
	switch format {
	case "table":
		out = []byte(tearsheet.Table(meta, report))
	case "json":
		if out, err = tearsheet.JSON(meta, report); err != nil {
			log.Error().Err(err).Msg("could not encode report")
			return err
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	output := viper.GetString("report.output")
	if err := common.WriteFile(output, out); err != nil {
		log.Error().Err(err).Str("Output", output).Msg("could not write report")
		return err
	}

	log.Debug().Str("ReportID", meta.ID.String()).Str("Output", output).Msg("wrote report")
	return nil
}
