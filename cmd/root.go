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
	"context"
	"fmt"
	"io"
	"os"

	"github.com/penny-vault/factorlens/common"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var logCloser io.Closer

func init() {
	// Logging configuration
	viper.BindEnv("log.level", "FACTORLENS_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "warning", "Logging level")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.BindEnv("log.report_caller", "FACTORLENS_LOG_REPORT_CALLER")
	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller"))

	viper.BindEnv("log.output", "FACTORLENS_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stderr", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	viper.BindEnv("log.pretty", "FACTORLENS_LOG_PRETTY")
	rootCmd.PersistentFlags().Bool("log-pretty", true, "Pretty print log messages to the console")
	viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))

	// Report output
	viper.BindEnv("report.format", "FACTORLENS_FORMAT")
	rootCmd.PersistentFlags().StringP("format", "f", "table", "Report format one of: `table` or `json`")
	viper.BindPFlag("report.format", rootCmd.PersistentFlags().Lookup("format"))

	viper.BindEnv("report.output", "FACTORLENS_OUTPUT")
	rootCmd.PersistentFlags().StringP("output", "o", "-", "Write the report to file, `-` is stdout; names ending in .lz4 are compressed")
	viper.BindPFlag("report.output", rootCmd.PersistentFlags().Lookup("output"))

	bindAnalysisFlags(rootCmd)
}

var rootCmd = &cobra.Command{
	Use:     "factorlens",
	Version: common.CurrentVersion.String(),
	Short:   "Factor performance analysis",
	Long: `Evaluate the predictive power of an alpha factor. factorlens reads a panel of
factor values, quantiles and forward returns and prints returns, information
coefficient, turnover and event study tear sheets.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logCloser, err = common.SetupLogging()
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser == nil {
			return
		}
		if err := logCloser.Close(); err != nil {
			log.Warn().Err(err).Msg("could not close log output")
		}
	},
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
