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

package common

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"github.com/spf13/viper"
)

// SetupLogging configures the global logger from the log.* settings. When
// log.output names a file the returned closer must be closed on exit; otherwise
// it is a no-op.
func SetupLogging() (io.Closer, error) {
	// Set level
	level := strings.ToLower(viper.GetString("log.level"))
	zerolog.SetGlobalLevel(parseLevel(level))

	// setup stack marshaler
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	var (
		out    io.Writer
		closer io.Closer = nopCloser{}
	)

	output := viper.GetString("log.output")
	switch output {
	case "", "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	default:
		fh, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		if err != nil {
			return nil, err
		}
		out = fh
		closer = fh
	}

	if viper.GetBool("log.pretty") {
		out = zerolog.ConsoleWriter{Out: out}
	}
	log.Logger = log.Output(out)

	// Set report caller
	if viper.GetBool("log.report_caller") {
		log.Logger = log.With().Caller().Logger()
	}

	log.Debug().Str("Level", zerolog.GlobalLevel().String()).Str("Output", output).Msg("logging configured")

	return closer, nil
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "info":
		return zerolog.InfoLevel
	case "panic":
		return zerolog.PanicLevel
	case "trace":
		return zerolog.TraceLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	default:
		return zerolog.WarnLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
