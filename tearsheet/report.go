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

package tearsheet

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
)

// Tabler renders itself as an ASCII table
type Tabler interface {
	Table() string
}

// Section is a titled table of a report
type Section struct {
	Title string
	Body  Tabler
}

// Report is implemented by every tear sheet
type Report interface {
	Sections() []Section
}

// Input identifies a file a report was computed from
type Input struct {
	Name   string `json:"name"`
	Digest string `json:"blake3"`
}

// Meta describes a generated report
type Meta struct {
	ID        uuid.UUID `json:"id"`
	Generated time.Time `json:"generated"`
	Version   string    `json:"version"`
	Options   Options   `json:"options"`
	Inputs    []Input   `json:"inputs"`
}

// NewMeta creates report metadata with a fresh report id
func NewMeta(version string, opts Options, inputs ...Input) *Meta {
	if inputs == nil {
		inputs = []Input{}
	}
	return &Meta{
		ID:        uuid.New(),
		Generated: time.Now().UTC(),
		Version:   version,
		Options:   opts,
		Inputs:    inputs,
	}
}

// Table renders the metadata as a two column table
func (meta *Meta) Table() string {
	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader([]string{"Field", "Value"})
	table.SetBorder(false)
	table.Append([]string{"Report ID", meta.ID.String()})
	table.Append([]string{"Generated", meta.Generated.Format(time.RFC3339)})
	table.Append([]string{"Version", meta.Version})
	for _, input := range meta.Inputs {
		table.Append([]string{input.Name, input.Digest})
	}
	table.Render()
	return s.String()
}

type document struct {
	Meta   *Meta  `json:"meta"`
	Report Report `json:"report"`
}

// JSON encodes the report together with its metadata
func JSON(meta *Meta, report Report) ([]byte, error) {
	return json.MarshalIndent(document{Meta: meta, Report: report}, "", "  ")
}

// Table renders every section of the report, preceded by the metadata when it is not nil
func Table(meta *Meta, report Report) string {
	sections := report.Sections()
	if meta != nil {
		sections = append([]Section{{Title: "Report", Body: meta}}, sections...)
	}

	s := &strings.Builder{}
	for _, section := range sections {
		fmt.Fprintf(s, "%s\n%s\n", section.Title, strings.Repeat("=", len(section.Title)))
		s.WriteString(section.Body.Table())
		s.WriteString("\n")
	}
	return s.String()
}
