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
	"fmt"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
)

// set by the mage Build target through -ldflags
var (
	commitHash string
	buildDate  string
)

// Version is a SemVer 2.0.0 build version
type Version struct {
	Major int
	Minor int
	Patch int

	// Suffix marks a pre-release build, e.g. "dev"; empty for releases
	Suffix string
}

// String formats the version as MAJOR.MINOR.PATCH, followed by -SUFFIX+COMMIT for pre-release
// builds
func (v Version) String() string {
	res := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Suffix == "" {
		return res
	}

	res += "-" + v.Suffix
	if commitHash != "" {
		res += "+" + strings.ToLower(commitHash)
	}
	return res
}

// Dependencies lists the modules compiled into the binary as path="version", sorted by path
func Dependencies() []string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}

	deps := make([]string, 0, len(bi.Deps))
	for _, dep := range bi.Deps {
		version := dep.Version
		if dep.Replace != nil {
			version = dep.Replace.Version
		}
		deps = append(deps, fmt.Sprintf("%s=%q", dep.Path, version))
	}
	sort.Strings(deps)

	return deps
}

// BuildVersionString describes the binary for "factorlens version"; withDeps appends the
// Dependencies list
func BuildVersionString(withDeps bool) string {
	date := buildDate
	if date == "" {
		date = "unknown"
	}

	commit := commitHash
	if commit == "" {
		commit = "unknown"
	}

	sb := &strings.Builder{}
	fmt.Fprintf(sb, "factorlens v%s %s/%s\n\n", CurrentVersion, runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(sb, "Build Date: %s\nCommit: %s\nBuilt with: %s", date, commit, runtime.Version())

	if withDeps {
		sb.WriteString("\n\nDependencies:\n\n")
		sb.WriteString(strings.Join(Dependencies(), "\n"))
	}

	return sb.String()
}
