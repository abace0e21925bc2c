//go:build mage

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

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "factorlens"
	coverFile  = "coverage.out"
	versionPkg = "github.com/penny-vault/factorlens/common"
)

var ldflags = fmt.Sprintf("-X %[1]s.commitHash=$COMMIT_HASH -X %[1]s.buildDate=$BUILD_DATE", versionPkg)

// allow user to override go executable by running as GOEXE=xxx mage ...
var goexe = "go"

func init() {
	if exe := os.Getenv("GOEXE"); exe != "" {
		goexe = exe
	}
}

// Build the factorlens binary with the commit hash and build date embedded
func Build() error {
	fmt.Println("Building...")
	return sh.RunWith(flagEnv(), goexe, "build", "-o", binaryName, "-ldflags", ldflags, "-v", ".")
}

// Clean up
func Clean() {
	fmt.Println("Cleaning...")
	os.RemoveAll(binaryName)
	os.RemoveAll(coverFile)
}

// Run gofmt, go vet and the tests with the race detector
func Check() {
	mg.Deps(Fmt, Vet)
	mg.Deps(TestRace)
}

// Run tests
func Test() error {
	fmt.Println("Go Test")
	return runCmd(goexe, "test", "./...")
}

// Run tests with race detector
func TestRace() error {
	fmt.Println("Go Test Race")
	return runCmd(goexe, "test", "-race", "./...")
}

// Generate a test coverage report and open it in the browser
func Cover() error {
	fmt.Println("Go Cover")
	if err := runCmd(goexe, "test", "-coverprofile="+coverFile, "-covermode=count", "./..."); err != nil {
		return err
	}
	return sh.Run(goexe, "tool", "cover", "-html="+coverFile)
}

// Run gofmt linter
func Fmt() error {
	fmt.Println("Go Format")

	dirs, err := packageDirs()
	if err != nil {
		return err
	}

	files := make([]string, 0)
	for _, dir := range dirs {
		matches, err := filepath.Glob(filepath.Join(dir, "*.go"))
		if err != nil {
			return err
		}
		files = append(files, matches...)
	}

	// gofmt doesn't exit with non-zero when it finds unformatted code
	out, err := sh.Output("gofmt", append([]string{"-l"}, files...)...)
	if err != nil {
		return fmt.Errorf("error running gofmt: %w", err)
	}
	if out != "" {
		fmt.Println("The following files are not gofmt'ed:")
		fmt.Println(out)
		return errors.New("improperly formatted go files")
	}
	return nil
}

// Run go vet linter
func Vet() error {
	fmt.Println("Go Vet")

	if err := sh.Run(goexe, "vet", "./..."); err != nil {
		return fmt.Errorf("error running go vet: %w", err)
	}
	return nil
}

// Helpers

func flagEnv() map[string]string {
	hash, _ := sh.Output("git", "rev-parse", "--short", "HEAD")
	return map[string]string{
		"COMMIT_HASH": hash,
		"BUILD_DATE":  time.Now().Format("2006-01-02T15:04:05Z0700"),
	}
}

func runCmd(cmd string, args ...string) error {
	if mg.Verbose() {
		return sh.Run(cmd, args...)
	}
	output, err := sh.Output(cmd, args...)
	if err != nil {
		fmt.Fprint(os.Stderr, output)
	}
	return err
}

// packageDirs lists the directory of every package in the module
func packageDirs() ([]string, error) {
	out, err := sh.Output(goexe, "list", "-f", "{{.Dir}}", "./...")
	if err != nil {
		return nil, err
	}
	return strings.Split(out, "\n"), nil
}
