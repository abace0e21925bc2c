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
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// Lz4Ext is the file extension of lz4 compressed inputs and outputs
const Lz4Ext = ".lz4"

func Compress(in []byte) ([]byte, error) {
	r := bytes.NewReader(in)
	w := &bytes.Buffer{}
	zw := lz4.NewWriter(w)
	_, err := io.Copy(zw, r)
	if err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func Decompress(in []byte) ([]byte, error) {
	r := bytes.NewReader(in)
	w := &bytes.Buffer{}
	zr := lz4.NewReader(r)
	_, err := io.Copy(w, zr)
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// ReadFile reads the named file, decompressing it when its name ends in .lz4.
// The returned digest is computed over the bytes stored on disk.
func ReadFile(name string) (contents []byte, digest string, err error) {
	raw, err := os.ReadFile(name)
	if err != nil {
		return nil, "", err
	}

	digest = Digest(raw)
	if !strings.HasSuffix(name, Lz4Ext) {
		return raw, digest, nil
	}

	contents, err = Decompress(raw)
	return contents, digest, err
}

// WriteFile writes b to the named file, compressing it when the name ends in
// .lz4. The name "-" writes to stdout.
func WriteFile(name string, b []byte) error {
	if name == "" || name == "-" {
		_, err := os.Stdout.Write(b)
		return err
	}

	if strings.HasSuffix(name, Lz4Ext) {
		var err error
		if b, err = Compress(b); err != nil {
			return err
		}
	}

	return os.WriteFile(name, b, 0644)
}
