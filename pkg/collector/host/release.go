// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package host

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/NVIDIA/scanwatch/pkg/collector/file"
)

var (
	filePathReleasePrimary  = "/etc/os-release"
	filePathReleaseFallback = "/usr/lib/os-release"
)

// operatingSystem describes the host OS from os-release, falling back to
// /usr/lib/os-release per the freedesktop.org layout. The Go runtime OS
// name is returned alongside any error.
//
//	PRETTY_NAME="Ubuntu 22.04.4 LTS"
func (c *Collector) operatingSystem() (string, error) {
	parser := file.NewParser(
		file.WithFS(c.rootFS()),
		file.WithKVDelimiter("="),
		file.WithVTrimChars(`"'`),
		file.WithSkipEmptyValues(true),
	)

	path := filePathReleasePrimary
	if !parser.Exists(path) {
		path = filePathReleaseFallback
	}

	params, err := parser.GetMap(path)
	if err != nil {
		return runtime.GOOS, fmt.Errorf("failed to read os release from %s: %w", path, err)
	}

	if pretty := params["PRETTY_NAME"]; pretty != "" {
		return pretty, nil
	}
	name := strings.TrimSpace(params["NAME"] + " " + params["VERSION_ID"])
	if name == "" {
		return runtime.GOOS, nil
	}
	return name, nil
}
